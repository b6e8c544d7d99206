package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ReplyPolicyOrphan, cfg.Comments.ReplyPolicy)
	assert.Equal(t, 90*24*time.Hour, cfg.Notification.Retention())
	assert.Equal(t, time.Hour, cfg.Cache.CounterTTL())
	assert.False(t, cfg.Notification.SuppressSelf)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Comments.ReplyPolicy = "keep"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Slug.MaxAttempts = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	content := []byte("server:\n  port: 9090\ncomments:\n  reply_policy: cascade\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))
	t.Setenv("ATELIER_NOTIFICATION_SUPPRESS_SELF", "true")

	require.NoError(t, LoadConfig(dir))
	assert.Equal(t, 9090, Cfg.Server.Port)
	assert.Equal(t, ReplyPolicyCascade, Cfg.Comments.ReplyPolicy)
	assert.True(t, Cfg.Notification.SuppressSelf)
	assert.Equal(t, 5, Cfg.Slug.MaxAttempts)
}
