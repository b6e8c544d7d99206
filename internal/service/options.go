package service

import (
	"Atelier/internal/api/config"
	"time"
)

// Options 行为开关，由配置注入
type Options struct {
	SuppressSelfNotify bool
	ReplyPolicy        string
	CounterTTL         time.Duration
	SlugMaxAttempts    int
}

func NewOptions(cfg *config.Config) Options {
	return Options{
		SuppressSelfNotify: cfg.Notification.SuppressSelf,
		ReplyPolicy:        cfg.Comments.ReplyPolicy,
		CounterTTL:         cfg.Cache.CounterTTL(),
		SlugMaxAttempts:    cfg.Slug.MaxAttempts,
	}
}

func (o Options) cascadeReplies() bool {
	return o.ReplyPolicy == config.ReplyPolicyCascade
}
