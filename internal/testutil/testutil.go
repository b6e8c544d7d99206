// Package testutil 为仓储与服务测试提供临时 sqlite 数据库和数据构造
package testutil

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/database"
	"Atelier/internal/pkg/logger"
	"Atelier/internal/pkg/snowflake"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB 每个测试独立的 sqlite 文件库，已建表并写入通知类型
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atelier.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=off&_busy_timeout=5000"), &gorm.Config{
		Logger:         logger.NewGormLogger(),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 单连接，事务内外不会互相等待锁
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, database.AutoMigrate(ctx, db))
	_, err = database.SeedNotificationActions(ctx, db)
	require.NoError(t, err)
	return db
}

func CreateProfile(t *testing.T, db *gorm.DB, username string) *model.Profile {
	t.Helper()
	p := &model.Profile{
		ID:       snowflake.GenID(),
		FullName: "Full " + username,
		Username: username,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func CreateModel(t *testing.T, db *gorm.DB, ownerID uint64, name string) *model.Entity {
	t.Helper()
	interaction := &model.Interaction{}
	require.NoError(t, db.Create(interaction).Error)
	m := &model.Model{Name: name, Slug: fmt.Sprintf("%s-%d", name, interaction.ID), UserID: ownerID, InteractionID: interaction.ID}
	require.NoError(t, db.Create(m).Error)
	return m.Entity()
}

func CreateInterior(t *testing.T, db *gorm.DB, ownerID uint64, name string) *model.Entity {
	t.Helper()
	interaction := &model.Interaction{}
	require.NoError(t, db.Create(interaction).Error)
	i := &model.Interior{Name: name, Slug: fmt.Sprintf("%s-%d", name, interaction.ID), UserID: ownerID, InteractionID: interaction.ID}
	require.NoError(t, db.Create(i).Error)
	return i.Entity()
}

// AddModelImage isMain 为 true 时作为封面候选
func AddModelImage(t *testing.T, db *gorm.DB, modelID uint64, src string, isMain bool) {
	t.Helper()
	img := &model.Image{Src: src}
	require.NoError(t, db.Create(img).Error)
	require.NoError(t, db.Create(&model.ModelImage{ModelID: modelID, ImageID: img.ID, IsMain: isMain}).Error)
}

func Count(t *testing.T, db *gorm.DB, value any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(value).Count(&n).Error)
	return n
}
