package database

import (
	"Atelier/internal/model"
	"context"
	log "log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Models 所有需要建表的模型
func Models() []any {
	return []any{
		&model.Profile{},
		&model.Interaction{},
		&model.Model{},
		&model.Interior{},
		&model.Image{},
		&model.ModelImage{},
		&model.InteriorImage{},
		&model.NotificationAction{},
		&model.Notification{},
		&model.Like{},
		&model.Comment{},
		&model.CommentLike{},
	}
}

func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return err
	}
	log.InfoContext(ctx, "database schema migrated", "tables", len(Models()))
	return nil
}

// SeedNotificationActions 已存在的类型保持不变
func SeedNotificationActions(ctx context.Context, db *gorm.DB) (int64, error) {
	actions := make([]model.NotificationAction, len(model.NotificationActions))
	copy(actions, model.NotificationActions)
	res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&actions)
	if res.Error != nil {
		return 0, res.Error
	}
	log.InfoContext(ctx, "notification actions seeded", "inserted", res.RowsAffected)
	return res.RowsAffected, nil
}
