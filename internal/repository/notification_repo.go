package repository

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/aggregate"
	"Atelier/internal/pkg/database"
	"context"
	"time"

	"gorm.io/gorm"
)

type NotificationRepo interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	GetNotificationByID(ctx context.Context, id uint64) (*model.Notification, error)
	ListNotifications(ctx context.Context, filter model.NotificationFilter, page model.Page) ([]*model.NotificationView, error)
	CountNotifications(ctx context.Context, filter model.NotificationFilter) (int64, error)
	UpdateNotifications(ctx context.Context, filter model.NotificationFilter, values map[string]any) (int64, error)
	DeleteNotificationByID(ctx context.Context, id uint64) (int64, error)
	DeleteNotificationsByIDs(ctx context.Context, ids []uint64) (int64, error)
	DeleteNotifications(ctx context.Context, filter model.NotificationFilter) (int64, error)
	DeleteSeenBefore(ctx context.Context, before time.Time) (int64, error)
}

type NotificationRepoImpl struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) NotificationRepo {
	return &NotificationRepoImpl{db}
}

func (s *NotificationRepoImpl) CreateNotification(ctx context.Context, n *model.Notification) error {
	return database.Conn(ctx, s.db).Create(n).Error
}

func (s *NotificationRepoImpl) GetNotificationByID(ctx context.Context, id uint64) (*model.Notification, error) {
	var n model.Notification
	if err := database.Conn(ctx, s.db).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNotifications 连表通知类型、通知人资料、关联内容及其封面，未读优先、新的在前
// 通知人资料不存在的通知不会出现在列表中
func (s *NotificationRepoImpl) ListNotifications(ctx context.Context, filter model.NotificationFilter, page model.Page) ([]*model.NotificationView, error) {
	page = page.Normalize()
	conn := database.Conn(ctx, s.db)

	q := conn.Table("notifications").
		Select(database.Select(conn,
			[2]string{"notifications.*", ""},
			[2]string{"notification_actions.id", "action.name"},
			[2]string{"notification_actions.description", "action.description"},
			[2]string{"profiles.id", "notifier.id"},
			[2]string{"profiles.full_name", "notifier.full_name"},
			[2]string{"profiles.username", "notifier.username"},
			[2]string{"profiles.image_src", "notifier.image_src"},
			[2]string{"models.id", "model.id"},
			[2]string{"models.name", "model.name"},
			[2]string{"models.slug", "model.slug"},
			[2]string{"model_cover.src", "model.cover"},
			[2]string{"interiors.id", "interior.id"},
			[2]string{"interiors.name", "interior.name"},
			[2]string{"interiors.slug", "interior.slug"},
			[2]string{"interior_cover.src", "interior.cover"},
		)).
		Joins("INNER JOIN notification_actions ON notification_actions.id = notifications.action_id").
		Joins("INNER JOIN profiles ON profiles.id = notifications.notifier_id").
		Joins("LEFT JOIN models ON models.id = notifications.model_id").
		Joins("LEFT JOIN ("+coverQuery("model_images", "model_id")+") AS model_cover ON model_cover.model_id = notifications.model_id", true).
		Joins("LEFT JOIN interiors ON interiors.id = notifications.interior_id").
		Joins("LEFT JOIN ("+coverQuery("interior_images", "interior_id")+") AS interior_cover ON interior_cover.interior_id = notifications.interior_id", true)

	q, err := whereColumns(q, model.Notification{}.TableName(), filter.Columns())
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	err = q.Order("notifications.seen ASC").
		Order("notifications.created_at DESC").
		Order("notifications.id DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]*model.NotificationView, 0, len(rows))
	if err = aggregate.DecodeRows(rows, &views, "model", "interior"); err != nil {
		return nil, err
	}
	return views, nil
}

func (s *NotificationRepoImpl) CountNotifications(ctx context.Context, filter model.NotificationFilter) (int64, error) {
	q, err := whereColumns(database.Conn(ctx, s.db).Model(&model.Notification{}), model.Notification{}.TableName(), filter.Columns())
	if err != nil {
		return 0, err
	}
	var count int64
	err = q.Count(&count).Error
	return count, err
}

func (s *NotificationRepoImpl) UpdateNotifications(ctx context.Context, filter model.NotificationFilter, values map[string]any) (int64, error) {
	q, err := whereColumns(database.Conn(ctx, s.db).Model(&model.Notification{}), model.Notification{}.TableName(), filter.Columns())
	if err != nil {
		return 0, err
	}
	res := q.Updates(values)
	return res.RowsAffected, res.Error
}

func (s *NotificationRepoImpl) DeleteNotificationByID(ctx context.Context, id uint64) (int64, error) {
	res := database.Conn(ctx, s.db).Where("id = ?", id).Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}

func (s *NotificationRepoImpl) DeleteNotificationsByIDs(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := database.Conn(ctx, s.db).Where("id IN ?", ids).Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}

func (s *NotificationRepoImpl) DeleteNotifications(ctx context.Context, filter model.NotificationFilter) (int64, error) {
	q, err := whereColumns(database.Conn(ctx, s.db), model.Notification{}.TableName(), filter.Columns())
	if err != nil {
		return 0, err
	}
	res := q.Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}

const purgeBatchSize = 500

// DeleteSeenBefore 点赞、评论、评论点赞上的 notification_id 在同一事务内置空，避免悬挂引用
func (s *NotificationRepoImpl) DeleteSeenBefore(ctx context.Context, before time.Time) (int64, error) {
	var ids []uint64
	err := database.Conn(ctx, s.db).Model(&model.Notification{}).
		Where("seen = ? AND created_at < ?", true, before).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}

	var affected int64
	for start := 0; start < len(ids); start += purgeBatchSize {
		batch := ids[start:min(start+purgeBatchSize, len(ids))]
		err = database.Transaction(ctx, s.db, func(ctx context.Context) error {
			conn := database.Conn(ctx, s.db)
			for _, owner := range []any{&model.Like{}, &model.Comment{}, &model.CommentLike{}} {
				if err := conn.Model(owner).Where("notification_id IN ?", batch).UpdateColumn("notification_id", nil).Error; err != nil {
					return err
				}
			}
			res := conn.Where("id IN ?", batch).Delete(&model.Notification{})
			if res.Error != nil {
				return res.Error
			}
			affected += res.RowsAffected
			return nil
		})
		if err != nil {
			return affected, err
		}
	}
	return affected, nil
}

// coverQuery 每个内容取主图中 src 最小的一张作为封面
func coverQuery(table, key string) string {
	return "SELECT " + table + "." + key + " AS " + key + ", MIN(images.src) AS src FROM " + table +
		" INNER JOIN images ON images.id = " + table + ".image_id" +
		" WHERE " + table + ".is_main = ? GROUP BY " + table + "." + key
}
