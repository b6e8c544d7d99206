package model

import (
	"Atelier/internal/pkg/snowflake"
	"time"

	"gorm.io/gorm"
)

// Like 同一用户对同一实体最多一条
type Like struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	EntityID       uint64    `gorm:"not null;uniqueIndex:uk_likes_entity_user,priority:1" json:"entityId"`
	UserID         uint64    `gorm:"not null;uniqueIndex:uk_likes_entity_user,priority:2;index:idx_likes_user_id" json:"userId"`
	NotificationID *uint64   `json:"notificationId"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}

func (s *Like) BeforeCreate(*gorm.DB) error {
	if s.ID == 0 {
		s.ID = snowflake.GenID()
	}
	return nil
}
