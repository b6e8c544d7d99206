package model

import (
	"Atelier/internal/pkg/snowflake"
	"time"

	"gorm.io/gorm"
)

// Comment ParentID 为空表示一级评论，回复只挂一层
type Comment struct {
	ID             uint64       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	EntityID       uint64       `gorm:"not null;index:idx_comments_entity" json:"entityId"`
	EntitySource   EntitySource `gorm:"type:varchar(16);not null" json:"entitySource"`
	ParentID       *uint64      `gorm:"index:idx_comments_parent_id" json:"parentId"`
	NotificationID *uint64      `json:"notificationId"`
	UserID         uint64       `gorm:"not null;index:idx_comments_user_id" json:"userId"`
	Text           string       `gorm:"type:text;not null" json:"text"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

func (Comment) TableName() string {
	return "comments"
}

func (s *Comment) BeforeCreate(*gorm.DB) error {
	if s.ID == 0 {
		s.ID = snowflake.GenID()
	}
	return nil
}

func (s *Comment) IsReply() bool {
	return s.ParentID != nil
}
