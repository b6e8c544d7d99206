package model

import (
	"Atelier/internal/pkg/snowflake"
	"time"

	"gorm.io/gorm"
)

type CommentLike struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CommentID      uint64    `gorm:"not null;uniqueIndex:uk_comment_likes_comment_user,priority:1" json:"commentId"`
	UserID         uint64    `gorm:"not null;uniqueIndex:uk_comment_likes_comment_user,priority:2" json:"userId"`
	NotificationID *uint64   `json:"notificationId"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (CommentLike) TableName() string {
	return "comment_likes"
}

func (s *CommentLike) BeforeCreate(*gorm.DB) error {
	if s.ID == 0 {
		s.ID = snowflake.GenID()
	}
	return nil
}
