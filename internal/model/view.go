package model

import "time"

// 以下为连表查询的读模型，字段由点号别名的平铺行解码而来

type ProfileSummary struct {
	ID       uint64  `mapstructure:"id"`
	FullName string  `mapstructure:"full_name"`
	Username string  `mapstructure:"username"`
	ImageSrc *string `mapstructure:"image_src"`
}

type CommentView struct {
	ID             uint64         `mapstructure:"id"`
	EntityID       uint64         `mapstructure:"entity_id"`
	EntitySource   EntitySource   `mapstructure:"entity_source"`
	ParentID       *uint64        `mapstructure:"parent_id"`
	NotificationID *uint64        `mapstructure:"notification_id"`
	UserID         uint64         `mapstructure:"user_id"`
	Text           string         `mapstructure:"text"`
	CreatedAt      time.Time      `mapstructure:"created_at"`
	UpdatedAt      time.Time      `mapstructure:"updated_at"`
	User           ProfileSummary `mapstructure:"user"`
	Replies        []*CommentView `mapstructure:"-"`
}

type ActionSummary struct {
	Name        Action `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

type SubjectSummary struct {
	ID    uint64  `mapstructure:"id"`
	Name  string  `mapstructure:"name"`
	Slug  string  `mapstructure:"slug"`
	Cover *string `mapstructure:"cover"`
}

type NotificationView struct {
	ID          uint64          `mapstructure:"id"`
	ActionID    Action          `mapstructure:"action_id"`
	ModelID     *uint64         `mapstructure:"model_id"`
	InteriorID  *uint64         `mapstructure:"interior_id"`
	NotifierID  uint64          `mapstructure:"notifier_id"`
	RecipientID uint64          `mapstructure:"recipient_id"`
	Seen        bool            `mapstructure:"seen"`
	Message     *string         `mapstructure:"message"`
	CreatedAt   time.Time       `mapstructure:"created_at"`
	Action      ActionSummary   `mapstructure:"action"`
	Notifier    ProfileSummary  `mapstructure:"notifier"`
	Model       *SubjectSummary `mapstructure:"model"`
	Interior    *SubjectSummary `mapstructure:"interior"`
}
