package model

import (
	"Atelier/internal/pkg/snowflake"
	"time"

	"gorm.io/gorm"
)

type Action string

const (
	ActionNewModelDownload  Action = "new_model_download"
	ActionNewModelUpload    Action = "new_model_upload"
	ActionNewInteriorUpload Action = "new_interior_upload"
	ActionNewTag            Action = "new__tag"
	ActionNewComment        Action = "new_comment"
	ActionNewLike           Action = "new_like"
	ActionNewMessage        Action = "new_message"
	ActionBanned            Action = "banned"
	ActionNewModelLike      Action = "new_model_like"
	ActionNewInteriorLike   Action = "new_interior_like"
	ActionNewCommentLike    Action = "new_comment_like"
)

// NotificationActions 通知类型全集，migrate seed 时写入 notification_actions
var NotificationActions = []NotificationAction{
	{ID: ActionNewModelDownload, Description: "downloaded your model"},
	{ID: ActionNewModelUpload, Description: "uploaded a new model"},
	{ID: ActionNewInteriorUpload, Description: "uploaded a new interior"},
	{ID: ActionNewTag, Description: "tagged your model"},
	{ID: ActionNewComment, Description: "commented"},
	{ID: ActionNewLike, Description: "liked"},
	{ID: ActionNewMessage, Description: "sent you a message"},
	{ID: ActionBanned, Description: "your content was banned"},
	{ID: ActionNewModelLike, Description: "liked your model"},
	{ID: ActionNewInteriorLike, Description: "liked your interior"},
	{ID: ActionNewCommentLike, Description: "liked your comment"},
}

func (s Action) Valid() bool {
	for _, a := range NotificationActions {
		if a.ID == s {
			return true
		}
	}
	return false
}

// LikeActionFor 按实体类型取点赞通知类型
func LikeActionFor(source EntitySource) Action {
	if source == EntitySourceInterior {
		return ActionNewInteriorLike
	}
	return ActionNewModelLike
}

type NotificationAction struct {
	ID          Action `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Description string `gorm:"type:varchar(255);not null;default:''" json:"description"`
}

func (NotificationAction) TableName() string {
	return "notification_actions"
}

type Notification struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ActionID    Action    `gorm:"type:varchar(64);not null" json:"actionId"`
	ModelID     *uint64   `gorm:"index:idx_notifications_model_id" json:"modelId"`
	InteriorID  *uint64   `gorm:"index:idx_notifications_interior_id" json:"interiorId"`
	NotifierID  uint64    `gorm:"not null" json:"notifierId"`
	RecipientID uint64    `gorm:"not null;index:idx_notifications_recipient,priority:1" json:"recipientId"`
	Seen        bool      `gorm:"not null;default:false;index:idx_notifications_recipient,priority:2" json:"seen"`
	Message     *string   `gorm:"type:text" json:"message"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (s *Notification) BeforeCreate(*gorm.DB) error {
	if s.ID == 0 {
		s.ID = snowflake.GenID()
	}
	return nil
}

// SubjectOf 把通知的 model_id / interior_id 指向实体
func (s *Notification) SubjectOf(entity *Entity) {
	id := entity.ID
	switch entity.Source {
	case EntitySourceModel:
		s.ModelID = &id
	case EntitySourceInterior:
		s.InteriorID = &id
	}
}
