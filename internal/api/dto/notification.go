package dto

// NotificationListReq 通知列表查询
type NotificationListReq struct {
	PageReq
	Seen     *bool  `form:"seen"`
	ActionID string `form:"action_id"`
}

// NotificationActionDTO 通知类型
type NotificationActionDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// NotificationSubjectDTO 通知关联的模型或室内设计
type NotificationSubjectDTO struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	CoverURL string `json:"cover_url"`
}

// NotificationDTO 通知返回对象
type NotificationDTO struct {
	ID          uint64                  `json:"id"`
	ActionID    string                  `json:"action_id"`
	Action      NotificationActionDTO   `json:"action"`
	Notifier    ProfileDTO              `json:"notifier"`
	RecipientID uint64                  `json:"recipient_id"`
	Model       *NotificationSubjectDTO `json:"model"`
	Interior    *NotificationSubjectDTO `json:"interior"`
	Seen        bool                    `json:"seen"`
	Message     *string                 `json:"message"`
	CreatedAt   string                  `json:"created_at"`
}

// NotificationListDTO 列表 + 总数
type NotificationListDTO struct {
	List  []*NotificationDTO `json:"list"`
	Total int64              `json:"total"`
}

// NotificationSeenReq IDs 为空且 All 为 true 时全部标记已读
type NotificationSeenReq struct {
	IDs []uint64 `json:"ids" validate:"required_without=All,max=100,dive,gt=0"`
	All bool     `json:"all"`
}

// NotificationUnreadDTO 未读数返回
type NotificationUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}

// AffectedDTO 批量操作影响行数
type AffectedDTO struct {
	Count int64 `json:"count"`
}
