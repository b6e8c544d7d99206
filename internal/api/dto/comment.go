package dto

// CommentCreateReq 创建评论请求，ParentID 为空表示一级评论
type CommentCreateReq struct {
	EntityID     uint64  `json:"entity_id" binding:"required"`
	EntitySource string  `json:"entity_source" binding:"required,oneof=model interior"`
	Text         string  `json:"text" binding:"required,max=2000"`
	ParentID     *uint64 `json:"parent_id"`
}

// CommentUpdateReq 修改评论内容
type CommentUpdateReq struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// CommentListReq 评论列表查询
type CommentListReq struct {
	PageReq
	EntityID uint64 `form:"entity_id"`
	UserID   uint64 `form:"user_id"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at updated_at"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// CommentDTO 评论返回详情，Replies 永远不为 null
type CommentDTO struct {
	ID           uint64        `json:"id"`
	EntityID     uint64        `json:"entity_id"`
	EntitySource string        `json:"entity_source"`
	ParentID     *uint64       `json:"parent_id"`
	UserID       uint64        `json:"user_id"`
	Text         string        `json:"text"`
	User         ProfileDTO    `json:"user"`
	CreatedAt    string        `json:"created_at"`
	UpdatedAt    string        `json:"updated_at"`
	Replies      []*CommentDTO `json:"replies"`
}

// CommentLikeStateDTO 评论点赞状态
type CommentLikeStateDTO struct {
	Changed   bool  `json:"changed"`
	LikeCount int64 `json:"like_count"`
}
