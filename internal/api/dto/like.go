package dto

// LikeStateDTO 点赞/取消点赞后的状态
type LikeStateDTO struct {
	Changed   bool  `json:"changed"`
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// EntityStatsDTO 实体交互统计
type EntityStatsDTO struct {
	LikeCount    int64 `json:"like_count"`
	CommentCount int64 `json:"comment_count"`
	IsLiked      bool  `json:"is_liked"`
}
