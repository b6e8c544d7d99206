package dto

// EntityCreateReq 新建模型 / 室内设计
type EntityCreateReq struct {
	Name string `json:"name" binding:"required,max=255"`
}

// EntityDTO 模型 / 室内设计返回对象
type EntityDTO struct {
	ID            uint64 `json:"id"`
	Source        string `json:"source"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	UserID        uint64 `json:"user_id"`
	InteractionID uint64 `json:"interaction_id"`
}
