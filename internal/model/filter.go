package model

// CommentFilter nil 字段不参与过滤
type CommentFilter struct {
	ID           *uint64
	UserID       *uint64
	EntityID     *uint64
	EntitySource *EntitySource
	ParentID     *uint64
}

func (f CommentFilter) Columns() map[string]any {
	cols := make(map[string]any)
	if f.ID != nil {
		cols["id"] = *f.ID
	}
	if f.UserID != nil {
		cols["user_id"] = *f.UserID
	}
	if f.EntityID != nil {
		cols["entity_id"] = *f.EntityID
	}
	if f.EntitySource != nil {
		cols["entity_source"] = string(*f.EntitySource)
	}
	if f.ParentID != nil {
		cols["parent_id"] = *f.ParentID
	}
	return cols
}

func (f CommentFilter) IsEmpty() bool {
	return len(f.Columns()) == 0
}

// NotificationFilter IDs 非空时按 id IN 过滤
type NotificationFilter struct {
	ID          *uint64
	IDs         []uint64
	ActionID    *Action
	ModelID     *uint64
	InteriorID  *uint64
	NotifierID  *uint64
	RecipientID *uint64
	Seen        *bool
}

func (f NotificationFilter) Columns() map[string]any {
	cols := make(map[string]any)
	if f.ID != nil {
		cols["id"] = *f.ID
	}
	if len(f.IDs) > 0 {
		cols["id"] = f.IDs
	}
	if f.ActionID != nil {
		cols["action_id"] = string(*f.ActionID)
	}
	if f.ModelID != nil {
		cols["model_id"] = *f.ModelID
	}
	if f.InteriorID != nil {
		cols["interior_id"] = *f.InteriorID
	}
	if f.NotifierID != nil {
		cols["notifier_id"] = *f.NotifierID
	}
	if f.RecipientID != nil {
		cols["recipient_id"] = *f.RecipientID
	}
	if f.Seen != nil {
		cols["seen"] = *f.Seen
	}
	return cols
}

func (f NotificationFilter) IsEmpty() bool {
	return len(f.Columns()) == 0
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Page struct {
	Limit  int
	Offset int
}

func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Sort OrderBy 只接受白名单列，非法值回退为 created_at
type Sort struct {
	OrderBy string
	Desc    bool
}

var commentSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
}

func (s Sort) CommentColumn() string {
	if commentSortColumns[s.OrderBy] {
		return s.OrderBy
	}
	return "created_at"
}
