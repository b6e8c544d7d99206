package repository

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/aggregate"
	"Atelier/internal/pkg/database"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepo interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id uint64) (*model.Comment, error)
	// LockCommentByID 事务内对评论加共享锁，sqlite 下退化为普通查询
	LockCommentByID(ctx context.Context, id uint64) (*model.Comment, error)
	UpdateComment(ctx context.Context, id uint64, values map[string]any) error
	FindComments(ctx context.Context, filter model.CommentFilter) ([]*model.Comment, error)
	FindRepliesByParentIDs(ctx context.Context, parentIDs []uint64) ([]*model.Comment, error)
	DeleteCommentsByIDs(ctx context.Context, ids []uint64) (int64, error)
	GetCommentCount(ctx context.Context, entityID uint64) (int64, error)

	// ListTopLevel 一级评论 + 作者资料，排序分页只作用于一级评论
	ListTopLevel(ctx context.Context, filter model.CommentFilter, sort model.Sort, page model.Page) ([]*model.CommentView, error)
	ListReplies(ctx context.Context, parentIDs []uint64) ([]*model.CommentView, error)
}

type CommentRepoImpl struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) CommentRepo {
	return &CommentRepoImpl{db}
}

func (s *CommentRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	return database.Conn(ctx, s.db).Create(comment).Error
}

func (s *CommentRepoImpl) GetCommentByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	if err := database.Conn(ctx, s.db).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentRepoImpl) LockCommentByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := database.Conn(ctx, s.db).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("id = ?", id).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *CommentRepoImpl) UpdateComment(ctx context.Context, id uint64, values map[string]any) error {
	return database.Conn(ctx, s.db).Model(&model.Comment{}).Where("id = ?", id).Updates(values).Error
}

func (s *CommentRepoImpl) FindComments(ctx context.Context, filter model.CommentFilter) ([]*model.Comment, error) {
	q, err := whereColumns(database.Conn(ctx, s.db), model.Comment{}.TableName(), filter.Columns())
	if err != nil {
		return nil, err
	}
	var comments []*model.Comment
	err = q.Find(&comments).Error
	return comments, err
}

func (s *CommentRepoImpl) FindRepliesByParentIDs(ctx context.Context, parentIDs []uint64) ([]*model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var comments []*model.Comment
	err := database.Conn(ctx, s.db).Where("parent_id IN ?", parentIDs).Find(&comments).Error
	return comments, err
}

func (s *CommentRepoImpl) DeleteCommentsByIDs(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := database.Conn(ctx, s.db).Where("id IN ?", ids).Delete(&model.Comment{})
	return res.RowsAffected, res.Error
}

func (s *CommentRepoImpl) GetCommentCount(ctx context.Context, entityID uint64) (int64, error) {
	var count int64
	err := database.Conn(ctx, s.db).Model(&model.Comment{}).
		Where("entity_id = ?", entityID).
		Count(&count).Error
	return count, err
}

func (s *CommentRepoImpl) ListTopLevel(ctx context.Context, filter model.CommentFilter, sort model.Sort, page model.Page) ([]*model.CommentView, error) {
	page = page.Normalize()
	q, err := whereColumns(s.viewQuery(ctx), model.Comment{}.TableName(), filter.Columns())
	if err != nil {
		return nil, err
	}

	direction := " ASC"
	if sort.Desc {
		direction = " DESC"
	}
	var rows []map[string]any
	err = q.Where("comments.parent_id IS NULL").
		Order("comments." + sort.CommentColumn() + direction).
		Order("comments.id" + direction).
		Limit(page.Limit).Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return decodeComments(rows)
}

func (s *CommentRepoImpl) ListReplies(ctx context.Context, parentIDs []uint64) ([]*model.CommentView, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var rows []map[string]any
	err := s.viewQuery(ctx).
		Where("comments.parent_id IN ?", parentIDs).
		Order("comments.created_at ASC").
		Order("comments.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return decodeComments(rows)
}

func (s *CommentRepoImpl) viewQuery(ctx context.Context) *gorm.DB {
	conn := database.Conn(ctx, s.db)
	return conn.Table("comments").
		Select(database.Select(conn,
			[2]string{"comments.*", ""},
			[2]string{"profiles.id", "user.id"},
			[2]string{"profiles.full_name", "user.full_name"},
			[2]string{"profiles.username", "user.username"},
			[2]string{"profiles.image_src", "user.image_src"},
		)).
		Joins("LEFT JOIN profiles ON profiles.id = comments.user_id")
}

func decodeComments(rows []map[string]any) ([]*model.CommentView, error) {
	views := make([]*model.CommentView, 0, len(rows))
	if err := aggregate.DecodeRows(rows, &views); err != nil {
		return nil, err
	}
	return views, nil
}
