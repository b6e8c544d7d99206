package repository

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/database"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepo interface {
	GetLike(ctx context.Context, entityID, userID uint64) (*model.Like, error)
	// CreateLikeIfAbsent 唯一键 (entity_id, user_id) 冲突时不插入并返回 false
	CreateLikeIfAbsent(ctx context.Context, like *model.Like) (bool, error)
	DeleteLike(ctx context.Context, id uint64) (int64, error)
	GetLikeCount(ctx context.Context, entityID uint64) (int64, error)
	ListLikesByEntity(ctx context.Context, entityID uint64) ([]*model.Like, error)
	DeleteLikesByEntity(ctx context.Context, entityID uint64) (int64, error)

	GetCommentLike(ctx context.Context, commentID, userID uint64) (*model.CommentLike, error)
	CreateCommentLikeIfAbsent(ctx context.Context, cl *model.CommentLike) (bool, error)
	DeleteCommentLike(ctx context.Context, id uint64) (int64, error)
	GetCommentLikeCount(ctx context.Context, commentID uint64) (int64, error)
	ListCommentLikesByCommentIDs(ctx context.Context, commentIDs []uint64) ([]*model.CommentLike, error)
	DeleteCommentLikesByCommentIDs(ctx context.Context, commentIDs []uint64) (int64, error)
}

type LikeRepoImpl struct {
	db *gorm.DB
}

func NewLikeRepo(db *gorm.DB) LikeRepo {
	return &LikeRepoImpl{db}
}

// GetLike 不存在时返回 nil, nil
func (s *LikeRepoImpl) GetLike(ctx context.Context, entityID, userID uint64) (*model.Like, error) {
	var likes []*model.Like
	err := database.Conn(ctx, s.db).
		Where("entity_id = ? AND user_id = ?", entityID, userID).
		Limit(1).Find(&likes).Error
	if err != nil || len(likes) == 0 {
		return nil, err
	}
	return likes[0], nil
}

func (s *LikeRepoImpl) CreateLikeIfAbsent(ctx context.Context, like *model.Like) (bool, error) {
	res := database.Conn(ctx, s.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "entity_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(like)
	return res.RowsAffected > 0, res.Error
}

func (s *LikeRepoImpl) DeleteLike(ctx context.Context, id uint64) (int64, error) {
	res := database.Conn(ctx, s.db).Where("id = ?", id).Delete(&model.Like{})
	return res.RowsAffected, res.Error
}

func (s *LikeRepoImpl) GetLikeCount(ctx context.Context, entityID uint64) (int64, error) {
	var count int64
	err := database.Conn(ctx, s.db).Model(&model.Like{}).
		Where("entity_id = ?", entityID).
		Count(&count).Error
	return count, err
}

func (s *LikeRepoImpl) ListLikesByEntity(ctx context.Context, entityID uint64) ([]*model.Like, error) {
	var likes []*model.Like
	err := database.Conn(ctx, s.db).Where("entity_id = ?", entityID).Find(&likes).Error
	return likes, err
}

func (s *LikeRepoImpl) DeleteLikesByEntity(ctx context.Context, entityID uint64) (int64, error) {
	res := database.Conn(ctx, s.db).Where("entity_id = ?", entityID).Delete(&model.Like{})
	return res.RowsAffected, res.Error
}

func (s *LikeRepoImpl) GetCommentLike(ctx context.Context, commentID, userID uint64) (*model.CommentLike, error) {
	var likes []*model.CommentLike
	err := database.Conn(ctx, s.db).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Limit(1).Find(&likes).Error
	if err != nil || len(likes) == 0 {
		return nil, err
	}
	return likes[0], nil
}

func (s *LikeRepoImpl) CreateCommentLikeIfAbsent(ctx context.Context, cl *model.CommentLike) (bool, error) {
	res := database.Conn(ctx, s.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(cl)
	return res.RowsAffected > 0, res.Error
}

func (s *LikeRepoImpl) DeleteCommentLike(ctx context.Context, id uint64) (int64, error) {
	res := database.Conn(ctx, s.db).Where("id = ?", id).Delete(&model.CommentLike{})
	return res.RowsAffected, res.Error
}

func (s *LikeRepoImpl) GetCommentLikeCount(ctx context.Context, commentID uint64) (int64, error) {
	var count int64
	err := database.Conn(ctx, s.db).Model(&model.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}

func (s *LikeRepoImpl) ListCommentLikesByCommentIDs(ctx context.Context, commentIDs []uint64) ([]*model.CommentLike, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	var likes []*model.CommentLike
	err := database.Conn(ctx, s.db).Where("comment_id IN ?", commentIDs).Find(&likes).Error
	return likes, err
}

func (s *LikeRepoImpl) DeleteCommentLikesByCommentIDs(ctx context.Context, commentIDs []uint64) (int64, error) {
	if len(commentIDs) == 0 {
		return 0, nil
	}
	res := database.Conn(ctx, s.db).Where("comment_id IN ?", commentIDs).Delete(&model.CommentLike{})
	return res.RowsAffected, res.Error
}
