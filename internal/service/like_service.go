package service

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/database"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/repository"
	"context"
	log "log/slog"

	"github.com/pkg/errors"
)

// errLostRace 并发插入被唯一键挡下，用于回滚已写入的通知
var errLostRace = errors.New("like already exists")

type LikeService interface {
	// AddLike 已点赞返回 false，不产生任何写入
	AddLike(ctx context.Context, entityID, userID uint64) (bool, error)
	// RemoveLike 未点赞时什么也不做
	RemoveLike(ctx context.Context, entityID, userID uint64) error
	IsLiked(ctx context.Context, entityID, userID uint64) (bool, error)
	LikeCount(ctx context.Context, entityID uint64) (int64, error)

	LikeComment(ctx context.Context, commentID, userID uint64) (bool, error)
	UnlikeComment(ctx context.Context, commentID, userID uint64) error
	CommentLikeCount(ctx context.Context, commentID uint64) (int64, error)
}

type likeServiceImpl struct {
	tx            database.Transactor
	likeRepo      repository.LikeRepo
	entityRepo    repository.EntityRepo
	commentRepo   repository.CommentRepo
	notifications NotificationService
	counter       redis.Counter
	opts          Options
}

func NewLikeService(
	tx database.Transactor,
	likeRepo repository.LikeRepo,
	entityRepo repository.EntityRepo,
	commentRepo repository.CommentRepo,
	notifications NotificationService,
	counter redis.Counter,
	opts Options,
) LikeService {
	return &likeServiceImpl{
		tx:            tx,
		likeRepo:      likeRepo,
		entityRepo:    entityRepo,
		commentRepo:   commentRepo,
		notifications: notifications,
		counter:       counter,
		opts:          opts,
	}
}

func (s *likeServiceImpl) AddLike(ctx context.Context, entityID, userID uint64) (bool, error) {
	entity, err := s.getEntity(ctx, entityID)
	if err != nil {
		return false, err
	}

	added := false
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		existing, err := s.likeRepo.GetLike(ctx, entityID, userID)
		if err != nil {
			return errors.Wrap(err, "get like")
		}
		if existing != nil {
			return nil
		}

		like := &model.Like{EntityID: entityID, UserID: userID}
		n, err := s.notifications.Notify(ctx, CreateNotificationParams{
			ActionID:    model.LikeActionFor(entity.Source),
			NotifierID:  userID,
			RecipientID: entity.OwnerID,
			Subject:     entity,
		})
		if err != nil {
			return err
		}
		if n != nil {
			like.NotificationID = &n.ID
		}

		ok, err := s.likeRepo.CreateLikeIfAbsent(ctx, like)
		if err != nil {
			return errors.Wrap(err, "create like")
		}
		if !ok {
			return errLostRace
		}
		added = true
		return nil
	})
	if errors.Is(err, errLostRace) {
		log.InfoContext(ctx, "concurrent like detected", "entity_id", entityID, "user_id", userID)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if added {
		bumpCount(ctx, s.counter, countKey(consts.EntityLikeCountKey, entityID), 1)
	}
	return added, nil
}

func (s *likeServiceImpl) RemoveLike(ctx context.Context, entityID, userID uint64) error {
	removed := false
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		like, err := s.likeRepo.GetLike(ctx, entityID, userID)
		if err != nil {
			return errors.Wrap(err, "get like")
		}
		if like == nil {
			return nil
		}
		if like.NotificationID != nil {
			if _, err = s.notifications.DeleteByID(ctx, *like.NotificationID); err != nil {
				return err
			}
		}
		affected, err := s.likeRepo.DeleteLike(ctx, like.ID)
		if err != nil {
			return errors.Wrap(err, "delete like")
		}
		removed = affected > 0
		return nil
	})
	if err != nil {
		return err
	}
	if removed {
		bumpCount(ctx, s.counter, countKey(consts.EntityLikeCountKey, entityID), -1)
	}
	return nil
}

func (s *likeServiceImpl) IsLiked(ctx context.Context, entityID, userID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	like, err := s.likeRepo.GetLike(ctx, entityID, userID)
	if err != nil {
		return false, errors.Wrap(err, "get like")
	}
	return like != nil, nil
}

func (s *likeServiceImpl) LikeCount(ctx context.Context, entityID uint64) (int64, error) {
	return cachedCount(ctx, s.counter, countKey(consts.EntityLikeCountKey, entityID), s.opts.CounterTTL,
		func(ctx context.Context) (int64, error) {
			count, err := s.likeRepo.GetLikeCount(ctx, entityID)
			return count, errors.Wrap(err, "count likes")
		})
}

func (s *likeServiceImpl) LikeComment(ctx context.Context, commentID, userID uint64) (bool, error) {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return false, err
	}
	// 评论所属内容已被删除时仍允许点赞，通知不关联内容
	entity, err := s.entityRepo.GetEntityBySource(ctx, comment.EntitySource, comment.EntityID)
	if err != nil && !database.IsNotFound(err) {
		return false, errors.Wrap(err, "get entity")
	}

	added := false
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		existing, err := s.likeRepo.GetCommentLike(ctx, commentID, userID)
		if err != nil {
			return errors.Wrap(err, "get comment like")
		}
		if existing != nil {
			return nil
		}

		cl := &model.CommentLike{CommentID: commentID, UserID: userID}
		n, err := s.notifications.Notify(ctx, CreateNotificationParams{
			ActionID:    model.ActionNewCommentLike,
			NotifierID:  userID,
			RecipientID: comment.UserID,
			Subject:     entity,
		})
		if err != nil {
			return err
		}
		if n != nil {
			cl.NotificationID = &n.ID
		}

		ok, err := s.likeRepo.CreateCommentLikeIfAbsent(ctx, cl)
		if err != nil {
			return errors.Wrap(err, "create comment like")
		}
		if !ok {
			return errLostRace
		}
		added = true
		return nil
	})
	if errors.Is(err, errLostRace) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if added {
		bumpCount(ctx, s.counter, countKey(consts.CommentLikeCountKey, commentID), 1)
	}
	return added, nil
}

func (s *likeServiceImpl) UnlikeComment(ctx context.Context, commentID, userID uint64) error {
	removed := false
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		cl, err := s.likeRepo.GetCommentLike(ctx, commentID, userID)
		if err != nil {
			return errors.Wrap(err, "get comment like")
		}
		if cl == nil {
			return nil
		}
		if cl.NotificationID != nil {
			if _, err = s.notifications.DeleteByID(ctx, *cl.NotificationID); err != nil {
				return err
			}
		}
		affected, err := s.likeRepo.DeleteCommentLike(ctx, cl.ID)
		if err != nil {
			return errors.Wrap(err, "delete comment like")
		}
		removed = affected > 0
		return nil
	})
	if err != nil {
		return err
	}
	if removed {
		bumpCount(ctx, s.counter, countKey(consts.CommentLikeCountKey, commentID), -1)
	}
	return nil
}

func (s *likeServiceImpl) CommentLikeCount(ctx context.Context, commentID uint64) (int64, error) {
	return cachedCount(ctx, s.counter, countKey(consts.CommentLikeCountKey, commentID), s.opts.CounterTTL,
		func(ctx context.Context) (int64, error) {
			count, err := s.likeRepo.GetCommentLikeCount(ctx, commentID)
			return count, errors.Wrap(err, "count comment likes")
		})
}

func (s *likeServiceImpl) getEntity(ctx context.Context, entityID uint64) (*model.Entity, error) {
	entity, err := s.entityRepo.GetEntity(ctx, entityID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrEntityNotFound
		}
		return nil, errors.Wrap(err, "get entity")
	}
	return entity, nil
}

func (s *likeServiceImpl) getComment(ctx context.Context, commentID uint64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, commentID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrCommentNotFound
		}
		return nil, errors.Wrap(err, "get comment")
	}
	return comment, nil
}
