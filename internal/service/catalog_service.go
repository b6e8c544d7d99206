package service

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/database"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/pkg/slug"
	"Atelier/internal/repository"
	"context"
	log "log/slog"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

// CatalogService 模型与室内设计的创建、删除；删除时一并清理其互动数据
type CatalogService interface {
	CreateEntity(ctx context.Context, source model.EntitySource, userID uint64, name string) (*dto.EntityDTO, error)
	DeleteEntity(ctx context.Context, source model.EntitySource, id, userID uint64) error
}

type catalogServiceImpl struct {
	tx           database.Transactor
	entityRepo   repository.EntityRepo
	likeRepo     repository.LikeRepo
	interactions InteractionService
	comments     CommentService
	notification NotificationService
	counter      redis.Counter
	allocators   map[model.EntitySource]*slug.Allocator
}

func NewCatalogService(
	tx database.Transactor,
	entityRepo repository.EntityRepo,
	likeRepo repository.LikeRepo,
	interactions InteractionService,
	comments CommentService,
	notification NotificationService,
	counter redis.Counter,
	opts Options,
) CatalogService {
	allocators := make(map[model.EntitySource]*slug.Allocator, 2)
	for _, source := range []model.EntitySource{model.EntitySourceModel, model.EntitySourceInterior} {
		allocators[source] = slug.NewAllocator(
			repository.SlugSource{Repo: entityRepo, Source: source},
			database.IsDuplicate,
			opts.SlugMaxAttempts,
		)
	}
	return &catalogServiceImpl{
		tx:           tx,
		entityRepo:   entityRepo,
		likeRepo:     likeRepo,
		interactions: interactions,
		comments:     comments,
		notification: notification,
		counter:      counter,
		allocators:   allocators,
	}
}

func (s *catalogServiceImpl) CreateEntity(ctx context.Context, source model.EntitySource, userID uint64, name string) (*dto.EntityDTO, error) {
	allocator, ok := s.allocators[source]
	if !ok {
		return nil, ErrParamInvalid
	}

	var entity *model.Entity
	// 每次尝试独立事务，slug 冲突回滚时连同 interaction 一起撤销
	_, err := allocator.Claim(ctx, name, func(ctx context.Context, candidate string) error {
		return s.tx.Transaction(ctx, func(ctx context.Context) error {
			interactionID, err := s.interactions.Create(ctx)
			if err != nil {
				return err
			}
			switch source {
			case model.EntitySourceModel:
				m := &model.Model{Name: name, Slug: candidate, UserID: userID, InteractionID: interactionID}
				if err = s.entityRepo.CreateModel(ctx, m); err != nil {
					return err
				}
				entity = m.Entity()
			case model.EntitySourceInterior:
				i := &model.Interior{Name: name, Slug: candidate, UserID: userID, InteractionID: interactionID}
				if err = s.entityRepo.CreateInterior(ctx, i); err != nil {
					return err
				}
				entity = i.Entity()
			}
			return nil
		})
	})
	switch {
	case errors.Is(err, slug.ErrEmpty):
		return nil, ErrSlugEmpty
	case errors.Is(err, slug.ErrExhausted):
		return nil, ErrSlugExhausted
	case err != nil:
		return nil, errors.Wrap(err, "create entity")
	}

	out := &dto.EntityDTO{}
	if err = copier.Copy(out, entity); err != nil {
		return nil, errors.Wrap(err, "copy entity")
	}
	out.UserID = entity.OwnerID
	log.InfoContext(ctx, "entity created", "source", source, "id", entity.ID, "slug", entity.Slug)
	return out, nil
}

func (s *catalogServiceImpl) DeleteEntity(ctx context.Context, source model.EntitySource, id, userID uint64) error {
	entity, err := s.entityRepo.GetEntityBySource(ctx, source, id)
	if err != nil {
		if database.IsNotFound(err) {
			return ErrEntityNotFound
		}
		return errors.Wrap(err, "get entity")
	}
	if entity.OwnerID != userID {
		return UnauthorizedError
	}

	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.comments.Delete(ctx, model.CommentFilter{EntityID: &entity.ID, EntitySource: &entity.Source}); err != nil {
			return err
		}
		if _, err := s.likeRepo.DeleteLikesByEntity(ctx, entity.ID); err != nil {
			return errors.Wrap(err, "delete likes")
		}

		filter := model.NotificationFilter{}
		if entity.Source == model.EntitySourceModel {
			filter.ModelID = &entity.ID
		} else {
			filter.InteriorID = &entity.ID
		}
		if _, err := s.notification.DeleteBy(ctx, filter); err != nil {
			return err
		}

		if _, err := s.entityRepo.DeleteEntity(ctx, entity.Source, entity.ID); err != nil {
			return errors.Wrap(err, "delete entity")
		}
		return s.interactions.Delete(ctx, entity.InteractionID)
	})
	if err != nil {
		return err
	}
	dropCounts(ctx, s.counter,
		countKey(consts.EntityLikeCountKey, entity.ID),
		countKey(consts.EntityCommentCountKey, entity.ID),
	)
	return nil
}
