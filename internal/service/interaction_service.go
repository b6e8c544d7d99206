package service

import (
	"Atelier/internal/repository"
	"context"

	"github.com/pkg/errors"
)

// InteractionService 每个可互动内容持有一条 interaction 记录
type InteractionService interface {
	Create(ctx context.Context) (uint64, error)
	// Delete 记录不存在时不报错
	Delete(ctx context.Context, id uint64) error
}

type interactionServiceImpl struct {
	interactionRepo repository.InteractionRepo
}

func NewInteractionService(interactionRepo repository.InteractionRepo) InteractionService {
	return &interactionServiceImpl{interactionRepo: interactionRepo}
}

func (s *interactionServiceImpl) Create(ctx context.Context) (uint64, error) {
	interaction, err := s.interactionRepo.CreateInteraction(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "create interaction")
	}
	return interaction.ID, nil
}

func (s *interactionServiceImpl) Delete(ctx context.Context, id uint64) error {
	_, err := s.interactionRepo.DeleteInteraction(ctx, id)
	return errors.Wrap(err, "delete interaction")
}
