package repository

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/database"
	"context"

	"gorm.io/gorm"
)

type InteractionRepo interface {
	CreateInteraction(ctx context.Context) (*model.Interaction, error)
	DeleteInteraction(ctx context.Context, id uint64) (int64, error)
	InteractionExists(ctx context.Context, id uint64) (bool, error)
}

type InteractionRepoImpl struct {
	db *gorm.DB
}

func NewInteractionRepo(db *gorm.DB) InteractionRepo {
	return &InteractionRepoImpl{db}
}

func (s *InteractionRepoImpl) CreateInteraction(ctx context.Context) (*model.Interaction, error) {
	interaction := &model.Interaction{}
	if err := database.Conn(ctx, s.db).Create(interaction).Error; err != nil {
		return nil, err
	}
	return interaction, nil
}

func (s *InteractionRepoImpl) DeleteInteraction(ctx context.Context, id uint64) (int64, error) {
	res := database.Conn(ctx, s.db).Where("id = ?", id).Delete(&model.Interaction{})
	return res.RowsAffected, res.Error
}

func (s *InteractionRepoImpl) InteractionExists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := database.Conn(ctx, s.db).Model(&model.Interaction{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
