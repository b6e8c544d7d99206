package repository

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/database"
	"context"
	"errors"

	"gorm.io/gorm"
)

type EntityRepo interface {
	// GetEntity 依次在 models、interiors 中查找，均不存在时返回 gorm.ErrRecordNotFound
	GetEntity(ctx context.Context, id uint64) (*model.Entity, error)
	GetEntityBySource(ctx context.Context, source model.EntitySource, id uint64) (*model.Entity, error)

	CreateModel(ctx context.Context, m *model.Model) error
	CreateInterior(ctx context.Context, i *model.Interior) error
	DeleteEntity(ctx context.Context, source model.EntitySource, id uint64) (int64, error)

	SimilarSlugs(ctx context.Context, source model.EntitySource, base string) ([]string, error)
}

type EntityRepoImpl struct {
	db *gorm.DB
}

func NewEntityRepo(db *gorm.DB) EntityRepo {
	return &EntityRepoImpl{db}
}

func (s *EntityRepoImpl) GetEntity(ctx context.Context, id uint64) (*model.Entity, error) {
	entity, err := s.GetEntityBySource(ctx, model.EntitySourceModel, id)
	if err == nil || !errors.Is(err, gorm.ErrRecordNotFound) {
		return entity, err
	}
	return s.GetEntityBySource(ctx, model.EntitySourceInterior, id)
}

func (s *EntityRepoImpl) GetEntityBySource(ctx context.Context, source model.EntitySource, id uint64) (*model.Entity, error) {
	conn := database.Conn(ctx, s.db)
	switch source {
	case model.EntitySourceModel:
		var m model.Model
		if err := conn.Where("id = ?", id).First(&m).Error; err != nil {
			return nil, err
		}
		return m.Entity(), nil
	case model.EntitySourceInterior:
		var i model.Interior
		if err := conn.Where("id = ?", id).First(&i).Error; err != nil {
			return nil, err
		}
		return i.Entity(), nil
	default:
		return nil, gorm.ErrRecordNotFound
	}
}

func (s *EntityRepoImpl) CreateModel(ctx context.Context, m *model.Model) error {
	return database.Conn(ctx, s.db).Create(m).Error
}

func (s *EntityRepoImpl) CreateInterior(ctx context.Context, i *model.Interior) error {
	return database.Conn(ctx, s.db).Create(i).Error
}

func (s *EntityRepoImpl) DeleteEntity(ctx context.Context, source model.EntitySource, id uint64) (int64, error) {
	conn := database.Conn(ctx, s.db).Where("id = ?", id)
	var res *gorm.DB
	switch source {
	case model.EntitySourceModel:
		res = conn.Delete(&model.Model{})
	case model.EntitySourceInterior:
		res = conn.Delete(&model.Interior{})
	default:
		return 0, nil
	}
	return res.RowsAffected, res.Error
}

// SimilarSlugs 一次查询取回 base 及 base-* 的全部 slug，后缀过滤交给调用方
func (s *EntityRepoImpl) SimilarSlugs(ctx context.Context, source model.EntitySource, base string) ([]string, error) {
	var table string
	switch source {
	case model.EntitySourceModel:
		table = model.Model{}.TableName()
	case model.EntitySourceInterior:
		table = model.Interior{}.TableName()
	default:
		return nil, nil
	}
	var slugs []string
	err := database.Conn(ctx, s.db).Table(table).
		Where("slug = ? OR slug LIKE ?", base, base+"-%").
		Pluck("slug", &slugs).Error
	return slugs, err
}

// SlugSource 把某一类实体的 slug 查询适配为分配器的数据源
type SlugSource struct {
	Repo   EntityRepo
	Source model.EntitySource
}

func (s SlugSource) SimilarSlugs(ctx context.Context, base string) ([]string, error) {
	return s.Repo.SimilarSlugs(ctx, s.Source, base)
}
