package model

import (
	"Atelier/internal/pkg/snowflake"
	"time"

	"gorm.io/gorm"
)

type EntitySource string

const (
	EntitySourceModel    EntitySource = "model"
	EntitySourceInterior EntitySource = "interior"
)

func (s EntitySource) Valid() bool {
	return s == EntitySourceModel || s == EntitySourceInterior
}

// Entity 可被点赞、评论的内容（Model 或 Interior）
type Entity struct {
	ID            uint64
	Source        EntitySource
	Name          string
	Slug          string
	OwnerID       uint64
	InteractionID uint64
}

type Model struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug          string    `gorm:"type:varchar(255);not null;uniqueIndex:uk_models_slug" json:"slug"`
	UserID        uint64    `gorm:"not null;index:idx_models_user_id" json:"userId"`
	InteractionID uint64    `gorm:"not null;uniqueIndex:uk_models_interaction_id" json:"interactionId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Model) TableName() string {
	return "models"
}

func (s *Model) BeforeCreate(*gorm.DB) error {
	if s.ID == 0 {
		s.ID = snowflake.GenID()
	}
	return nil
}

func (s *Model) Entity() *Entity {
	return &Entity{ID: s.ID, Source: EntitySourceModel, Name: s.Name, Slug: s.Slug, OwnerID: s.UserID, InteractionID: s.InteractionID}
}

type Interior struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug          string    `gorm:"type:varchar(255);not null;uniqueIndex:uk_interiors_slug" json:"slug"`
	UserID        uint64    `gorm:"not null;index:idx_interiors_user_id" json:"userId"`
	InteractionID uint64    `gorm:"not null;uniqueIndex:uk_interiors_interaction_id" json:"interactionId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Interior) TableName() string {
	return "interiors"
}

func (s *Interior) BeforeCreate(*gorm.DB) error {
	if s.ID == 0 {
		s.ID = snowflake.GenID()
	}
	return nil
}

func (s *Interior) Entity() *Entity {
	return &Entity{ID: s.ID, Source: EntitySourceInterior, Name: s.Name, Slug: s.Slug, OwnerID: s.UserID, InteractionID: s.InteractionID}
}
