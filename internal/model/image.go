package model

import (
	"Atelier/internal/pkg/snowflake"

	"gorm.io/gorm"
)

type Image struct {
	ID  uint64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Src string `gorm:"type:varchar(512);not null" json:"src"`
}

func (Image) TableName() string {
	return "images"
}

func (s *Image) BeforeCreate(*gorm.DB) error {
	if s.ID == 0 {
		s.ID = snowflake.GenID()
	}
	return nil
}

// ModelImage IsMain 标记封面，Index 为展示顺序
type ModelImage struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ModelID uint64 `gorm:"not null;index:idx_model_images_model_id" json:"modelId"`
	ImageID uint64 `gorm:"not null" json:"imageId"`
	IsMain  bool   `gorm:"not null;default:false" json:"isMain"`
	Index   int    `gorm:"not null;default:0" json:"index"`
}

func (ModelImage) TableName() string {
	return "model_images"
}

func (s *ModelImage) BeforeCreate(*gorm.DB) error {
	if s.ID == 0 {
		s.ID = snowflake.GenID()
	}
	return nil
}

type InteriorImage struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	InteriorID uint64 `gorm:"not null;index:idx_interior_images_interior_id" json:"interiorId"`
	ImageID    uint64 `gorm:"not null" json:"imageId"`
	IsMain     bool   `gorm:"not null;default:false" json:"isMain"`
	Index      int    `gorm:"not null;default:0" json:"index"`
}

func (InteriorImage) TableName() string {
	return "interior_images"
}

func (s *InteriorImage) BeforeCreate(*gorm.DB) error {
	if s.ID == 0 {
		s.ID = snowflake.GenID()
	}
	return nil
}
