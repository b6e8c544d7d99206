package model

import (
	"Atelier/internal/pkg/snowflake"
	"time"

	"gorm.io/gorm"
)

// Interaction 内容实体的计数锚点，与 Model/Interior 一一对应
type Interaction struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Interaction) TableName() string {
	return "interactions"
}

func (s *Interaction) BeforeCreate(*gorm.DB) error {
	if s.ID == 0 {
		s.ID = snowflake.GenID()
	}
	return nil
}
