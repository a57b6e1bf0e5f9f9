package models

import (
	"time"

	"gorm.io/gorm"
)

// Project represents a kanban project board
type Project struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"size:200;not null" json:"title"`
	Description     string         `gorm:"size:2000" json:"description"`
	StartDate       *time.Time     `json:"start_date"`
	EndDate         *time.Time     `json:"end_date"`
	TechnologyStack string         `gorm:"type:text" json:"technology_stack"` // JSON array of technologies
	TeamSize        *int           `json:"team_size"`
	OwnerID         uint           `gorm:"index;not null" json:"owner_id"`
	Owner           *User          `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Project) TableName() string { return "projects" }
