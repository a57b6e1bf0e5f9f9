package models

import "time"

// Status is a kanban column belonging to exactly one project.
// Position is an opaque sort key; columns are ordered by it.
type Status struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Position  string    `gorm:"size:36;not null" json:"position"`
	ProjectID uint      `gorm:"index;not null" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Status) TableName() string { return "statuses" }
