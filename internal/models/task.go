package models

import (
	"time"

	"gorm.io/gorm"
)

// Task belongs to exactly one project and one status column, and is
// optionally assigned to a single user.
type Task struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"size:2000" json:"description"`
	Priority    string         `gorm:"size:20" json:"priority"` // low, medium, high
	DueDate     *time.Time     `json:"due_date"`
	StatusID    uint           `gorm:"index;not null" json:"status_id"`
	Status      *Status        `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	ProjectID   uint           `gorm:"index;not null" json:"project_id"`
	Project     *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	AssignedTo  *uint          `gorm:"index" json:"assigned_to"`
	Assignee    *User          `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Task) TableName() string { return "tasks" }
