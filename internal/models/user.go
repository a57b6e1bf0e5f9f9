package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a system user
type User struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Name               string         `gorm:"size:100;not null" json:"name"`
	Email              string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password           string         `gorm:"size:255;not null" json:"-"` // bcrypt hash
	Role               string         `gorm:"size:50;default:user" json:"role"` // admin, user
	CanCreateProjects  bool           `gorm:"default:false" json:"can_create_projects"`
	CanApproveRequests bool           `gorm:"default:false" json:"can_approve_requests"`
	LastLogin          *time.Time     `json:"last_login"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
