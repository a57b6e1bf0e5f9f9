package models

import "time"

// Notification types.
const (
	NotifyProjectAssigned = "project_assigned"
	NotifyTaskAssigned    = "task_assigned"
	NotifyCommentAdded    = "comment_added"
	NotifyAccessApproved  = "access_approved"
	NotifyAccessRejected  = "access_rejected"
)

// Notification is an append-only message addressed to a user. Only the
// IsRead flag is mutable after creation. RelatedID points back at the
// project, task or request that produced the message.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	RelatedID *uint     `json:"related_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Notification) TableName() string { return "notifications" }
