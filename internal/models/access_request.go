package models

import "time"

// Access request types.
const (
	RequestTypeCreateProject = "create_project"
	RequestTypeJoinProject   = "join_project"
)

// Access request lifecycle states. A request leaves pending exactly
// once and never transitions out of a terminal state.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// AccessRequest is a user's petition for elevated permissions: either
// the right to create projects or membership in a specific project.
// ProjectID is set only for join_project requests.
type AccessRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RequesterID uint      `gorm:"index:idx_requester_pending;not null" json:"requester_id"`
	Requester   *User     `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	ApproverID  *uint     `json:"approver_id"`
	Approver    *User     `gorm:"foreignKey:ApproverID" json:"approver,omitempty"`
	ProjectID   *uint     `gorm:"index" json:"project_id"`
	Project     *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	RequestType string    `gorm:"size:50;default:create_project" json:"request_type"`
	Reason      string    `gorm:"type:text" json:"reason"`
	Status      string    `gorm:"size:20;default:pending;index:idx_requester_pending" json:"status"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (AccessRequest) TableName() string { return "access_requests" }

// Pending reports whether the request still awaits a decision.
func (r *AccessRequest) Pending() bool { return r.Status == RequestStatusPending }
