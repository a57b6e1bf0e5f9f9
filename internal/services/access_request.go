package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/aadilm/taskboard/backend/internal/models"
	"github.com/aadilm/taskboard/backend/pkg/response"
	"gorm.io/gorm"
)

// AccessRequestService manages the permission-request workflow: a user
// petitions either for the right to create projects or for membership
// in a specific project, and an authorized approver resolves the
// request. A request is pending until resolved and terminal afterwards.
type AccessRequestService struct {
	db *gorm.DB
}

func NewAccessRequestService(db *gorm.DB) *AccessRequestService {
	return &AccessRequestService{db: db}
}

type SubmitAccessRequestRequest struct {
	ProjectID *uint  `json:"project_id"`
	Reason    string `json:"reason"`
}

type ResolveAccessRequestRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// AccessRequestView is the denormalized projection returned to
// clients: the request plus requester name/email and, for join
// requests, the project title.
type AccessRequestView struct {
	ID             uint      `json:"id"`
	RequesterID    uint      `json:"requester_id"`
	RequesterName  string    `json:"requester_name"`
	RequesterEmail string    `json:"requester_email"`
	ApproverID     *uint     `json:"approver_id"`
	ProjectID      *uint     `json:"project_id"`
	ProjectTitle   *string   `json:"project_title"`
	RequestType    string    `json:"request_type"`
	Reason         string    `json:"reason"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// Submit routes to the create-project or join-project flow depending
// on whether a project is named in the request.
func (s *AccessRequestService) Submit(requesterID uint, req *SubmitAccessRequestRequest) (*AccessRequestView, error) {
	if req.ProjectID != nil {
		return s.SubmitJoinProjectRequest(requesterID, *req.ProjectID, req.Reason)
	}
	return s.SubmitCreateProjectRequest(requesterID, req.Reason)
}

// SubmitCreateProjectRequest files a pending petition for the right to
// create projects.
func (s *AccessRequestService) SubmitCreateProjectRequest(requesterID uint, reason string) (*AccessRequestView, error) {
	var requester models.User
	if err := s.db.First(&requester, requesterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	if requester.CanCreateProjects {
		return nil, response.NewConflict("you already have permission to create projects")
	}

	var pending int64
	if err := s.db.Model(&models.AccessRequest{}).
		Where("requester_id = ? AND request_type = ? AND status = ?",
			requesterID, models.RequestTypeCreateProject, models.RequestStatusPending).
		Count(&pending).Error; err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, response.NewConflict("you already have a pending request")
	}

	request := models.AccessRequest{
		RequesterID: requesterID,
		RequestType: models.RequestTypeCreateProject,
		Reason:      reason,
		Status:      models.RequestStatusPending,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, err
	}

	return &AccessRequestView{
		ID:             request.ID,
		RequesterID:    request.RequesterID,
		RequesterName:  requester.Name,
		RequesterEmail: requester.Email,
		RequestType:    request.RequestType,
		Reason:         request.Reason,
		Status:         request.Status,
		CreatedAt:      request.CreatedAt,
	}, nil
}

// SubmitJoinProjectRequest files a pending petition for membership in
// the given project.
func (s *AccessRequestService) SubmitJoinProjectRequest(requesterID, projectID uint, reason string) (*AccessRequestView, error) {
	var requester models.User
	if err := s.db.First(&requester, requesterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}

	var membership int64
	if err := s.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, requesterID).
		Count(&membership).Error; err != nil {
		return nil, err
	}
	if membership > 0 {
		return nil, response.NewConflict("you are already a member of this project")
	}

	var pending int64
	if err := s.db.Model(&models.AccessRequest{}).
		Where("requester_id = ? AND project_id = ? AND status = ?",
			requesterID, projectID, models.RequestStatusPending).
		Count(&pending).Error; err != nil {
		return nil, err
	}
	if pending > 0 {
		return nil, response.NewConflict("you already have a pending request for this project")
	}

	request := models.AccessRequest{
		RequesterID: requesterID,
		ProjectID:   &projectID,
		RequestType: models.RequestTypeJoinProject,
		Reason:      reason,
		Status:      models.RequestStatusPending,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, err
	}

	return &AccessRequestView{
		ID:             request.ID,
		RequesterID:    request.RequesterID,
		RequesterName:  requester.Name,
		RequesterEmail: requester.Email,
		ProjectID:      request.ProjectID,
		ProjectTitle:   &project.Title,
		RequestType:    request.RequestType,
		Reason:         request.Reason,
		Status:         request.Status,
		CreatedAt:      request.CreatedAt,
	}, nil
}

// ListPending returns the pending requests the approver may act on,
// newest first: create_project requests when the approver holds the
// approval capability, join_project requests only for projects the
// approver owns.
func (s *AccessRequestService) ListPending(approverID uint) ([]AccessRequestView, error) {
	var approver models.User
	if err := s.db.First(&approver, approverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	var ownedProjects int64
	if err := s.db.Model(&models.Project{}).
		Where("owner_id = ?", approverID).
		Count(&ownedProjects).Error; err != nil {
		return nil, err
	}

	if !approver.CanApproveRequests && ownedProjects == 0 {
		return nil, response.NewForbidden("you don't have permission to view access requests")
	}

	var requests []models.AccessRequest
	if err := s.db.Preload("Requester").Preload("Project").
		Where("status = ?", models.RequestStatusPending).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}

	views := make([]AccessRequestView, 0, len(requests))
	for i := range requests {
		r := &requests[i]

		switch r.RequestType {
		case models.RequestTypeCreateProject:
			if !approver.CanApproveRequests {
				continue
			}
		case models.RequestTypeJoinProject:
			if r.Project == nil || r.Project.OwnerID != approverID {
				continue
			}
		default:
			continue
		}

		view := AccessRequestView{
			ID:          r.ID,
			RequesterID: r.RequesterID,
			ApproverID:  r.ApproverID,
			ProjectID:   r.ProjectID,
			RequestType: r.RequestType,
			Reason:      r.Reason,
			Status:      r.Status,
			CreatedAt:   r.CreatedAt,
		}
		if r.Requester != nil {
			view.RequesterName = r.Requester.Name
			view.RequesterEmail = r.Requester.Email
		}
		if r.Project != nil {
			view.ProjectTitle = &r.Project.Title
		}
		views = append(views, view)
	}
	return views, nil
}

// Resolve approves or rejects a pending request. The status change,
// its side effect (membership row or permission grant) and the
// notification to the requester commit in a single transaction; a
// request that already left pending resolves to a conflict. Email
// delivery of the notification happens after commit and never affects
// the stored outcome.
func (s *AccessRequestService) Resolve(requestID uint, approved bool, approverID uint) (string, error) {
	var approver models.User
	if err := s.db.First(&approver, approverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", response.NewNotFound("user not found")
		}
		return "", err
	}

	var request models.AccessRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", response.NewNotFound("request not found")
		}
		return "", err
	}

	var project models.Project
	if request.RequestType == models.RequestTypeJoinProject {
		if request.ProjectID == nil {
			return "", response.NewServerError("join request has no project")
		}
		if err := s.db.First(&project, *request.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return "", response.NewNotFound("project not found")
			}
			return "", err
		}
		if project.OwnerID != approverID {
			return "", response.NewForbidden("only the project owner can approve this request")
		}
	} else {
		if !approver.CanApproveRequests {
			return "", response.NewForbidden("you don't have permission to approve requests")
		}
	}

	if !request.Pending() {
		return "", response.NewConflict("request has already been resolved")
	}

	var delivered *models.Notification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Claim the pending request first; the status predicate keeps
		// a racing second resolution from applying effects twice.
		res := tx.Model(&models.AccessRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
			Updates(map[string]interface{}{
				"status":      resolvedStatus(approved),
				"approver_id": approverID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return response.NewConflict("request has already been resolved")
		}

		if approved {
			if request.RequestType == models.RequestTypeJoinProject {
				member := models.ProjectMember{
					ProjectID: *request.ProjectID,
					UserID:    request.RequesterID,
					Role:      models.MemberRoleMember,
				}
				if err := tx.Create(&member).Error; err != nil {
					return err
				}

				n, err := createNotification(tx, request.RequesterID,
					fmt.Sprintf("Your request to join project '%s' has been approved!", project.Title),
					models.NotifyProjectAssigned, request.ProjectID)
				if err != nil {
					return err
				}
				delivered = n
				return nil
			}

			if err := tx.Model(&models.User{}).
				Where("id = ?", request.RequesterID).
				Update("can_create_projects", true).Error; err != nil {
				return err
			}

			n, err := createNotification(tx, request.RequesterID,
				"Your request to create projects has been approved!",
				models.NotifyAccessApproved, &request.ID)
			if err != nil {
				return err
			}
			delivered = n
			return nil
		}

		message := "Your request to create projects has been rejected."
		if request.RequestType == models.RequestTypeJoinProject {
			message = fmt.Sprintf("Your request to join project '%s' has been rejected.", project.Title)
		}
		n, err := createNotification(tx, request.RequesterID, message,
			models.NotifyAccessRejected, &request.ID)
		if err != nil {
			return err
		}
		delivered = n
		return nil
	})
	if err != nil {
		return "", err
	}

	if delivered != nil {
		enqueueNotificationDelivery(delivered)
	}

	if approved {
		return "Request approved", nil
	}
	return "Request rejected", nil
}

// ListMine returns the requester's own requests, newest first.
func (s *AccessRequestService) ListMine(requesterID uint) ([]models.AccessRequest, error) {
	var requests []models.AccessRequest
	if err := s.db.Preload("Project").
		Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func resolvedStatus(approved bool) string {
	if approved {
		return models.RequestStatusApproved
	}
	return models.RequestStatusRejected
}
