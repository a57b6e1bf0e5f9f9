package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aadilm/taskboard/backend/internal/models"
	"github.com/aadilm/taskboard/backend/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status columns created for every new project.
var defaultStatusNames = []string{"Todo", "In Progress", "Done"}

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type CreateProjectRequest struct {
	Title           string     `json:"title" binding:"required"`
	Description     string     `json:"description"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	TechnologyStack string     `json:"technology_stack"`
	TeamSize        *int       `json:"team_size"`
}

type AddMembersRequest struct {
	Emails []string `json:"emails" binding:"required"`
}

// ProjectView is a project enriched with completion progress and the
// caller's role on the board.
type ProjectView struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	TechnologyStack string     `json:"technology_stack"`
	TeamSize        *int       `json:"team_size"`
	OwnerID         uint       `json:"owner_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Progress        float64    `json:"progress"`
	UserRole        string     `json:"user_role"`
}

// AvailableProjectView describes a project the caller could request to
// join.
type AvailableProjectView struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	TechnologyStack string    `json:"technology_stack"`
	TeamSize        *int      `json:"team_size"`
	OwnerName       string    `json:"owner_name"`
	CreatedAt       time.Time `json:"created_at"`
}

type ProjectMemberView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type AddMembersResult struct {
	Message  string   `json:"message"`
	Added    []string `json:"added"`
	NotFound []string `json:"not_found"`
}

// Create inserts the project, its creator's leader membership row and
// the default status columns in one transaction.
func (s *ProjectService) Create(req *CreateProjectRequest, ownerID uint) (*models.Project, error) {
	var owner models.User
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	if !owner.CanCreateProjects {
		return nil, response.NewForbidden("you don't have permission to create projects")
	}

	project := models.Project{
		Title:           req.Title,
		Description:     req.Description,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TechnologyStack: req.TechnologyStack,
		TeamSize:        req.TeamSize,
		OwnerID:         ownerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		leader := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    ownerID,
			Role:      models.MemberRoleLeader,
		}
		if err := tx.Create(&leader).Error; err != nil {
			return err
		}

		for _, name := range defaultStatusNames {
			status := models.Status{
				Name:      name,
				Position:  uuid.NewString(),
				ProjectID: project.ID,
			}
			if err := tx.Create(&status).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListMine returns the projects the user participates in, each with
// progress and the user's role.
func (s *ProjectService) ListMine(userID uint) ([]ProjectView, error) {
	var memberships []models.ProjectMember
	if err := s.db.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, err
	}

	roleByProject := make(map[uint]string, len(memberships))
	projectIDs := make([]uint, 0, len(memberships))
	for _, m := range memberships {
		roleByProject[m.ProjectID] = m.Role
		projectIDs = append(projectIDs, m.ProjectID)
	}
	if len(projectIDs) == 0 {
		return []ProjectView{}, nil
	}

	var projects []models.Project
	if err := s.db.Where("id IN ?", projectIDs).Find(&projects).Error; err != nil {
		return nil, err
	}

	views := make([]ProjectView, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		progress, err := s.Progress(p.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, ProjectView{
			ID:              p.ID,
			Title:           p.Title,
			Description:     p.Description,
			StartDate:       p.StartDate,
			EndDate:         p.EndDate,
			TechnologyStack: p.TechnologyStack,
			TeamSize:        p.TeamSize,
			OwnerID:         p.OwnerID,
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.UpdatedAt,
			Progress:        progress,
			UserRole:        roleByProject[p.ID],
		})
	}
	return views, nil
}

// Progress returns the completion percentage of a project: the share
// of its live tasks sitting in the "Done" column, rounded to one
// decimal place. A project without tasks reads as zero.
func (s *ProjectService) Progress(projectID uint) (float64, error) {
	var total int64
	if err := s.db.Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	var done int64
	if err := s.db.Model(&models.Task{}).
		Where("project_id = ? AND status_id IN (?)", projectID,
			s.db.Model(&models.Status{}).Select("id").
				Where("project_id = ? AND name = ?", projectID, "Done")).
		Count(&done).Error; err != nil {
		return 0, err
	}

	return math.Round(float64(done)/float64(total)*1000) / 10, nil
}

// ListAvailable returns live projects the user is not yet a member of.
func (s *ProjectService) ListAvailable(userID uint) ([]AvailableProjectView, error) {
	var joinedIDs []uint
	if err := s.db.Model(&models.ProjectMember{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &joinedIDs).Error; err != nil {
		return nil, err
	}

	query := s.db.Preload("Owner")
	if len(joinedIDs) > 0 {
		query = query.Where("id NOT IN ?", joinedIDs)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}

	views := make([]AvailableProjectView, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		ownerName := "Unknown"
		if p.Owner != nil {
			ownerName = p.Owner.Name
		}
		views = append(views, AvailableProjectView{
			ID:              p.ID,
			Title:           p.Title,
			Description:     p.Description,
			TechnologyStack: p.TechnologyStack,
			TeamSize:        p.TeamSize,
			OwnerName:       ownerName,
			CreatedAt:       p.CreatedAt,
		})
	}
	return views, nil
}

// Delete soft-deletes a project and its tasks in one transaction.
// Owner only.
func (s *ProjectService) Delete(projectID, userID uint) error {
	project, err := loadProject(s.db, projectID)
	if err != nil {
		return err
	}
	if err := requireProjectOwner(project, userID, "delete this project"); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(project).Error
	})
}

// AddMembers adds users to the project by email. Unknown addresses are
// reported back, existing members are skipped silently, and each added
// member gets a notification. Owner only.
func (s *ProjectService) AddMembers(projectID uint, emails []string, userID uint) (*AddMembersResult, error) {
	project, err := loadProject(s.db, projectID)
	if err != nil {
		return nil, err
	}
	if err := requireProjectOwner(project, userID, "add team members"); err != nil {
		return nil, err
	}

	var added []string
	var notFound []string
	var notifications []*models.Notification

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, email := range emails {
			email = strings.TrimSpace(email)
			if email == "" {
				continue
			}

			var user models.User
			if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					notFound = append(notFound, email)
					continue
				}
				return err
			}

			var existing int64
			if err := tx.Model(&models.ProjectMember{}).
				Where("project_id = ? AND user_id = ?", projectID, user.ID).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}

			member := models.ProjectMember{
				ProjectID: projectID,
				UserID:    user.ID,
				Role:      models.MemberRoleMember,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
			added = append(added, email)

			n, err := createNotification(tx, user.ID,
				fmt.Sprintf("You have been added to project '%s'", project.Title),
				models.NotifyProjectAssigned, &projectID)
			if err != nil {
				return err
			}
			notifications = append(notifications, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, n := range notifications {
		enqueueNotificationDelivery(n)
	}

	return &AddMembersResult{
		Message:  fmt.Sprintf("Added %d team members", len(added)),
		Added:    added,
		NotFound: notFound,
	}, nil
}

// Members returns the project roster. Owner or any member may view it.
func (s *ProjectService) Members(projectID, userID uint) ([]ProjectMemberView, error) {
	project, err := loadProject(s.db, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireProjectParticipant(s.db, project, userID, "view project members"); err != nil {
		return nil, err
	}

	var members []models.ProjectMember
	if err := s.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error; err != nil {
		return nil, err
	}

	views := make([]ProjectMemberView, 0, len(members))
	for i := range members {
		m := &members[i]
		if m.User == nil {
			continue
		}
		views = append(views, ProjectMemberView{
			ID:    m.User.ID,
			Name:  m.User.Name,
			Email: m.User.Email,
			Role:  m.Role,
		})
	}
	return views, nil
}
