package services

import (
	"errors"

	"github.com/aadilm/taskboard/backend/internal/models"
	"github.com/aadilm/taskboard/backend/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatusService struct {
	db *gorm.DB
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db}
}

type CreateStatusRequest struct {
	Name      string `json:"name" binding:"required"`
	ProjectID uint   `json:"project_id" binding:"required"`
}

type UpdateStatusRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create adds a new column to the project's board. Owner only.
func (s *StatusService) Create(req *CreateStatusRequest, userID uint) (*models.Status, error) {
	project, err := loadProject(s.db, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := requireProjectOwner(project, userID, "modify this project"); err != nil {
		return nil, err
	}

	status := models.Status{
		Name:      req.Name,
		Position:  uuid.NewString(),
		ProjectID: req.ProjectID,
	}
	if err := s.db.Create(&status).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// Update renames a column. Owner only.
func (s *StatusService) Update(statusID uint, req *UpdateStatusRequest, userID uint) (*models.Status, error) {
	var status models.Status
	if err := s.db.First(&status, statusID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("status not found")
		}
		return nil, err
	}

	project, err := loadProject(s.db, status.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := requireProjectOwner(project, userID, "modify this status"); err != nil {
		return nil, err
	}

	if err := s.db.Model(&status).Update("name", req.Name).Error; err != nil {
		return nil, err
	}
	return &status, nil
}

// Delete removes a column. Owner only, and only when no live task
// still sits in it.
func (s *StatusService) Delete(statusID, userID uint) error {
	var status models.Status
	if err := s.db.First(&status, statusID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("status not found")
		}
		return err
	}

	project, err := loadProject(s.db, status.ProjectID)
	if err != nil {
		return err
	}
	if err := requireProjectOwner(project, userID, "modify this status"); err != nil {
		return err
	}

	var tasks int64
	if err := s.db.Model(&models.Task{}).
		Where("status_id = ?", statusID).
		Count(&tasks).Error; err != nil {
		return err
	}
	if tasks > 0 {
		return response.NewConflict("status still contains tasks")
	}

	return s.db.Delete(&status).Error
}

// ListByProject returns the project's columns in board order. Owner or
// any member may view them.
func (s *StatusService) ListByProject(projectID, userID uint) ([]models.Status, error) {
	project, err := loadProject(s.db, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireProjectParticipant(s.db, project, userID, "view this project"); err != nil {
		return nil, err
	}

	var statuses []models.Status
	if err := s.db.Where("project_id = ?", projectID).
		Order("position").
		Find(&statuses).Error; err != nil {
		return nil, err
	}
	return statuses, nil
}
