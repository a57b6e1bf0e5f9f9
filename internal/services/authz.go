package services

import (
	"errors"

	"github.com/aadilm/taskboard/backend/internal/models"
	"github.com/aadilm/taskboard/backend/pkg/response"
	"gorm.io/gorm"
)

// Shared authorization predicates. Every caller loads the target
// entity first so a missing entity reads as NotFound before any
// permission verdict; error codes never reveal permissions on
// entities that don't exist.

// loadProject fetches a live (not soft-deleted) project.
func loadProject(db *gorm.DB, projectID uint) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("project not found")
		}
		return nil, err
	}
	return &project, nil
}

// requireProjectOwner grants mutating rights on a project: only the
// owner qualifies, leader membership rows carry no extra authority.
func requireProjectOwner(project *models.Project, userID uint, action string) error {
	if project.OwnerID != userID {
		return response.NewForbidden("not authorized to " + action)
	}
	return nil
}

// projectRole reports whether the user participates in the project and
// with which role. The owner counts as a leader even without a
// membership row; otherwise the membership row decides.
func projectRole(db *gorm.DB, projectID, userID uint) (bool, string, error) {
	var project models.Project
	if err := db.First(&project, projectID).Error; err == nil && project.OwnerID == userID {
		return true, models.MemberRoleLeader, nil
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, "", err
	}

	var member models.ProjectMember
	err := db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return true, member.Role, nil
}

// requireProjectParticipant grants read access: owner or any member.
func requireProjectParticipant(db *gorm.DB, project *models.Project, userID uint, action string) (string, error) {
	if project.OwnerID == userID {
		return models.MemberRoleLeader, nil
	}

	var member models.ProjectMember
	err := db.Where("project_id = ? AND user_id = ?", project.ID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", response.NewForbidden("not authorized to " + action)
	}
	if err != nil {
		return "", err
	}
	return member.Role, nil
}
