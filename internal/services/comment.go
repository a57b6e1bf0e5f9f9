package services

import (
	"time"

	"github.com/aadilm/taskboard/backend/internal/models"
	"github.com/aadilm/taskboard/backend/pkg/response"
	"gorm.io/gorm"
)

type CommentService struct {
	db *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

type CreateCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// CommentView is a comment with its author's name attached.
type CommentView struct {
	ID        uint      `json:"id"`
	TaskID    uint      `json:"task_id"`
	UserID    uint      `json:"user_id"`
	Comment   string    `json:"comment"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Add leaves a comment on a task. Owner or any project member may
// comment.
func (s *CommentService) Add(taskID uint, req *CreateCommentRequest, userID uint) (*CommentView, error) {
	task, project, err := s.loadTaskWithProject(taskID)
	if err != nil {
		return nil, err
	}
	if _, err := requireProjectParticipant(s.db, project, userID, "comment on this task"); err != nil {
		return nil, err
	}

	comment := models.TaskComment{
		TaskID:  task.ID,
		UserID:  userID,
		Comment: req.Comment,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	var author models.User
	if err := s.db.First(&author, userID).Error; err != nil {
		return nil, err
	}

	return &CommentView{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		UserID:    comment.UserID,
		Comment:   comment.Comment,
		UserName:  author.Name,
		CreatedAt: comment.CreatedAt,
	}, nil
}

// ListByTask returns a task's comments, newest first. Owner or any
// project member may read them.
func (s *CommentService) ListByTask(taskID, userID uint) ([]CommentView, error) {
	_, project, err := s.loadTaskWithProject(taskID)
	if err != nil {
		return nil, err
	}
	if _, err := requireProjectParticipant(s.db, project, userID, "view comments on this task"); err != nil {
		return nil, err
	}

	var comments []models.TaskComment
	if err := s.db.Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for i := range comments {
		c := &comments[i]
		view := CommentView{
			ID:        c.ID,
			TaskID:    c.TaskID,
			UserID:    c.UserID,
			Comment:   c.Comment,
			CreatedAt: c.CreatedAt,
		}
		if c.User != nil {
			view.UserName = c.User.Name
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *CommentService) loadTaskWithProject(taskID uint) (*models.Task, *models.Project, error) {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, response.NewNotFound("task not found")
		}
		return nil, nil, err
	}

	project, err := loadProject(s.db, task.ProjectID)
	if err != nil {
		return nil, nil, err
	}
	return &task, project, nil
}
