package services

import (
	"errors"
	"time"

	"github.com/aadilm/taskboard/backend/internal/models"
	"github.com/aadilm/taskboard/backend/pkg/response"
	"gorm.io/gorm"
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	StatusID    uint       `json:"status_id" binding:"required"`
	ProjectID   uint       `json:"project_id" binding:"required"`
	AssignedTo  *uint      `json:"assigned_to"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *uint      `json:"assigned_to"`
}

type MoveTaskRequest struct {
	NewStatusID uint `json:"new_status_id" binding:"required"`
}

type TaskListQuery struct {
	StatusID   *uint  `form:"status_id"`
	Priority   string `form:"priority"`
	AssignedTo *uint  `form:"assigned_to"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}

// BoardTaskView is a task card on the kanban board.
type BoardTaskView struct {
	ID                uint    `json:"id"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Priority          string  `json:"priority"`
	StatusID          uint    `json:"status_id"`
	AssignedTo        *uint   `json:"assigned_to"`
	AssignedUserName  *string `json:"assigned_user_name"`
	AssignedUserEmail *string `json:"assigned_user_email"`
}

// BoardColumnView is one status column with its tasks.
type BoardColumnView struct {
	StatusID      uint            `json:"status_id"`
	StatusName    string          `json:"status_name"`
	Tasks         []BoardTaskView `json:"tasks"`
	UserRole      string          `json:"user_role"`
	CurrentUserID uint            `json:"current_user_id"`
}

// Create inserts a task after validating the project, the target
// status and the assignee. Owner only.
func (s *TaskService) Create(req *CreateTaskRequest, userID uint) (*models.Task, error) {
	project, err := loadProject(s.db, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := requireProjectOwner(project, userID, "create tasks in this project"); err != nil {
		return nil, err
	}

	var status models.Status
	if err := s.db.First(&status, req.StatusID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("status not found")
		}
		return nil, err
	}
	if status.ProjectID != req.ProjectID {
		return nil, response.NewBadRequest("status belongs to a different project")
	}

	if req.AssignedTo != nil {
		var assignee models.User
		if err := s.db.First(&assignee, *req.AssignedTo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFound("assigned user not found")
			}
			return nil, err
		}
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		StatusID:    req.StatusID,
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update edits a task's fields. Owner only.
func (s *TaskService) Update(taskID uint, req *UpdateTaskRequest, userID uint) (*models.Task, error) {
	task, err := s.loadTask(taskID)
	if err != nil {
		return nil, err
	}

	project, err := loadProject(s.db, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := requireProjectOwner(project, userID, "update this task"); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
	}
	if req.AssignedTo != nil {
		var assignee models.User
		if err := s.db.First(&assignee, *req.AssignedTo).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewNotFound("assigned user not found")
			}
			return nil, err
		}
		updates["assigned_to"] = *req.AssignedTo
	}

	if len(updates) > 0 {
		if err := s.db.Model(task).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return task, nil
}

// Move relocates a task to another column. Any project participant may
// move an unassigned task; an assigned task moves only by its
// assignee's hand.
func (s *TaskService) Move(taskID uint, req *MoveTaskRequest, userID uint) (*models.Task, error) {
	task, err := s.loadTask(taskID)
	if err != nil {
		return nil, err
	}

	isParticipant, _, err := projectRole(s.db, task.ProjectID, userID)
	if err != nil {
		return nil, err
	}
	if !isParticipant {
		return nil, response.NewForbidden("not authorized to move this task")
	}

	if task.AssignedTo != nil && *task.AssignedTo != userID {
		return nil, response.NewForbidden("only the assigned user can move this task")
	}

	var status models.Status
	if err := s.db.First(&status, req.NewStatusID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("new status not found")
		}
		return nil, err
	}
	if status.ProjectID != task.ProjectID {
		return nil, response.NewBadRequest("status belongs to a different project")
	}

	if err := s.db.Model(task).Update("status_id", req.NewStatusID).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Delete soft-deletes a task. Owner only.
func (s *TaskService) Delete(taskID, userID uint) error {
	task, err := s.loadTask(taskID)
	if err != nil {
		return err
	}

	project, err := loadProject(s.db, task.ProjectID)
	if err != nil {
		return err
	}
	if err := requireProjectOwner(project, userID, "delete this task"); err != nil {
		return err
	}

	return s.db.Delete(task).Error
}

// ListByProject returns the project's tasks with optional filters.
// Owner or any member may view them.
func (s *TaskService) ListByProject(projectID uint, q *TaskListQuery, userID uint) ([]models.Task, error) {
	project, err := loadProject(s.db, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := requireProjectParticipant(s.db, project, userID, "view tasks in this project"); err != nil {
		return nil, err
	}

	query := s.db.Where("project_id = ?", projectID)
	if q.StatusID != nil {
		query = query.Where("status_id = ?", *q.StatusID)
	}
	if q.Priority != "" {
		query = query.Where("priority = ?", q.Priority)
	}
	if q.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *q.AssignedTo)
	}

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").
		Limit(limit).Offset(q.Offset).
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Board returns the kanban board: every column in order, each with its
// tasks and the assignee's name and email on each card.
func (s *TaskService) Board(projectID, userID uint) ([]BoardColumnView, error) {
	project, err := loadProject(s.db, projectID)
	if err != nil {
		return nil, err
	}
	role, err := requireProjectParticipant(s.db, project, userID, "view this project")
	if err != nil {
		return nil, err
	}

	var statuses []models.Status
	if err := s.db.Where("project_id = ?", projectID).
		Order("position").
		Find(&statuses).Error; err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := s.db.Preload("Assignee").
		Where("project_id = ?", projectID).
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	cardsByStatus := make(map[uint][]BoardTaskView)
	for i := range tasks {
		t := &tasks[i]
		card := BoardTaskView{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority,
			StatusID:    t.StatusID,
			AssignedTo:  t.AssignedTo,
		}
		if t.Assignee != nil {
			card.AssignedUserName = &t.Assignee.Name
			card.AssignedUserEmail = &t.Assignee.Email
		}
		cardsByStatus[t.StatusID] = append(cardsByStatus[t.StatusID], card)
	}

	board := make([]BoardColumnView, 0, len(statuses))
	for i := range statuses {
		st := &statuses[i]
		cards := cardsByStatus[st.ID]
		if cards == nil {
			cards = []BoardTaskView{}
		}
		board = append(board, BoardColumnView{
			StatusID:      st.ID,
			StatusName:    st.Name,
			Tasks:         cards,
			UserRole:      role,
			CurrentUserID: userID,
		})
	}
	return board, nil
}

func (s *TaskService) loadTask(taskID uint) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("task not found")
		}
		return nil, err
	}
	return &task, nil
}
