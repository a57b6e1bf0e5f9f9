package services

import (
	"net/http"
	"testing"

	"github.com/aadilm/taskboard/backend/internal/models"
	"gorm.io/gorm"
)

func projectColumn(t *testing.T, db *gorm.DB, projectID uint, name string) *models.Status {
	t.Helper()

	var status models.Status
	if err := db.Where("project_id = ? AND name = ?", projectID, name).
		First(&status).Error; err != nil {
		t.Fatalf("load column %s: %v", name, err)
	}
	return &status
}

func addMember(t *testing.T, db *gorm.DB, projectID, userID uint) {
	t.Helper()

	if err := db.Create(&models.ProjectMember{
		ProjectID: projectID, UserID: userID, Role: models.MemberRoleMember,
	}).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}
}

func TestCreateTask(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	project := createTestProject(t, db, "Apollo", owner.ID)
	todo := projectColumn(t, db, project.ID, "Todo")

	task, err := svc.Create(&CreateTaskRequest{
		Title:     "write docs",
		Priority:  "high",
		StatusID:  todo.ID,
		ProjectID: project.ID,
	}, owner.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.StatusID != todo.ID || task.ProjectID != project.ID {
		t.Errorf("task landed in wrong column/project: %+v", task)
	}
}

func TestCreateTask_StatusFromOtherProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	project := createTestProject(t, db, "Apollo", owner.ID)
	other := createTestProject(t, db, "Zephyr", owner.ID)
	foreign := projectColumn(t, db, other.ID, "Todo")

	_, err := svc.Create(&CreateTaskRequest{
		Title:     "misfiled",
		StatusID:  foreign.ID,
		ProjectID: project.ID,
	}, owner.ID)
	assertAppError(t, err, http.StatusBadRequest)
}

func TestCreateTask_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	member := createTestUser(t, db, "Bob", "bob@example.com", false, false)
	project := createTestProject(t, db, "Apollo", owner.ID)
	addMember(t, db, project.ID, member.ID)
	todo := projectColumn(t, db, project.ID, "Todo")

	_, err := svc.Create(&CreateTaskRequest{
		Title:     "not yours",
		StatusID:  todo.ID,
		ProjectID: project.ID,
	}, member.ID)
	assertAppError(t, err, http.StatusForbidden)
}

func TestUpdateTask_PartialFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	project := createTestProject(t, db, "Apollo", owner.ID)
	todo := projectColumn(t, db, project.ID, "Todo")

	task, err := svc.Create(&CreateTaskRequest{
		Title:       "write docs",
		Description: "outline first",
		Priority:    "low",
		StatusID:    todo.ID,
		ProjectID:   project.ID,
	}, owner.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newPriority := "high"
	updated, err := svc.Update(task.ID, &UpdateTaskRequest{Priority: &newPriority}, owner.ID)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Priority != "high" {
		t.Errorf("expected priority high, got %s", updated.Priority)
	}
	if updated.Title != "write docs" || updated.Description != "outline first" {
		t.Errorf("unset fields must be untouched: %+v", updated)
	}
}

func TestMoveTask(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	member := createTestUser(t, db, "Bob", "bob@example.com", false, false)
	outsider := createTestUser(t, db, "Carl", "carl@example.com", false, false)
	project := createTestProject(t, db, "Apollo", owner.ID)
	addMember(t, db, project.ID, member.ID)

	todo := projectColumn(t, db, project.ID, "Todo")
	done := projectColumn(t, db, project.ID, "Done")

	unassigned, err := svc.Create(&CreateTaskRequest{
		Title: "free", StatusID: todo.ID, ProjectID: project.ID,
	}, owner.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Non-participants may not touch the board.
	_, err = svc.Move(unassigned.ID, &MoveTaskRequest{NewStatusID: done.ID}, outsider.ID)
	assertAppError(t, err, http.StatusForbidden)

	// Any participant may move an unassigned task.
	moved, err := svc.Move(unassigned.ID, &MoveTaskRequest{NewStatusID: done.ID}, member.ID)
	if err != nil {
		t.Fatalf("move unassigned: %v", err)
	}
	if moved.StatusID != done.ID {
		t.Errorf("expected status %d, got %d", done.ID, moved.StatusID)
	}

	assigned, err := svc.Create(&CreateTaskRequest{
		Title: "bob's", StatusID: todo.ID, ProjectID: project.ID, AssignedTo: &member.ID,
	}, owner.ID)
	if err != nil {
		t.Fatalf("create assigned: %v", err)
	}

	// An assigned task moves only by its assignee's hand, owner included.
	_, err = svc.Move(assigned.ID, &MoveTaskRequest{NewStatusID: done.ID}, owner.ID)
	assertAppError(t, err, http.StatusForbidden)

	if _, err := svc.Move(assigned.ID, &MoveTaskRequest{NewStatusID: done.ID}, member.ID); err != nil {
		t.Fatalf("assignee move: %v", err)
	}
}

func TestMoveTask_StatusFromOtherProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	project := createTestProject(t, db, "Apollo", owner.ID)
	other := createTestProject(t, db, "Zephyr", owner.ID)
	todo := projectColumn(t, db, project.ID, "Todo")
	foreign := projectColumn(t, db, other.ID, "Done")

	task, err := svc.Create(&CreateTaskRequest{
		Title: "stay put", StatusID: todo.ID, ProjectID: project.ID,
	}, owner.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Move(task.ID, &MoveTaskRequest{NewStatusID: foreign.ID}, owner.ID)
	assertAppError(t, err, http.StatusBadRequest)
}

func TestListTasksByProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	member := createTestUser(t, db, "Bob", "bob@example.com", false, false)
	outsider := createTestUser(t, db, "Carl", "carl@example.com", false, false)
	project := createTestProject(t, db, "Apollo", owner.ID)
	addMember(t, db, project.ID, member.ID)

	todo := projectColumn(t, db, project.ID, "Todo")
	done := projectColumn(t, db, project.ID, "Done")

	for _, c := range []struct {
		title    string
		statusID uint
		priority string
	}{
		{"a", todo.ID, "high"},
		{"b", todo.ID, "low"},
		{"c", done.ID, "high"},
	} {
		if _, err := svc.Create(&CreateTaskRequest{
			Title: c.title, Priority: c.priority, StatusID: c.statusID, ProjectID: project.ID,
		}, owner.ID); err != nil {
			t.Fatalf("create %s: %v", c.title, err)
		}
	}

	_, err := svc.ListByProject(project.ID, &TaskListQuery{}, outsider.ID)
	assertAppError(t, err, http.StatusForbidden)

	all, err := svc.ListByProject(project.ID, &TaskListQuery{}, member.ID)
	if err != nil {
		t.Fatalf("list as member: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 tasks, got %d", len(all))
	}

	high, err := svc.ListByProject(project.ID, &TaskListQuery{Priority: "high"}, owner.ID)
	if err != nil {
		t.Fatalf("list high: %v", err)
	}
	if len(high) != 2 {
		t.Errorf("expected 2 high-priority tasks, got %d", len(high))
	}

	inTodo, err := svc.ListByProject(project.ID, &TaskListQuery{StatusID: &todo.ID}, owner.ID)
	if err != nil {
		t.Fatalf("list todo: %v", err)
	}
	if len(inTodo) != 2 {
		t.Errorf("expected 2 tasks in Todo, got %d", len(inTodo))
	}
}

func TestBoard(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	member := createTestUser(t, db, "Bob", "bob@example.com", false, false)
	project := createTestProject(t, db, "Apollo", owner.ID)
	addMember(t, db, project.ID, member.ID)

	todo := projectColumn(t, db, project.ID, "Todo")

	if _, err := svc.Create(&CreateTaskRequest{
		Title: "card", StatusID: todo.ID, ProjectID: project.ID, AssignedTo: &member.ID,
	}, owner.ID); err != nil {
		t.Fatalf("create: %v", err)
	}

	columns, err := svc.Board(project.ID, member.ID)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if len(columns) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(columns))
	}

	for _, col := range columns {
		if col.Tasks == nil {
			t.Errorf("column %s has nil task list, want empty slice", col.StatusName)
		}
		if col.UserRole != models.MemberRoleMember {
			t.Errorf("expected role member on column %s, got %s", col.StatusName, col.UserRole)
		}
		if col.CurrentUserID != member.ID {
			t.Errorf("expected current user %d, got %d", member.ID, col.CurrentUserID)
		}
		if col.StatusID == todo.ID {
			if len(col.Tasks) != 1 {
				t.Fatalf("expected 1 card in Todo, got %d", len(col.Tasks))
			}
			card := col.Tasks[0]
			if card.AssignedUserName == nil || *card.AssignedUserName != "Bob" {
				t.Errorf("expected assignee name Bob, got %v", card.AssignedUserName)
			}
		}
	}
}

func TestDeleteTask(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	member := createTestUser(t, db, "Bob", "bob@example.com", false, false)
	project := createTestProject(t, db, "Apollo", owner.ID)
	addMember(t, db, project.ID, member.ID)
	todo := projectColumn(t, db, project.ID, "Todo")

	task, err := svc.Create(&CreateTaskRequest{
		Title: "gone soon", StatusID: todo.ID, ProjectID: project.ID,
	}, owner.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.Delete(task.ID, member.ID)
	assertAppError(t, err, http.StatusForbidden)

	if err := svc.Delete(task.ID, owner.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := countRows(t, db, &models.Task{}, "id = ?", task.ID); n != 0 {
		t.Errorf("deleted task still visible to default scope")
	}
}
