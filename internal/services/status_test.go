package services

import (
	"net/http"
	"testing"

	"github.com/aadilm/taskboard/backend/internal/models"
)

func TestCreateStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatusService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	member := createTestUser(t, db, "Bob", "bob@example.com", false, false)
	project := createTestProject(t, db, "Apollo", owner.ID)
	addMember(t, db, project.ID, member.ID)

	_, err := svc.Create(&CreateStatusRequest{Name: "Review", ProjectID: project.ID}, member.ID)
	assertAppError(t, err, http.StatusForbidden)

	status, err := svc.Create(&CreateStatusRequest{Name: "Review", ProjectID: project.ID}, owner.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if status.Position == "" {
		t.Error("new column has empty position")
	}
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatusService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	project := createTestProject(t, db, "Apollo", owner.ID)
	todo := projectColumn(t, db, project.ID, "Todo")

	renamed, err := svc.Update(todo.ID, &UpdateStatusRequest{Name: "Backlog"}, owner.ID)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if renamed.Name != "Backlog" {
		t.Errorf("expected Backlog, got %s", renamed.Name)
	}
}

func TestDeleteStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatusService(db)
	tasks := NewTaskService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	project := createTestProject(t, db, "Apollo", owner.ID)
	todo := projectColumn(t, db, project.ID, "Todo")

	task, err := tasks.Create(&CreateTaskRequest{
		Title: "blocker", StatusID: todo.ID, ProjectID: project.ID,
	}, owner.ID)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	// A column holding live tasks may not be removed.
	err = svc.Delete(todo.ID, owner.ID)
	assertAppError(t, err, http.StatusConflict)

	if err := tasks.Delete(task.ID, owner.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}

	if err := svc.Delete(todo.ID, owner.ID); err != nil {
		t.Fatalf("delete empty column: %v", err)
	}
	if n := countRows(t, db, &models.Status{}, "id = ?", todo.ID); n != 0 {
		t.Errorf("column still present after delete")
	}
}

func TestListStatusesByProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewStatusService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	outsider := createTestUser(t, db, "Carl", "carl@example.com", false, false)
	project := createTestProject(t, db, "Apollo", owner.ID)

	_, err := svc.ListByProject(project.ID, outsider.ID)
	assertAppError(t, err, http.StatusForbidden)

	columns, err := svc.ListByProject(project.ID, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(columns) != 3 {
		t.Errorf("expected 3 default columns, got %d", len(columns))
	}
}
