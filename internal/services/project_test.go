package services

import (
	"net/http"
	"testing"

	"github.com/aadilm/taskboard/backend/internal/models"
)

func TestCreateProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)

	project, err := svc.Create(&CreateProjectRequest{Title: "Apollo", Description: "moonshot"}, owner.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var member models.ProjectMember
	if err := db.Where("project_id = ? AND user_id = ?", project.ID, owner.ID).
		First(&member).Error; err != nil {
		t.Fatalf("leader membership row missing: %v", err)
	}
	if member.Role != models.MemberRoleLeader {
		t.Errorf("expected role leader, got %s", member.Role)
	}

	var statuses []models.Status
	if err := db.Where("project_id = ?", project.ID).Find(&statuses).Error; err != nil {
		t.Fatalf("load statuses: %v", err)
	}
	if len(statuses) != 3 {
		t.Fatalf("expected 3 default columns, got %d", len(statuses))
	}
	names := map[string]bool{}
	for _, s := range statuses {
		names[s.Name] = true
		if s.Position == "" {
			t.Errorf("column %s has empty position", s.Name)
		}
	}
	for _, want := range defaultStatusNames {
		if !names[want] {
			t.Errorf("missing default column %s", want)
		}
	}
}

func TestCreateProject_RequiresPermission(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)

	user := createTestUser(t, db, "Alice", "alice@example.com", false, false)

	_, err := svc.Create(&CreateProjectRequest{Title: "Apollo"}, user.ID)
	assertAppError(t, err, http.StatusForbidden)
}

func TestProjectProgress(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	project := createTestProject(t, db, "Apollo", owner.ID)

	progress, err := svc.Progress(project.ID)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if progress != 0 {
		t.Errorf("empty project should read 0%%, got %v", progress)
	}

	var todo, done models.Status
	if err := db.Where("project_id = ? AND name = ?", project.ID, "Todo").First(&todo).Error; err != nil {
		t.Fatalf("load todo column: %v", err)
	}
	if err := db.Where("project_id = ? AND name = ?", project.ID, "Done").First(&done).Error; err != nil {
		t.Fatalf("load done column: %v", err)
	}

	tasks := []models.Task{
		{Title: "a", ProjectID: project.ID, StatusID: done.ID},
		{Title: "b", ProjectID: project.ID, StatusID: todo.ID},
		{Title: "c", ProjectID: project.ID, StatusID: todo.ID},
	}
	for i := range tasks {
		if err := db.Create(&tasks[i]).Error; err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	progress, err = svc.Progress(project.ID)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if progress != 33.3 {
		t.Errorf("expected 33.3, got %v", progress)
	}
}

func TestListMyProjects(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	outsider := createTestUser(t, db, "Bob", "bob@example.com", true, false)

	project := createTestProject(t, db, "Apollo", owner.ID)
	createTestProject(t, db, "Zephyr", outsider.ID)

	mine, err := svc.ListMine(owner.ID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != project.ID {
		t.Fatalf("expected only owned project, got %d entries", len(mine))
	}
	if mine[0].UserRole != models.MemberRoleLeader {
		t.Errorf("expected role leader, got %s", mine[0].UserRole)
	}
}

func TestListAvailable(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	viewer := createTestUser(t, db, "Bob", "bob@example.com", false, false)

	project := createTestProject(t, db, "Apollo", owner.ID)

	available, err := svc.ListAvailable(viewer.ID)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 1 || available[0].ID != project.ID {
		t.Fatalf("expected 1 available project, got %d", len(available))
	}
	if available[0].OwnerName != "Owner" {
		t.Errorf("expected owner name, got %s", available[0].OwnerName)
	}

	// Joining removes the project from the available list.
	if err := db.Create(&models.ProjectMember{
		ProjectID: project.ID, UserID: viewer.ID, Role: models.MemberRoleMember,
	}).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}
	available, err = svc.ListAvailable(viewer.ID)
	if err != nil {
		t.Fatalf("list available: %v", err)
	}
	if len(available) != 0 {
		t.Errorf("joined project should not be listed, got %d", len(available))
	}
}

func TestDeleteProject(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	member := createTestUser(t, db, "Bob", "bob@example.com", false, false)
	project := createTestProject(t, db, "Apollo", owner.ID)

	err := svc.Delete(project.ID, member.ID)
	assertAppError(t, err, http.StatusForbidden)

	if err := svc.Delete(project.ID, owner.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if n := countRows(t, db, &models.Project{}, "id = ?", project.ID); n != 0 {
		t.Errorf("deleted project still visible to default scope")
	}
}

func TestAddMembers(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	known := createTestUser(t, db, "Bob", "bob@example.com", false, false)
	project := createTestProject(t, db, "Apollo", owner.ID)

	result, err := svc.AddMembers(project.ID,
		[]string{" bob@example.com ", "ghost@example.com"}, owner.ID)
	if err != nil {
		t.Fatalf("add members: %v", err)
	}
	if len(result.Added) != 1 || result.Added[0] != "bob@example.com" {
		t.Errorf("expected bob added, got %v", result.Added)
	}
	if len(result.NotFound) != 1 || result.NotFound[0] != "ghost@example.com" {
		t.Errorf("expected ghost reported missing, got %v", result.NotFound)
	}

	if n := countRows(t, db, &models.ProjectMember{},
		"project_id = ? AND user_id = ?", project.ID, known.ID); n != 1 {
		t.Errorf("expected membership row for bob, got %d", n)
	}
	if n := countRows(t, db, &models.Notification{},
		"user_id = ? AND type = ?", known.ID, models.NotifyProjectAssigned); n != 1 {
		t.Errorf("expected assignment notification, got %d", n)
	}

	// Re-adding is a no-op, not an error.
	result, err = svc.AddMembers(project.ID, []string{"bob@example.com"}, owner.ID)
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if len(result.Added) != 0 {
		t.Errorf("existing member should be skipped, got %v", result.Added)
	}
	if n := countRows(t, db, &models.ProjectMember{},
		"project_id = ? AND user_id = ?", project.ID, known.ID); n != 1 {
		t.Errorf("duplicate membership row created")
	}
}

func TestMembers(t *testing.T) {
	db := newTestDB(t)
	svc := NewProjectService(db)

	owner := createTestUser(t, db, "Owner", "owner@example.com", true, false)
	outsider := createTestUser(t, db, "Carl", "carl@example.com", false, false)
	project := createTestProject(t, db, "Apollo", owner.ID)

	_, err := svc.Members(project.ID, outsider.ID)
	assertAppError(t, err, http.StatusForbidden)

	roster, err := svc.Members(project.ID, owner.ID)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(roster) != 1 || roster[0].Email != "owner@example.com" {
		t.Fatalf("expected owner in roster, got %+v", roster)
	}
	if roster[0].Role != models.MemberRoleLeader {
		t.Errorf("expected leader role, got %s", roster[0].Role)
	}
}
