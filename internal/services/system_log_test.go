package services

import (
	"testing"
	"time"

	"github.com/aadilm/taskboard/backend/internal/models"
)

func TestSystemLogList_Filters(t *testing.T) {
	db := newTestDB(t)
	svc := NewSystemLogService(db)

	entries := []models.SystemLog{
		{Level: "info", Module: "auth", Action: "login", Message: "user logged in"},
		{Level: "error", Module: "auth", Action: "login", Message: "bad password"},
		{Level: "info", Module: "project", Action: "create", Message: "board created"},
	}
	for i := range entries {
		if err := svc.Create(&entries[i]); err != nil {
			t.Fatalf("create log: %v", err)
		}
	}

	resp, err := svc.List(&SystemLogListRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("expected total 3, got %d", resp.Total)
	}
	if resp.Page != 1 || resp.PageSize != 20 {
		t.Errorf("expected default paging 1/20, got %d/%d", resp.Page, resp.PageSize)
	}

	resp, err = svc.List(&SystemLogListRequest{Level: "error"})
	if err != nil {
		t.Fatalf("list errors: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].Message != "bad password" {
		t.Errorf("level filter failed: total=%d", resp.Total)
	}

	resp, err = svc.List(&SystemLogListRequest{Module: "auth", Search: "logged"})
	if err != nil {
		t.Fatalf("list search: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].Message != "user logged in" {
		t.Errorf("module+search filter failed: total=%d", resp.Total)
	}
}

func TestGetModules(t *testing.T) {
	db := newTestDB(t)
	svc := NewSystemLogService(db)

	for _, m := range []string{"auth", "auth", "project"} {
		if err := svc.Create(&models.SystemLog{Level: "info", Module: m}); err != nil {
			t.Fatalf("create log: %v", err)
		}
	}

	modules, err := svc.GetModules()
	if err != nil {
		t.Fatalf("get modules: %v", err)
	}
	if len(modules) != 2 {
		t.Errorf("expected 2 distinct modules, got %v", modules)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	db := newTestDB(t)
	svc := NewSystemLogService(db)

	old := models.SystemLog{Level: "info", Module: "auth", Message: "stale"}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("create old log: %v", err)
	}
	stale := time.Now().AddDate(0, 0, -45)
	if err := db.Model(&old).Update("created_at", stale).Error; err != nil {
		t.Fatalf("backdate log: %v", err)
	}

	fresh := models.SystemLog{Level: "info", Module: "auth", Message: "recent"}
	if err := db.Create(&fresh).Error; err != nil {
		t.Fatalf("create fresh log: %v", err)
	}

	deleted, err := svc.CleanupOldLogs(30)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}
	if n := countRows(t, db, &models.SystemLog{}, "message = ?", "recent"); n != 1 {
		t.Error("recent log was removed")
	}

	// Non-positive retention disables cleanup entirely.
	deleted, err = svc.CleanupOldLogs(0)
	if err != nil {
		t.Fatalf("cleanup disabled: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected no deletions with retention 0, got %d", deleted)
	}
}

func TestGetRetentionDays(t *testing.T) {
	db := newTestDB(t)
	svc := NewSystemLogService(db)

	if days := svc.GetRetentionDays(); days != 30 {
		t.Errorf("expected default 30, got %d", days)
	}

	cfgSvc := NewSystemConfigService(db)
	if err := cfgSvc.Set("log_retention_days", "7"); err != nil {
		t.Fatalf("set retention: %v", err)
	}
	if days := svc.GetRetentionDays(); days != 7 {
		t.Errorf("expected 7, got %d", days)
	}
}
