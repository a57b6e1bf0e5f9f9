package services

import (
	"time"

	"github.com/aadilm/taskboard/backend/internal/models"
	"github.com/aadilm/taskboard/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CleanupScheduler runs the nightly retention jobs: trimming old
// system logs and hard-purging projects that have sat soft-deleted
// past the configured grace period.
type CleanupScheduler struct {
	db        *gorm.DB
	cron      *cron.Cron
	logSvc    *SystemLogService
	configSvc *SystemConfigService
}

func NewCleanupScheduler(db *gorm.DB) *CleanupScheduler {
	return &CleanupScheduler{
		db:        db,
		cron:      cron.New(),
		logSvc:    NewSystemLogService(db),
		configSvc: NewSystemConfigService(db),
	}
}

// Start registers the jobs and runs them once immediately so a
// long-stopped instance catches up on startup.
func (s *CleanupScheduler) Start() error {
	if _, err := s.cron.AddFunc("0 3 * * *", s.runLogCleanup); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("30 3 * * *", s.runProjectPurge); err != nil {
		return err
	}

	go func() {
		s.runLogCleanup()
		s.runProjectPurge()
	}()

	s.cron.Start()
	return nil
}

func (s *CleanupScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *CleanupScheduler) runLogCleanup() {
	retentionDays := s.logSvc.GetRetentionDays()
	if retentionDays <= 0 {
		logger.Debug().Msg("log cleanup disabled")
		return
	}

	deleted, err := s.logSvc.CleanupOldLogs(retentionDays)
	if err != nil {
		logger.Error().Err(err).Msg("log cleanup failed")
		return
	}
	if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Int("retention_days", retentionDays).Msg("old system logs removed")
	}
}

// runProjectPurge permanently removes projects soft-deleted longer ago
// than the grace period, together with their statuses, tasks,
// memberships, comments and join requests.
func (s *CleanupScheduler) runProjectPurge() {
	purge := s.configSvc.GetRetentionConfig().ProjectPurgeDays
	if purge <= 0 {
		logger.Debug().Msg("project purge disabled")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -purge)

	var projectIDs []uint
	if err := s.db.Unscoped().Model(&models.Project{}).
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Pluck("id", &projectIDs).Error; err != nil {
		logger.Error().Err(err).Msg("project purge scan failed")
		return
	}
	if len(projectIDs) == 0 {
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint
		if err := tx.Unscoped().Model(&models.Task{}).
			Where("project_id IN ?", projectIDs).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Unscoped().Where("task_id IN ?", taskIDs).
				Delete(&models.TaskComment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("project_id IN ?", projectIDs).
			Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id IN ?", projectIDs).
			Delete(&models.Status{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("project_id IN ?", projectIDs).
			Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id IN ?", projectIDs).
			Delete(&models.AccessRequest{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("id IN ?", projectIDs).
			Delete(&models.Project{}).Error
	})
	if err != nil {
		logger.Error().Err(err).Msg("project purge failed")
		return
	}

	logger.Info().Int("projects", len(projectIDs)).Msg("soft-deleted projects purged")
}
