package services

import (
	"strconv"
	"strings"

	"github.com/aadilm/taskboard/backend/internal/models"
	"gorm.io/gorm"
)

type SystemConfigService struct {
	db *gorm.DB
}

func NewSystemConfigService(db *gorm.DB) *SystemConfigService {
	return &SystemConfigService{db: db}
}

func (s *SystemConfigService) Get(key string) (string, error) {
	var cfg models.SystemConfig
	if err := s.db.Where("`key` = ?", key).First(&cfg).Error; err != nil {
		return "", err
	}
	return cfg.Value, nil
}

func (s *SystemConfigService) GetWithDefault(key, defaultValue string) string {
	value, err := s.Get(key)
	if err != nil {
		return defaultValue
	}
	return value
}

func (s *SystemConfigService) Set(key, value string) error {
	var cfg models.SystemConfig
	err := s.db.Where("`key` = ?", key).First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		cfg = models.SystemConfig{
			Key:   key,
			Value: value,
		}
		return s.db.Create(&cfg).Error
	}
	if err != nil {
		return err
	}
	return s.db.Model(&cfg).Update("value", value).Error
}

func (s *SystemConfigService) GetByGroup(group string) ([]models.SystemConfig, error) {
	var configs []models.SystemConfig
	if err := s.db.Where("`group` = ?", group).Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// splitAndTrim splits a separated config value into non-empty trimmed parts.
func splitAndTrim(value, sep string) []string {
	var out []string
	for _, part := range strings.Split(value, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

type EmailConfigResponse struct {
	Enabled     bool   `json:"enabled"`
	SMTPHost    string `json:"smtp_host"`
	SMTPPort    int    `json:"smtp_port"`
	Username    string `json:"username"`
	FromAddress string `json:"from_address"`
	PasswordSet bool   `json:"password_set"`
}

func (s *SystemConfigService) GetEmailConfig() *EmailConfigResponse {
	port, _ := strconv.Atoi(s.GetWithDefault("email_port", "587"))
	return &EmailConfigResponse{
		Enabled:     s.GetWithDefault("email_enabled", "false") == "true",
		SMTPHost:    s.GetWithDefault("email_host", ""),
		SMTPPort:    port,
		Username:    s.GetWithDefault("email_username", ""),
		FromAddress: s.GetWithDefault("email_from", ""),
		PasswordSet: s.GetWithDefault("email_password", "") != "",
	}
}

type UpdateEmailConfigRequest struct {
	Enabled     *bool   `json:"enabled"`
	SMTPHost    *string `json:"smtp_host"`
	SMTPPort    *int    `json:"smtp_port"`
	Username    *string `json:"username"`
	Password    *string `json:"password"`
	FromAddress *string `json:"from_address"`
}

func (s *SystemConfigService) UpdateEmailConfig(req *UpdateEmailConfigRequest) error {
	if req.Enabled != nil {
		if err := s.Set("email_enabled", strconv.FormatBool(*req.Enabled)); err != nil {
			return err
		}
	}
	if req.SMTPHost != nil {
		if err := s.Set("email_host", *req.SMTPHost); err != nil {
			return err
		}
	}
	if req.SMTPPort != nil {
		if err := s.Set("email_port", strconv.Itoa(*req.SMTPPort)); err != nil {
			return err
		}
	}
	if req.Username != nil {
		if err := s.Set("email_username", *req.Username); err != nil {
			return err
		}
	}
	if req.Password != nil && *req.Password != "" {
		if err := s.Set("email_password", *req.Password); err != nil {
			return err
		}
	}
	if req.FromAddress != nil {
		if err := s.Set("email_from", *req.FromAddress); err != nil {
			return err
		}
	}
	return nil
}

type RetentionConfigResponse struct {
	LogRetentionDays int `json:"log_retention_days"`
	ProjectPurgeDays int `json:"project_purge_days"`
}

func (s *SystemConfigService) GetRetentionConfig() *RetentionConfigResponse {
	logDays, _ := strconv.Atoi(s.GetWithDefault("log_retention_days", "30"))
	purgeDays, _ := strconv.Atoi(s.GetWithDefault("project_purge_days", "30"))
	return &RetentionConfigResponse{
		LogRetentionDays: logDays,
		ProjectPurgeDays: purgeDays,
	}
}

type UpdateRetentionConfigRequest struct {
	LogRetentionDays *int `json:"log_retention_days"`
	ProjectPurgeDays *int `json:"project_purge_days"`
}

func (s *SystemConfigService) UpdateRetentionConfig(req *UpdateRetentionConfigRequest) error {
	if req.LogRetentionDays != nil {
		if err := s.Set("log_retention_days", strconv.Itoa(*req.LogRetentionDays)); err != nil {
			return err
		}
	}
	if req.ProjectPurgeDays != nil {
		if err := s.Set("project_purge_days", strconv.Itoa(*req.ProjectPurgeDays)); err != nil {
			return err
		}
	}
	return nil
}
