package services

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/aadilm/taskboard/backend/internal/models"
	"github.com/aadilm/taskboard/backend/pkg/logger"
	"gorm.io/gorm"
)

// EmailService sends notification emails using the SMTP settings kept
// in the system config store.
type EmailService struct {
	db *gorm.DB
}

type EmailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	CC       []string
	UseTLS   bool
}

func NewEmailService(db *gorm.DB) *EmailService {
	return &EmailService{db: db}
}

func (s *EmailService) GetConfig() *EmailConfig {
	config := &EmailConfig{}

	var configs []models.SystemConfig
	s.db.Where("`group` = ?", "email").Find(&configs)

	for _, c := range configs {
		switch c.Key {
		case "email_enabled":
			config.Enabled = c.Value == "true"
		case "email_host":
			config.Host = c.Value
		case "email_port":
			if port, err := strconv.Atoi(c.Value); err == nil {
				config.Port = port
			}
		case "email_username":
			config.Username = c.Value
		case "email_password":
			config.Password = c.Value
		case "email_from":
			config.From = c.Value
		case "email_cc":
			config.CC = splitAndTrim(c.Value, ",")
		case "email_use_tls":
			config.UseTLS = c.Value == "true"
		}
	}

	if config.Port == 0 {
		config.Port = 587
	}

	return config
}

// DeliverNotification sends a committed notification to its recipient
// by email. A disabled or unconfigured mailer is not an error.
func (s *EmailService) DeliverNotification(ctx context.Context, task *NotifyTask) error {
	config := s.GetConfig()
	if !config.Enabled || config.Host == "" {
		return nil
	}

	var user models.User
	if err := s.db.First(&user, task.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug().Uint("user_id", task.UserID).Msg("notification recipient no longer exists")
			return nil
		}
		return err
	}

	recipients := append([]string{user.Email}, config.CC...)
	subject := fmt.Sprintf("[TaskBoard] %s", subjectForType(task.Type))
	body := s.buildEmailBody(user.Name, task)

	return s.sendEmail(config, recipients, subject, body)
}

func subjectForType(notifType string) string {
	switch notifType {
	case models.NotifyProjectAssigned:
		return "You joined a project"
	case models.NotifyAccessApproved:
		return "Access request approved"
	case models.NotifyAccessRejected:
		return "Access request rejected"
	case models.NotifyTaskAssigned:
		return "Task assigned to you"
	case models.NotifyCommentAdded:
		return "New comment on your task"
	default:
		return "Notification"
	}
}

func (s *EmailService) buildEmailBody(name string, task *NotifyTask) string {
	var sb strings.Builder

	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<p>Hi %s,</p>", name))
	sb.WriteString(fmt.Sprintf("<div style=\"background: #f9f9f9; padding: 16px; border-radius: 4px;\">%s</div>", task.Message))
	sb.WriteString("<p>Log in to TaskBoard to see the details.</p>")
	sb.WriteString("<hr><p style=\"color: #888; font-size: 12px;\">TaskBoard notifications</p>")
	sb.WriteString("</body></html>")

	return sb.String()
}

func (s *EmailService) sendEmail(config *EmailConfig, to []string, subject, body string) error {
	from := config.From
	if from == "" {
		from = config.Username
	}

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	var err error
	if config.UseTLS {
		err = s.sendEmailTLS(config, addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, to, []byte(message.String()))
	}

	if err != nil {
		logger.Warn().Err(err).Msg("failed to send notification email")
		return err
	}

	logger.Debug().Strs("to", to).Msg("notification email sent")
	return nil
}

func (s *EmailService) sendEmailTLS(config *EmailConfig, addr string, auth smtp.Auth, from string, to []string, message string) error {
	tlsConfig := &tls.Config{
		ServerName: config.Host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, config.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}

	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(message)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}
