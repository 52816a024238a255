package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/templates"
)

// StatusNotifier tells an admin that their account status changed
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, admin *models.AdminUser) error
}

// sesAPI is the subset of the SES v2 client used for mail
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles email sending via AWS SES
type EmailService struct {
	client    sesAPI
	fromEmail string
	templates *templates.TemplateRenderer
	log       *zap.Logger
}

// EmailConfig holds configuration for email service
type EmailConfig struct {
	// FromEmail is the email address that will appear in the From field
	FromEmail string
	// Region is the AWS region for SES (e.g., "us-east-1", "eu-west-1")
	Region string
}

// NewEmailService creates a new email service instance
func NewEmailService(ctx context.Context, cfg *EmailConfig, log *zap.Logger) (*EmailService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("email config is required")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	// Environment variables -> shared config file -> IAM role
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newEmailService(sesv2.NewFromConfig(awsCfg), cfg.FromEmail, log)
}

func newEmailService(client sesAPI, fromEmail string, log *zap.Logger) (*EmailService, error) {
	tmplRenderer, err := templates.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize templates: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		templates: tmplRenderer,
		log:       log,
	}, nil
}

// NotifyStatusChange emails the admin their new account status.
// Accounts without an email address are skipped.
func (s *EmailService) NotifyStatusChange(ctx context.Context, admin *models.AdminUser) error {
	if admin == nil {
		return fmt.Errorf("admin is required")
	}
	if admin.Email == nil || *admin.Email == "" {
		return nil
	}

	data := templates.NewAdminStatusData(admin.DisplayName(), admin.Username, string(admin.Status), time.Now())

	htmlBody, err := s.templates.RenderAdminStatusHTML(data)
	if err != nil {
		return fmt.Errorf("failed to render HTML template: %w", err)
	}

	textBody, err := s.templates.RenderAdminStatusText(data)
	if err != nil {
		return fmt.Errorf("failed to render text template: %w", err)
	}

	subject := fmt.Sprintf("Your admin account is %s", admin.Status)
	if err := s.sendEmail(ctx, *admin.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send status email: %w", err)
	}

	s.log.Info("status email sent", zap.Uint("admin_id", admin.ID), zap.String("status", string(admin.Status)))
	return nil
}

// sendEmail sends an email via AWS SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("SES SendEmail failed: %w", err)
	}

	if result.MessageId != nil {
		s.log.Debug("email accepted by SES", zap.String("message_id", *result.MessageId))
	}

	return nil
}

// NoopNotifier is used when email is not configured
type NoopNotifier struct{}

// NotifyStatusChange does nothing
func (NoopNotifier) NotifyStatusChange(context.Context, *models.AdminUser) error {
	return nil
}
