package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/logger"
)

// snsAPI is the subset of the SNS client used for SMS
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSConfig holds configuration for the SMS sender
type SMSConfig struct {
	// Region is the AWS region for SNS
	Region string
	// SenderID is the alphanumeric sender shown on the handset, where supported
	SenderID string
}

// SNSSender delivers SMS through AWS SNS direct publish
type SNSSender struct {
	client   snsAPI
	senderID string
	log      *zap.Logger
}

// NewSNSSender creates an SMS sender with the default AWS credential chain
func NewSNSSender(ctx context.Context, cfg *SMSConfig, log *zap.Logger) (*SNSSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("sms config is required")
	}

	// Environment variables -> shared config file -> IAM role
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newSNSSender(sns.NewFromConfig(awsCfg), cfg.SenderID, log), nil
}

func newSNSSender(client snsAPI, senderID string, log *zap.Logger) *SNSSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &SNSSender{client: client, senderID: senderID, log: log}
}

// SendSMS publishes a transactional SMS to the E.164 form of mobile
func (s *SNSSender) SendSMS(ctx context.Context, mobile, message string) error {
	if mobile == "" {
		return fmt.Errorf("recipient mobile is required")
	}

	attributes := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if s.senderID != "" {
		attributes["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.senderID),
		}
	}

	result, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String("+" + strings.TrimPrefix(mobile, "+")),
		Message:           aws.String(message),
		MessageAttributes: attributes,
	})
	if err != nil {
		return fmt.Errorf("SNS Publish failed: %w", err)
	}

	if result.MessageId != nil {
		s.log.Debug("sms sent", logger.Mobile(mobile), zap.String("message_id", *result.MessageId))
	}
	return nil
}

// LogSMSSender writes messages to the application log instead of sending them.
// Intended for local development only.
type LogSMSSender struct {
	log *zap.Logger
}

// NewLogSMSSender creates a development SMS sender
func NewLogSMSSender(log *zap.Logger) *LogSMSSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSMSSender{log: log}
}

// SendSMS logs the message
func (s *LogSMSSender) SendSMS(_ context.Context, mobile, message string) error {
	s.log.Info("sms (not sent, log driver)", logger.Mobile(mobile), zap.String("message", message))
	return nil
}
