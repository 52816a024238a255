package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/crypto"
	"github.com/quillpress/api-backend/internal/logger"
	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/validators"
)

// SMSSender delivers a text message to a normalised mobile number
type SMSSender interface {
	SendSMS(ctx context.Context, mobile, message string) error
}

// OTPConfig holds one-time code parameters
type OTPConfig struct {
	// Length is the number of digits in a code
	Length int
	// TTL is how long an issued code stays verifiable
	TTL time.Duration
	// ResendCooldown is the minimum time between two codes for one mobile
	ResendCooldown time.Duration
}

// OTPService issues and verifies one-time codes bound to mobile numbers
type OTPService struct {
	otps   *repositories.OTPRepository
	admins *repositories.AdminRepository
	sms    SMSSender
	config OTPConfig
	log    *zap.Logger

	generateCode func(length int) (string, error)
}

// NewOTPService creates a new OTP service instance
func NewOTPService(
	otps *repositories.OTPRepository,
	admins *repositories.AdminRepository,
	sms SMSSender,
	config OTPConfig,
	log *zap.Logger,
) (*OTPService, error) {
	if otps == nil {
		return nil, fmt.Errorf("otp repository is required")
	}
	if admins == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if sms == nil {
		return nil, fmt.Errorf("sms sender is required")
	}
	if config.Length <= 0 {
		return nil, fmt.Errorf("otp length must be positive")
	}
	if config.TTL <= 0 {
		return nil, fmt.Errorf("otp ttl must be positive")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &OTPService{
		otps:         otps,
		admins:       admins,
		sms:          sms,
		config:       config,
		log:          log,
		generateCode: crypto.GenerateOTPCode,
	}, nil
}

// IssueResult describes an issue request that was accepted
type IssueResult struct {
	Mobile    string
	ExpiresAt time.Time
}

// Issue sends a fresh code to mobile and invalidates every earlier code.
// A mobile that maps to no approved account gets the same answer without a code being sent.
func (s *OTPService) Issue(ctx context.Context, mobile string) (*IssueResult, error) {
	normalized, err := validators.NormalizeMobile(mobile)
	if err != nil {
		return nil, validationFailed(err)
	}

	expiresAt := time.Now().UTC().Add(s.config.TTL)
	result := &IssueResult{Mobile: normalized, ExpiresAt: expiresAt}

	admin, err := s.admins.FindByMobile(ctx, normalized)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up admin by mobile: %w", err)
	}
	if admin == nil || !admin.IsApproved() {
		s.log.Info("otp requested for unknown or unapproved mobile", logger.Mobile(normalized))
		return result, nil
	}

	if s.config.ResendCooldown > 0 {
		last, err := s.otps.LastByMobile(ctx, normalized)
		if err != nil {
			return nil, fmt.Errorf("failed to check resend cooldown: %w", err)
		}
		if last != nil && !models.CanResend(last.CreatedAt, s.config.ResendCooldown) {
			wait := s.config.ResendCooldown - time.Since(last.CreatedAt)
			return nil, fmt.Errorf("%w: a new code can be requested in %ds", ErrRateLimited, int(wait.Seconds())+1)
		}
	}

	code, err := s.generateCode(s.config.Length)
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	challenge := &models.OTPChallenge{
		Mobile:    normalized,
		CodeHash:  crypto.HashOTP(normalized, code),
		ExpiresAt: expiresAt,
	}
	if err := s.otps.Issue(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to store otp challenge: %w", err)
	}

	message := fmt.Sprintf("Your admin login code is %s. It expires in %d minutes.", code, int(s.config.TTL.Minutes()))
	if err := s.sms.SendSMS(ctx, normalized, message); err != nil {
		// An undelivered code must not stay verifiable
		if invErr := s.otps.Invalidate(context.WithoutCancel(ctx), challenge.ID); invErr != nil {
			s.log.Error("failed to invalidate undelivered challenge", zap.Uint("challenge_id", challenge.ID), zap.Error(invErr))
		}
		return nil, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	s.log.Info("otp issued", logger.Mobile(normalized), zap.Time("expires_at", expiresAt))
	return result, nil
}

// Verify consumes the active code for mobile and resolves the owning approved account.
// Wrong, expired and already consumed codes are indistinguishable to the caller.
func (s *OTPService) Verify(ctx context.Context, mobile, code string) (*models.AdminUser, error) {
	normalized, err := validators.NormalizeMobile(mobile)
	if err != nil {
		return nil, validationFailed(err)
	}
	if err := validators.ValidateOTPCode(code, s.config.Length); err != nil {
		return nil, validationFailed(err)
	}

	consumed, err := s.otps.Consume(ctx, normalized, crypto.HashOTP(normalized, code))
	if err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if !consumed {
		s.log.Info("otp verification failed", logger.Mobile(normalized))
		return nil, ErrAuthenticationFailed
	}

	admin, err := s.admins.FindByMobile(ctx, normalized)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to resolve admin by mobile: %w", err)
	}
	if !admin.IsApproved() {
		return nil, ErrAuthenticationFailed
	}

	return admin, nil
}

// CleanupExpired deletes challenges that are past their expiry
func (s *OTPService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.otps.CleanupExpired(ctx, time.Now().UTC())
}
