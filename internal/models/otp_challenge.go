package models

import "time"

// OTPChallenge is a one-time code issued to a mobile number.
// Only the SHA-256 hash of the code is stored.
type OTPChallenge struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Mobile     string     `gorm:"type:varchar(20);not null;index:idx_otp_mobile_active,priority:1" json:"mobile"`
	CodeHash   string     `gorm:"type:varchar(64);not null" json:"-"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	Consumed   bool       `gorm:"not null;default:false;index:idx_otp_mobile_active,priority:2" json:"consumed"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (OTPChallenge) TableName() string {
	return "otp_challenges"
}

// IsExpired checks if the challenge has expired
func (o *OTPChallenge) IsExpired() bool {
	return time.Now().UTC().After(o.ExpiresAt)
}

// IsActive returns true if the challenge can still be verified
func (o *OTPChallenge) IsActive() bool {
	return !o.Consumed && !o.IsExpired()
}

// CanResend checks if the cooldown since the previous challenge has elapsed
func CanResend(lastCreatedAt time.Time, cooldown time.Duration) bool {
	return time.Since(lastCreatedAt) >= cooldown
}
