package models

import "time"

// Role is the authorization level of an admin account
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// ParseRole returns the role for a recognised value, false otherwise
func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleAdmin, RoleSuperAdmin:
		return Role(value), true
	default:
		return "", false
	}
}

// IsValid reports whether r is one of the two recognised roles
func (r Role) IsValid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// AdminStatus is the approval state of an admin account
type AdminStatus string

const (
	AdminStatusPending  AdminStatus = "pending"
	AdminStatusApproved AdminStatus = "approved"
	AdminStatusRejected AdminStatus = "rejected"
)

// IsValid reports whether s is a known status
func (s AdminStatus) IsValid() bool {
	switch s {
	case AdminStatusPending, AdminStatusApproved, AdminStatusRejected:
		return true
	default:
		return false
	}
}

// AdminUser is a console account. Accounts are created out-of-band with status pending
// and only approved accounts may authenticate.
type AdminUser struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Username string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email    *string `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Name     string  `gorm:"type:varchar(150)" json:"name"`

	// Mobile maps an OTP subject to this account
	Mobile *string `gorm:"type:varchar(20);uniqueIndex" json:"mobile,omitempty"`

	// Password is a bcrypt hash
	Password string      `gorm:"type:varchar(255);not null" json:"-"`
	Status   AdminStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`

	// Role is authoritative. IsSuper is the legacy flag kept in agreement by SetRole.
	Role    *string `gorm:"type:varchar(20)" json:"role,omitempty"`
	IsSuper bool    `gorm:"not null;default:false" json:"isSuper"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (AdminUser) TableName() string {
	return "admin_users"
}

// EffectiveRole resolves the single authoritative role of the account.
// A non-empty explicit role wins even when it is not a known role;
// only a missing or empty role falls back to the legacy flag.
func (a *AdminUser) EffectiveRole() Role {
	if a.Role != nil && *a.Role != "" {
		return Role(*a.Role)
	}
	if a.IsSuper {
		return RoleSuperAdmin
	}
	return RoleAdmin
}

// SetRole sets the explicit role and the legacy flag together
func (a *AdminUser) SetRole(role Role) {
	value := string(role)
	a.Role = &value
	a.IsSuper = role == RoleSuperAdmin
}

// IsApproved returns true if the account may authenticate
func (a *AdminUser) IsApproved() bool {
	return a.Status == AdminStatusApproved
}

// DisplayName returns Name when set, Username otherwise
func (a *AdminUser) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Username
}
