package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

// TestAdminUserEffectiveRole checks that the explicit role is authoritative
func TestAdminUserEffectiveRole(t *testing.T) {
	tests := []struct {
		name    string
		role    *string
		isSuper bool
		want    Role
	}{
		{"explicit admin", strPtr("admin"), false, RoleAdmin},
		{"explicit super-admin", strPtr("super-admin"), false, RoleSuperAdmin},
		{"explicit admin wins over legacy flag", strPtr("admin"), true, RoleAdmin},
		{"no role, legacy super", nil, true, RoleSuperAdmin},
		{"no role, not super", nil, false, RoleAdmin},
		{"empty role falls back", strPtr(""), true, RoleSuperAdmin},
		{"unknown role is kept", strPtr("owner"), false, Role("owner")},
		{"unknown role wins over legacy flag", strPtr("editor"), true, Role("editor")},
		{"mis-cased role is kept", strPtr("Admin"), true, Role("Admin")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &AdminUser{Role: tt.role, IsSuper: tt.isSuper}
			assert.Equal(t, tt.want, a.EffectiveRole())
		})
	}
}

// TestAdminUserSetRole checks that the legacy flag follows the role
func TestAdminUserSetRole(t *testing.T) {
	a := &AdminUser{}

	a.SetRole(RoleSuperAdmin)
	assert.True(t, a.IsSuper)
	assert.Equal(t, RoleSuperAdmin, a.EffectiveRole())

	a.SetRole(RoleAdmin)
	assert.False(t, a.IsSuper)
	assert.Equal(t, RoleAdmin, a.EffectiveRole())
}

func TestParseRole(t *testing.T) {
	for _, v := range []string{"admin", "super-admin"} {
		r, ok := ParseRole(v)
		assert.True(t, ok, v)
		assert.Equal(t, Role(v), r)
	}
	for _, v := range []string{"", "Admin", "superadmin", "root"} {
		_, ok := ParseRole(v)
		assert.False(t, ok, v)
	}
}

func TestAdminStatus(t *testing.T) {
	tests := []struct {
		status   AdminStatus
		valid    bool
		approved bool
	}{
		{AdminStatusPending, true, false},
		{AdminStatusApproved, true, true},
		{AdminStatusRejected, true, false},
		{AdminStatus("active"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
			a := &AdminUser{Status: tt.status}
			assert.Equal(t, tt.approved, a.IsApproved())
		})
	}
}

func TestAdminUserDisplayName(t *testing.T) {
	assert.Equal(t, "jane", (&AdminUser{Username: "jane"}).DisplayName())
	assert.Equal(t, "Jane Doe", (&AdminUser{Username: "jane", Name: "Jane Doe"}).DisplayName())
}

func TestOTPChallengeIsActive(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name      string
		expiresAt time.Time
		consumed  bool
		want      bool
	}{
		{"fresh", now.Add(time.Minute), false, true},
		{"expired", now.Add(-time.Minute), false, false},
		{"consumed", now.Add(time.Minute), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &OTPChallenge{ExpiresAt: tt.expiresAt, Consumed: tt.consumed}
			assert.Equal(t, tt.want, o.IsActive())
		})
	}
}

func TestCanResend(t *testing.T) {
	assert.True(t, CanResend(time.Now().Add(-time.Minute), 30*time.Second))
	assert.False(t, CanResend(time.Now(), 30*time.Second))
	assert.True(t, CanResend(time.Now(), 0))
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "admin_users", AdminUser{}.TableName())
	assert.Equal(t, "otp_challenges", OTPChallenge{}.TableName())
	assert.Equal(t, "blogs", Blog{}.TableName())
	assert.Equal(t, "categories", Category{}.TableName())
	assert.Equal(t, "faqs", FAQ{}.TableName())
	assert.Equal(t, "comments", Comment{}.TableName())
}
