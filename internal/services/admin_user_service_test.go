package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/testutil"
)

func TestAdminUserService_List(t *testing.T) {
	db := testutil.NewDB(t)
	svc, err := NewAdminUserService(repositories.NewAdminRepository(db), nil, nil)
	require.NoError(t, err)

	testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "plain"})
	testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "legacy", Role: models.RoleSuperAdmin, LegacyOnly: true})

	admins, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, admins, 2)

	byName := map[string]AdminSummary{}
	for _, a := range admins {
		byName[a.Username] = a
	}
	assert.Equal(t, models.RoleAdmin, byName["plain"].Role)
	assert.False(t, byName["plain"].IsSuper)
	assert.Equal(t, models.RoleSuperAdmin, byName["legacy"].Role)
	assert.True(t, byName["legacy"].IsSuper)
}

func TestAdminUserService_UpdateStatus(t *testing.T) {
	db := testutil.NewDB(t)
	notifier := &fakeNotifier{}
	svc, err := NewAdminUserService(repositories.NewAdminRepository(db), notifier, testutil.NewLogger(t))
	require.NoError(t, err)
	ctx := context.Background()

	super := testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "root", Role: models.RoleSuperAdmin})
	plain := testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "plain"})
	pending := testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "new", Email: "new@example.com", Status: models.AdminStatusPending})

	updated, err := svc.UpdateStatus(ctx, super.ID, pending.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, models.AdminStatusApproved, updated.Status)
	require.Len(t, notifier.notified, 1)
	assert.Equal(t, pending.ID, notifier.notified[0].ID)

	_, err = svc.UpdateStatus(ctx, super.ID, pending.ID, "approved")
	require.NoError(t, err)
	assert.Len(t, notifier.notified, 1, "an unchanged status sends nothing")

	_, err = svc.UpdateStatus(ctx, super.ID, super.ID, "rejected")
	assert.ErrorIs(t, err, ErrAuthorizationFailed)

	_, err = svc.UpdateStatus(ctx, plain.ID, pending.ID, "rejected")
	assert.ErrorIs(t, err, ErrAuthorizationFailed)

	_, err = svc.UpdateStatus(ctx, super.ID, pending.ID, "active")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(ctx, super.ID, 9999, "rejected")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminUserService_NotificationFailureIsLogged(t *testing.T) {
	db := testutil.NewDB(t)
	log, logs := testutil.NewObservedLogger(zapcore.WarnLevel)
	notifier := &fakeNotifier{err: errors.New("ses throttled")}
	svc, err := NewAdminUserService(repositories.NewAdminRepository(db), notifier, log)
	require.NoError(t, err)

	super := testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "root", Role: models.RoleSuperAdmin})
	target := testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "target", Email: "t@example.com"})

	updated, err := svc.UpdateStatus(context.Background(), super.ID, target.ID, "rejected")
	require.NoError(t, err)
	assert.Equal(t, models.AdminStatusRejected, updated.Status)
	assert.Equal(t, 1, logs.FilterMessage("failed to notify admin of status change").Len())
}
