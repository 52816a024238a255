package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/testutil"
)

func TestAdminUserHandler_List(t *testing.T) {
	s := newTestServer(t)

	w := s.get("/api/admin/admins", s.tokenFor(s.super))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp AdminListResponse
	decode(t, w, &resp)
	assert.Len(t, resp.Admins, 2)

	assert.Equal(t, http.StatusForbidden, s.get("/api/admin/admins", s.tokenFor(s.author)).Code)
	assert.Equal(t, http.StatusUnauthorized, s.get("/api/admin/admins", "").Code)
}

func TestAdminUserHandler_UpdateStatus(t *testing.T) {
	s := newTestServer(t)
	pending := testutil.CreateAdmin(t, s.db, testutil.AdminFixture{Username: "new", Status: models.AdminStatusPending})
	token := s.tokenFor(s.super)

	w := s.sendJSON(http.MethodPost, fmt.Sprintf("/api/admin/admins/%d/status", pending.ID), token, UpdateAdminStatusRequest{Status: "approved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp AdminStatusResponse
	decode(t, w, &resp)
	assert.Equal(t, models.AdminStatusApproved, resp.Admin.Status)

	w = s.sendJSON(http.MethodPost, fmt.Sprintf("/api/admin/admins/%d/status", s.super.ID), token, UpdateAdminStatusRequest{Status: "rejected"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	var denied ErrorResponse
	decode(t, w, &denied)
	assert.Equal(t, "you cannot change your own status", denied.Message)

	w = s.sendJSON(http.MethodPost, fmt.Sprintf("/api/admin/admins/%d/status", pending.ID), token, map[string]string{"status": "active"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.sendJSON(http.MethodPost, "/api/admin/admins/9999/status", token, UpdateAdminStatusRequest{Status: "rejected"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.sendJSON(http.MethodPost, fmt.Sprintf("/api/admin/admins/%d/status", pending.ID), s.tokenFor(s.author), UpdateAdminStatusRequest{Status: "rejected"})
	assert.Equal(t, http.StatusForbidden, w.Code, "plain admins are stopped by the route authorizer")
}
