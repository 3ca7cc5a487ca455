package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youthevents/internal/domain"
)

func sampleUser(roles ...domain.TeamRole) *domain.UserWithRoles {
	return &domain.UserWithRoles{
		User: &domain.User{
			ID:          userUUID,
			ExternalID:  testIdentity.ExternalID,
			Email:       testIdentity.Email,
			DisplayName: "Pat",
			Type:        domain.UserTypeUser,
			CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		Roles: roles,
	}
}

func TestUserController_Sync(t *testing.T) {
	for _, created := range []bool{true, false} {
		svc := &fakeUserService{user: sampleUser(), created: created}
		rr := httptest.NewRecorder()

		NewUserController(testLogger, svc).Sync(rr, newRequest(http.MethodPost, "/api/users/sync", nil, false, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var got UserResponse
		require.Nil(t, decodeEnvelope(t, rr, &got))
		assert.Equal(t, userUUID, got.ID)
		assert.Equal(t, domain.UserTypeUser, got.UserType)
		assert.NotNil(t, got.Roles)
		assert.Empty(t, got.Roles)
	}
}

func TestUserController_Sync_Unauthenticated(t *testing.T) {
	rr := httptest.NewRecorder()

	NewUserController(testLogger, &fakeUserService{}).Sync(rr, newRequest(http.MethodPost, "/api/users/sync", nil, true, nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUserController_GetMe(t *testing.T) {
	t.Run("synced", func(t *testing.T) {
		svc := &fakeUserService{user: sampleUser(domain.TeamCoach)}
		rr := httptest.NewRecorder()

		NewUserController(testLogger, svc).GetMe(rr, newRequest(http.MethodGet, "/api/users/me", nil, false, nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var got UserResponse
		require.Nil(t, decodeEnvelope(t, rr, &got))
		assert.Equal(t, []domain.TeamRole{domain.TeamCoach}, got.Roles)
	})
	t.Run("never synced", func(t *testing.T) {
		rr := httptest.NewRecorder()

		NewUserController(testLogger, &fakeUserService{err: domain.ErrUserNotFound}).GetMe(rr, newRequest(http.MethodGet, "/api/users/me", nil, false, nil))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestUserController_AssignRole(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       any
		serviceErr error
		wantStatus int
	}{
		{name: "assigned", id: userUUID, body: map[string]string{"role": "TEAM_COACH"}, wantStatus: http.StatusOK},
		{name: "unknown role", id: userUUID, body: map[string]string{"role": "TEAM_CATERING"}, wantStatus: http.StatusBadRequest},
		{name: "invalid id", id: "me", body: map[string]string{"role": "TEAM_COACH"}, wantStatus: http.StatusBadRequest},
		{name: "forbidden", id: userUUID, body: map[string]string{"role": "TEAM_COACH"}, serviceErr: domain.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "target missing", id: userUUID, body: map[string]string{"role": "TEAM_COACH"}, serviceErr: domain.ErrUserNotFound, wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeUserService{err: tt.serviceErr, user: sampleUser(domain.TeamCoach)}
			rr := httptest.NewRecorder()

			NewUserController(testLogger, svc).AssignRole(rr, newRequest(http.MethodPost, "/api/users/"+tt.id+"/roles", tt.body, false, map[string]string{"id": tt.id}))

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userUUID, svc.lastUserID)
				assert.Equal(t, domain.TeamCoach, svc.lastRole)
			}
		})
	}
}
