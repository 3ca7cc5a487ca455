package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"youthevents/internal/delivery/http/helpers"
	"youthevents/internal/delivery/http/middleware"
	"youthevents/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var testIdentity = domain.Identity{ExternalID: "uid-1", Email: "parent@example.com"}

const (
	eventUUID       = "6f1c2f56-8a55-4c59-9a0e-6f1f5d1c0a01"
	participantUUID = "0b7e5c3a-1d2e-4f60-8b9a-2c3d4e5f6a7b"
	userUUID        = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)

// newRequest builds a request carrying testIdentity unless anonymous is set, with path values applied.
func newRequest(method, target string, body any, anonymous bool, pathValues map[string]string) *http.Request {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if !anonymous {
		req = req.WithContext(middleware.SetIdentity(req.Context(), testIdentity))
	}
	return req
}

// decodeEnvelope decodes the response envelope, unmarshalling data into dest when non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) *helpers.APIError {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	if dest != nil && env.Error == nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env.Error
}

// fakeParticipantService implements domain.ParticipantService for handler tests.
type fakeParticipantService struct {
	err error

	registerResult  *domain.Participant
	setStatusResult *domain.Participant
	views           []*domain.RegistrationView

	lastIdentity domain.Identity
	lastInput    domain.RegisterInput
	lastID       string
	lastStatus   domain.ParticipantStatus
}

func (f *fakeParticipantService) Register(_ context.Context, identity domain.Identity, in domain.RegisterInput) (*domain.Participant, error) {
	f.lastIdentity, f.lastInput = identity, in
	if f.err != nil {
		return nil, f.err
	}
	return f.registerResult, nil
}

func (f *fakeParticipantService) Cancel(_ context.Context, identity domain.Identity, id string) error {
	f.lastIdentity, f.lastID = identity, id
	return f.err
}

func (f *fakeParticipantService) ListForEvent(_ context.Context, identity domain.Identity, eventID string) ([]*domain.RegistrationView, error) {
	f.lastIdentity, f.lastID = identity, eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.views, nil
}

func (f *fakeParticipantService) ListForCurrentUser(_ context.Context, identity domain.Identity) ([]*domain.RegistrationView, error) {
	f.lastIdentity = identity
	if f.err != nil {
		return nil, f.err
	}
	return f.views, nil
}

func (f *fakeParticipantService) SetStatus(_ context.Context, identity domain.Identity, id string, status domain.ParticipantStatus) (*domain.Participant, error) {
	f.lastIdentity, f.lastID, f.lastStatus = identity, id, status
	if f.err != nil {
		return nil, f.err
	}
	return f.setStatusResult, nil
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err       error
	event     *domain.Event
	events    []*domain.Event
	total     int
	summaries []*domain.EventSummary

	lastID     string
	lastInput  domain.EventInput
	lastParams domain.PaginationParams
}

func (f *fakeEventService) Create(_ context.Context, _ domain.Identity, in domain.EventInput) (*domain.Event, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) Update(_ context.Context, _ domain.Identity, id string, in domain.EventInput) (*domain.Event, error) {
	f.lastID, f.lastInput = id, in
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) Delete(_ context.Context, _ domain.Identity, id string) error {
	f.lastID = id
	return f.err
}

func (f *fakeEventService) Get(_ context.Context, _ domain.Identity, id string) (*domain.Event, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) List(_ context.Context, _ domain.Identity, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.events, f.total, nil
}

func (f *fakeEventService) ListSummaries(_ context.Context, _ domain.Identity) ([]*domain.EventSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summaries, nil
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	err     error
	user    *domain.UserWithRoles
	created bool

	lastUserID string
	lastRole   domain.TeamRole
}

func (f *fakeUserService) Sync(_ context.Context, _ domain.Identity) (*domain.UserWithRoles, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	return f.user, f.created, nil
}

func (f *fakeUserService) GetMe(_ context.Context, _ domain.Identity) (*domain.UserWithRoles, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUserService) AssignTeamRole(_ context.Context, _ domain.Identity, userID string, role domain.TeamRole) (*domain.UserWithRoles, error) {
	f.lastUserID, f.lastRole = userID, role
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func (f *fakeUserService) SeedTeamRoles(context.Context) error { return f.err }
