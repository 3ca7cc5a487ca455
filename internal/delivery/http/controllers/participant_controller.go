package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"youthevents/internal/delivery/http/helpers"
	"youthevents/internal/domain"
)

// RegisterRequest is the request body for POST /participants.
type RegisterRequest struct {
	EventID               string  `json:"eventId"`
	ChildName             string  `json:"childName"`
	ChildAge              *int    `json:"childAge,omitempty"`
	Allergies             *string `json:"allergies,omitempty"`
	EmergencyContact      *string `json:"emergencyContact,omitempty"`
	NeedsFood             *bool   `json:"needsFood,omitempty"`
	MedicalConcerns       *string `json:"medicalConcerns,omitempty"`
	AdditionalInformation *string `json:"additionalInformation,omitempty"`
}

// Validate implements Validator.
func (req RegisterRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.EventID) == "" {
		errs = append(errs, "eventId is required")
	} else if _, ok := helpers.CanonicalUUID(req.EventID); !ok {
		errs = append(errs, "eventId must be a valid UUID")
	}
	if strings.TrimSpace(req.ChildName) == "" {
		errs = append(errs, "childName is required")
	}
	if req.ChildAge != nil && *req.ChildAge < 0 {
		errs = append(errs, "childAge must not be negative")
	}
	return errs
}

// toInput assumes Validate passed, so EventID parses.
func (req RegisterRequest) toInput() domain.RegisterInput {
	eventID, _ := helpers.CanonicalUUID(req.EventID)
	return domain.RegisterInput{
		EventID:               eventID,
		ChildName:             req.ChildName,
		ChildAge:              req.ChildAge,
		Allergies:             req.Allergies,
		EmergencyContact:      req.EmergencyContact,
		NeedsFood:             req.NeedsFood,
		MedicalConcerns:       req.MedicalConcerns,
		AdditionalInformation: req.AdditionalInformation,
	}
}

// SetStatusRequest is the request body for PATCH /participants/{id}/status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (req SetStatusRequest) Validate() []string {
	if !domain.ParticipantStatus(req.Status).Valid() {
		return []string{"status must be PENDING or CONFIRMED"}
	}
	return nil
}

// ParticipantResponse is a stored registration.
type ParticipantResponse struct {
	ID                    string                   `json:"id"`
	UserID                string                   `json:"userId"`
	EventID               string                   `json:"eventId"`
	ChildName             string                   `json:"childName"`
	RegistrationDate      string                   `json:"registrationDate"`
	Status                domain.ParticipantStatus `json:"status"`
	ChildAge              *int                     `json:"childAge"`
	Allergies             *string                  `json:"allergies"`
	EmergencyContact      *string                  `json:"emergencyContact"`
	NeedsFood             *bool                    `json:"needsFood"`
	MedicalConcerns       *string                  `json:"medicalConcerns"`
	AdditionalInformation *string                  `json:"additionalInformation"`
	CreatedAt             time.Time                `json:"createdAt"`
}

func newParticipantResponse(p *domain.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:                    p.ID,
		UserID:                p.UserID,
		EventID:               p.EventID,
		ChildName:             p.ChildName,
		RegistrationDate:      p.RegistrationDate.Format(domain.DateLayout),
		Status:                p.Status,
		ChildAge:              p.ChildAge,
		Allergies:             p.Allergies,
		EmergencyContact:      p.EmergencyContact,
		NeedsFood:             p.NeedsFood,
		MedicalConcerns:       p.MedicalConcerns,
		AdditionalInformation: p.AdditionalInformation,
		CreatedAt:             p.CreatedAt,
	}
}

// ParticipantSuccessResponse is the success envelope for endpoints returning one registration.
type ParticipantSuccessResponse struct {
	Data  ParticipantResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// RegistrationListSuccessResponse is the success envelope for registration lists.
type RegistrationListSuccessResponse struct {
	Data  []*domain.RegistrationView `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

type ParticipantController struct {
	Logger  *slog.Logger
	Service domain.ParticipantService
}

func NewParticipantController(logger *slog.Logger, svc domain.ParticipantService) *ParticipantController {
	return &ParticipantController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a child for an event
// @Description Registers one child of the authenticated guardian. A guardian can hold one registration per event. New registrations are PENDING.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registration body RegisterRequest true "Registration"
// @Success 200 {object} controllers.ParticipantSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request, duplicate_registration or event_full"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (user or event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/participants [post]
func (c *ParticipantController) Register(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.Service.Register(r.Context(), identity, req.toInput())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newParticipantResponse(p))
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Deletes a registration owned by the caller. Registrations for events dated before today cannot be cancelled.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data.message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or event_already_occurred"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/participants/{id} [delete]
func (c *ParticipantController) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Cancel(r.Context(), identity, id); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.MessageResponse{Message: "Registration cancelled successfully"})
}

// ListMine godoc
// @Summary List my registrations
// @Description Returns the caller's registrations, newest first, each with its event.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.RegistrationListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/participants/me [get]
func (c *ParticipantController) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	views, err := c.Service.ListForCurrentUser(r.Context(), identity)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, views)
}

// ListForEvent godoc
// @Summary List an event's roster
// @Description Returns every registration of the event. Administrators only.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventId path string true "Event ID (UUID)"
// @Success 200 {object} controllers.RegistrationListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/participants/event/{eventId} [get]
func (c *ParticipantController) ListForEvent(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	eventID, ok := helpers.PathUUID(w, r, "eventId")
	if !ok {
		return
	}
	views, err := c.Service.ListForEvent(r.Context(), identity, eventID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, views)
}

// SetStatus godoc
// @Summary Change a registration's status
// @Description Moves a registration between PENDING and CONFIRMED. Administrators only.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID (UUID)"
// @Param status body SetStatusRequest true "New status"
// @Success 200 {object} controllers.ParticipantSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/participants/{id}/status [patch]
func (c *ParticipantController) SetStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req SetStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.Service.SetStatus(r.Context(), identity, id, domain.ParticipantStatus(req.Status))
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newParticipantResponse(p))
}
