package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"youthevents/internal/delivery/http/helpers"
	"youthevents/internal/domain"
)

// EventRequest is the request body for POST /events and PUT /events/{id}.
// PUT replaces every field; an omitted capacity makes the event unlimited.
type EventRequest struct {
	Name        string   `json:"name"`
	Date        string   `json:"date" example:"2026-07-04"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Capacity    *int     `json:"capacity,omitempty"`
	AgeGroup    string   `json:"ageGroup"`
	Price       *float64 `json:"price,omitempty"`
}

// Validate implements Validator.
func (req EventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name is required")
	}
	if req.Date == "" {
		errs = append(errs, "date is required")
	} else if _, err := time.Parse(domain.DateLayout, req.Date); err != nil {
		errs = append(errs, "date must be formatted YYYY-MM-DD")
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		errs = append(errs, "capacity must be positive")
	}
	if req.Price != nil && *req.Price < 0 {
		errs = append(errs, "price must not be negative")
	}
	return errs
}

func (req EventRequest) toInput() domain.EventInput {
	date, _ := time.Parse(domain.DateLayout, req.Date)
	return domain.EventInput{
		Name:        req.Name,
		Date:        date,
		Description: req.Description,
		Location:    req.Location,
		Capacity:    req.Capacity,
		AgeGroup:    req.AgeGroup,
		Price:       req.Price,
	}
}

// EventResponse is an event as returned by the API.
type EventResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Capacity    *int      `json:"capacity"`
	AgeGroup    string    `json:"ageGroup"`
	Price       *float64  `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Date:        e.Date.Format(domain.DateLayout),
		Description: e.Description,
		Location:    e.Location,
		Capacity:    e.Capacity,
		AgeGroup:    e.AgeGroup,
		Price:       e.Price,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// EventSuccessResponse is the success envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  EventResponse     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsResponse is the data of GET /events.
type ListEventsResponse struct {
	Items      []EventResponse        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success envelope for GET /events.
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// EventSummaryResponse is one dashboard row.
type EventSummaryResponse struct {
	Event           EventResponse `json:"event"`
	RegisteredCount int           `json:"registeredCount"`
}

// EventSummariesSuccessResponse is the success envelope for GET /events/summary.
type EventSummariesSuccessResponse struct {
	Data  []EventSummaryResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates a single-day event. id and timestamps are server-generated. Administrators only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	e, err := c.Service.Create(r.Context(), identity, req.toInput())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, newEventResponse(e))
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	e, err := c.Service.Get(r.Context(), identity, id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newEventResponse(e))
}

// ListEvents godoc
// @Summary List events
// @Description Returns events ordered by date, paginated.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param page_size query int false "Page size (max 100)" default(20)
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.List(r.Context(), identity, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	items := make([]EventResponse, 0, len(events))
	for _, e := range events {
		items = append(items, newEventResponse(e))
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// UpdateEvent godoc
// @Summary Replace an event
// @Description Replaces every editable field of the event. Administrators only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param event body EventRequest true "Event data"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	e, err := c.Service.Update(r.Context(), identity, id, req.toInput())
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newEventResponse(e))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event together with its registrations. Administrators only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data.message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := helpers.PathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), identity, id); err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.MessageResponse{Message: "Event deleted successfully"})
}

// ListSummaries godoc
// @Summary Dashboard of events with registration counts
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.EventSummariesSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/summary [get]
func (c *EventController) ListSummaries(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	summaries, err := c.Service.ListSummaries(r.Context(), identity)
	if err != nil {
		writeServiceError(w, r, c.Logger, err)
		return
	}
	out := make([]EventSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, EventSummaryResponse{Event: newEventResponse(s.Event), RegisteredCount: s.RegisteredCount})
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, out)
}
