package domain

import (
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// EventSummaryView is the event as embedded in a registration response.
// swagger:model EventSummaryView
type EventSummaryView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Capacity    *int     `json:"capacity"`
	AgeGroup    string   `json:"ageGroup"`
	Price       *float64 `json:"price"`
}

// RegistrationView is the response shape of a participant together with its event.
// swagger:model RegistrationView
type RegistrationView struct {
	ID               string            `json:"id"`
	ChildFirstName   string            `json:"childFirstName"`
	ChildLastName    string            `json:"childLastName"`
	RegistrationDate string            `json:"registrationDate"`
	Status           ParticipantStatus `json:"status"`
	ChildAge         *int              `json:"childAge"`
	Allergies        *string           `json:"allergies"`
	EmergencyContact *string           `json:"emergencyContact"`
	NeedsFood        *bool             `json:"needsFood"`
	Event            *EventSummaryView `json:"event"`
}

// SplitChildName splits a full name into the first whitespace-delimited token and the
// remainder. "Alex Johnson Smith" gives ("Alex", "Johnson Smith"); "Alex" gives ("Alex", "").
func SplitChildName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	idx := strings.IndexFunc(full, isSpace)
	if idx < 0 {
		return full, ""
	}
	return full[:idx], strings.TrimSpace(full[idx:])
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// NewEventSummaryView maps a stored event onto its wire shape. Events are single-day, so the
// date is exposed as both start and end.
func NewEventSummaryView(e *Event) *EventSummaryView {
	if e == nil {
		return nil
	}
	date := formatDate(e.Date)
	return &EventSummaryView{
		ID:          e.ID,
		Title:       e.Name,
		StartDate:   date,
		EndDate:     date,
		Description: e.Description,
		Location:    e.Location,
		Capacity:    e.Capacity,
		AgeGroup:    e.AgeGroup,
		Price:       e.Price,
	}
}

// NewRegistrationView is the single projection from storage entities to RegistrationView.
func NewRegistrationView(p *Participant, e *Event) *RegistrationView {
	first, last := SplitChildName(p.ChildName)
	return &RegistrationView{
		ID:               p.ID,
		ChildFirstName:   first,
		ChildLastName:    last,
		RegistrationDate: formatDate(p.RegistrationDate),
		Status:           p.Status,
		ChildAge:         p.ChildAge,
		Allergies:        p.Allergies,
		EmergencyContact: p.EmergencyContact,
		NeedsFood:        p.NeedsFood,
		Event:            NewEventSummaryView(e),
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
