package domain

import (
	"context"
	"time"
)

// ParticipantStatus is the lifecycle state of a registration.
type ParticipantStatus string

const (
	StatusPending   ParticipantStatus = "PENDING"
	StatusConfirmed ParticipantStatus = "CONFIRMED"
)

// Valid reports whether s is a known status.
func (s ParticipantStatus) Valid() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Participant is a single child's registration for one event, owned by the registering guardian.
type Participant struct {
	ID               string
	UserID           string
	EventID          string
	ChildName        string
	RegistrationDate time.Time
	Status           ParticipantStatus

	ChildAge              *int
	Allergies             *string
	EmergencyContact      *string
	NeedsFood             *bool
	MedicalConcerns       *string
	AdditionalInformation *string

	CreatedAt time.Time
}

// RegisterInput is the caller-supplied part of a registration.
// Nil optional fields are stored as unset.
type RegisterInput struct {
	EventID               string
	ChildName             string
	ChildAge              *int
	Allergies             *string
	EmergencyContact      *string
	NeedsFood             *bool
	MedicalConcerns       *string
	AdditionalInformation *string
}

// NewParticipant builds a PENDING participant registered on the calendar date of now.
func NewParticipant(id, userID string, in RegisterInput, now time.Time) *Participant {
	return &Participant{
		ID:                    id,
		UserID:                userID,
		EventID:               in.EventID,
		ChildName:             in.ChildName,
		RegistrationDate:      DateOnly(now),
		Status:                StatusPending,
		ChildAge:              in.ChildAge,
		Allergies:             in.Allergies,
		EmergencyContact:      in.EmergencyContact,
		NeedsFood:             in.NeedsFood,
		MedicalConcerns:       in.MedicalConcerns,
		AdditionalInformation: in.AdditionalInformation,
		CreatedAt:             now,
	}
}

// RegistrationTx exposes the participant operations available while an event row is locked.
type RegistrationTx interface {
	CountByEventAndUser(ctx context.Context, eventID, userID string) (int, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
	Create(ctx context.Context, p *Participant) error
}

// ParticipantRepository defines storage operations for participants.
type ParticipantRepository interface {
	// WithEventLock locks the event row and runs fn inside one transaction, committing only
	// when fn returns nil. It returns ErrNotFound when the event does not exist.
	WithEventLock(ctx context.Context, eventID string, fn func(event *Event, tx RegistrationTx) error) error
	GetByID(ctx context.Context, id string) (*Participant, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Participant, error)
	ListByUserID(ctx context.Context, userID string) ([]*Participant, error)
	UpdateStatus(ctx context.Context, id string, status ParticipantStatus) error
	Delete(ctx context.Context, id string) error
	// CountByEvents returns the number of participants per event id; events without
	// registrations are absent from the map.
	CountByEvents(ctx context.Context) (map[string]int, error)
}

// ParticipantService defines the registration workflow.
type ParticipantService interface {
	Register(ctx context.Context, identity Identity, in RegisterInput) (*Participant, error)
	Cancel(ctx context.Context, identity Identity, participantID string) error
	ListForEvent(ctx context.Context, identity Identity, eventID string) ([]*RegistrationView, error)
	ListForCurrentUser(ctx context.Context, identity Identity) ([]*RegistrationView, error)
	SetStatus(ctx context.Context, identity Identity, participantID string, status ParticipantStatus) (*Participant, error)
}
