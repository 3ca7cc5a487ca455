package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"youthevents/internal/domain"
)

type participantService struct {
	participantRepo domain.ParticipantRepository
	eventRepo       domain.EventRepository
	userRepo        domain.UserRepository
	contextTimeout  time.Duration
	now             func() time.Time
	newID           func() string
}

// NewParticipantService returns the registration workflow backed by the given repositories.
func NewParticipantService(
	participantRepo domain.ParticipantRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		userRepo:        userRepo,
		contextTimeout:  timeout,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

// Register enrols a child for an event. The duplicate check, the capacity check and the insert run
// under a lock on the event row, so two guardians racing for the last place cannot both succeed.
func (s *participantService) Register(ctx context.Context, identity domain.Identity, in domain.RegisterInput) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	in.EventID = strings.TrimSpace(in.EventID)
	in.ChildName = strings.TrimSpace(in.ChildName)
	if in.EventID == "" || in.ChildName == "" {
		return nil, fmt.Errorf("%w: eventId and childName are required", domain.ErrInvalidInput)
	}

	user, err := resolveUser(ctx, s.userRepo, identity)
	if err != nil {
		return nil, err
	}

	var created *domain.Participant
	err = s.participantRepo.WithEventLock(ctx, in.EventID, func(event *domain.Event, tx domain.RegistrationTx) error {
		existing, err := tx.CountByEventAndUser(ctx, event.ID, user.ID)
		if err != nil {
			return fmt.Errorf("%w: count user registrations: %w", domain.ErrRegistrationFailed, err)
		}
		if existing > 0 {
			return domain.ErrDuplicateRegistration
		}

		if event.Capacity != nil {
			count, err := tx.CountByEvent(ctx, event.ID)
			if err != nil {
				return fmt.Errorf("%w: count event registrations: %w", domain.ErrRegistrationFailed, err)
			}
			if !event.HasCapacityFor(count) {
				return domain.ErrEventFull
			}
		}

		p := domain.NewParticipant(s.newID(), user.ID, in, s.now())
		if err := tx.Create(ctx, p); err != nil {
			return fmt.Errorf("%w: insert participant: %w", domain.ErrRegistrationFailed, err)
		}
		created = p
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateRegistration),
			errors.Is(err, domain.ErrEventFull),
			errors.Is(err, domain.ErrRegistrationFailed):
			return nil, err
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ErrEventNotFound
		default:
			return nil, fmt.Errorf("%w: %w", domain.ErrRegistrationFailed, err)
		}
	}
	return created, nil
}

// Cancel deletes a registration owned by the caller, unless its event is already in the past.
func (s *participantService) Cancel(ctx context.Context, identity domain.Identity, participantID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := resolveUser(ctx, s.userRepo, identity)
	if err != nil {
		return err
	}
	p, err := s.getParticipant(ctx, participantID)
	if err != nil {
		return err
	}
	if p.UserID != user.ID {
		return domain.ErrForbidden
	}

	event, err := s.getEvent(ctx, p.EventID)
	if err != nil {
		return err
	}
	if domain.DateOnly(event.Date).Before(domain.DateOnly(s.now())) {
		return domain.ErrEventAlreadyOccurred
	}

	if err := s.participantRepo.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrParticipantNotFound
		}
		return fmt.Errorf("delete participant: %w", err)
	}
	return nil
}

// ListForEvent returns the full roster of an event. Only callers allowed to view rosters may call it.
func (s *participantService) ListForEvent(ctx context.Context, identity domain.Identity, eventID string) ([]*domain.RegistrationView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := authorize(ctx, s.userRepo, identity, domain.CapabilityViewRoster); err != nil {
		return nil, err
	}
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	participants, err := s.participantRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants by event: %w", err)
	}

	views := make([]*domain.RegistrationView, 0, len(participants))
	for _, p := range participants {
		views = append(views, domain.NewRegistrationView(p, event))
	}
	return views, nil
}

// ListForCurrentUser returns the caller's registrations, newest first, each with its event.
func (s *participantService) ListForCurrentUser(ctx context.Context, identity domain.Identity) ([]*domain.RegistrationView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := resolveUser(ctx, s.userRepo, identity)
	if err != nil {
		return nil, err
	}
	participants, err := s.participantRepo.ListByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list participants by user: %w", err)
	}

	events := make(map[string]*domain.Event)
	views := make([]*domain.RegistrationView, 0, len(participants))
	for _, p := range participants {
		event, ok := events[p.EventID]
		if !ok {
			event, err = s.getEvent(ctx, p.EventID)
			if err != nil {
				return nil, err
			}
			events[p.EventID] = event
		}
		views = append(views, domain.NewRegistrationView(p, event))
	}
	return views, nil
}

// SetStatus moves a registration between PENDING and CONFIRMED.
func (s *participantService) SetStatus(ctx context.Context, identity domain.Identity, participantID string, status domain.ParticipantStatus) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be PENDING or CONFIRMED", domain.ErrInvalidInput)
	}
	if _, err := authorize(ctx, s.userRepo, identity, domain.CapabilityManageRegistrations); err != nil {
		return nil, err
	}
	p, err := s.getParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if err := s.participantRepo.UpdateStatus(ctx, p.ID, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("update participant status: %w", err)
	}
	p.Status = status
	return p, nil
}

func (s *participantService) getParticipant(ctx context.Context, id string) (*domain.Participant, error) {
	p, err := s.participantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return p, nil
}

func (s *participantService) getEvent(ctx context.Context, id string) (*domain.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}
