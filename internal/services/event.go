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

type eventService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.ParticipantRepository
	userRepo        domain.UserRepository
	contextTimeout  time.Duration
	now             func() time.Time
	newID           func() string
}

func NewEventService(eventRepo domain.EventRepository,
	participantRepo domain.ParticipantRepository,
	userRepo domain.UserRepository,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		contextTimeout:  timeout,
		now:             time.Now,
		newID:           uuid.NewString,
	}
}

func (s *eventService) Create(ctx context.Context, identity domain.Identity, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := authorize(ctx, s.userRepo, identity, domain.CapabilityManageEvents); err != nil {
		return nil, err
	}
	in, err := normalizeEventInput(in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	e := &domain.Event{ID: s.newID(), CreatedAt: now}
	applyEventInput(e, in, now)
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

func (s *eventService) Update(ctx context.Context, identity domain.Identity, eventID string, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := authorize(ctx, s.userRepo, identity, domain.CapabilityManageEvents); err != nil {
		return nil, err
	}
	in, err := normalizeEventInput(in)
	if err != nil {
		return nil, err
	}
	e, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	updated := *e
	applyEventInput(&updated, in, s.now())
	if err := s.eventRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return &updated, nil
}

// Delete removes an event; its registrations are removed with it.
func (s *eventService) Delete(ctx context.Context, identity domain.Identity, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := authorize(ctx, s.userRepo, identity, domain.CapabilityManageEvents); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) Get(ctx context.Context, identity domain.Identity, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := resolveUser(ctx, s.userRepo, identity); err != nil {
		return nil, err
	}
	return s.getEvent(ctx, eventID)
}

func (s *eventService) List(ctx context.Context, identity domain.Identity, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := resolveUser(ctx, s.userRepo, identity); err != nil {
		return nil, 0, err
	}
	events, total, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

// ListSummaries returns every event with its registration count. Counts come from one grouped
// query rather than one lookup per event.
func (s *eventService) ListSummaries(ctx context.Context, identity domain.Identity) ([]*domain.EventSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := authorize(ctx, s.userRepo, identity, domain.CapabilityViewDashboard); err != nil {
		return nil, err
	}
	events, _, err := s.eventRepo.List(ctx, domain.PaginationParams{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	counts, err := s.participantRepo.CountByEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}

	summaries := make([]*domain.EventSummary, 0, len(events))
	for _, e := range events {
		summaries = append(summaries, &domain.EventSummary{Event: e, RegisteredCount: counts[e.ID]})
	}
	return summaries, nil
}

func (s *eventService) getEvent(ctx context.Context, id string) (*domain.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func normalizeEventInput(in domain.EventInput) (domain.EventInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.AgeGroup = strings.TrimSpace(in.AgeGroup)

	var problems []string
	if in.Name == "" {
		problems = append(problems, "name is required")
	}
	if in.Date.IsZero() {
		problems = append(problems, "date is required")
	}
	if in.Capacity != nil && *in.Capacity <= 0 {
		problems = append(problems, "capacity must be positive")
	}
	if in.Price != nil && *in.Price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if len(problems) > 0 {
		return in, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(problems, "; "))
	}
	in.Date = domain.DateOnly(in.Date)
	return in, nil
}

func applyEventInput(e *domain.Event, in domain.EventInput, now time.Time) {
	e.Name = in.Name
	e.Date = in.Date
	e.Description = in.Description
	e.Location = in.Location
	e.Capacity = in.Capacity
	e.AgeGroup = in.AgeGroup
	e.Price = in.Price
	e.UpdatedAt = now
}
