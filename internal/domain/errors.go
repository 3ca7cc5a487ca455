package domain

import (
	"errors"
	"fmt"
)

// Generic sentinels shared by repositories and services.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated is returned when a call carries no caller identity.
	ErrUnauthenticated = errors.New("user not authenticated")
)

// Resource-specific not-found errors. All of them match ErrNotFound with errors.Is.
var (
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrEventNotFound       = fmt.Errorf("event %w", ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("registration %w", ErrNotFound)
	ErrRoleNotFound        = fmt.Errorf("role %w", ErrNotFound)
)

// Business rejections of the registration workflow.
var (
	ErrDuplicateRegistration = errors.New("child already registered for this event")
	ErrEventFull             = errors.New("event is at full capacity")
	ErrEventAlreadyOccurred  = errors.New("cannot cancel registration for past events")
)

// ErrRegistrationFailed wraps unexpected persistence failures while registering.
var ErrRegistrationFailed = errors.New("failed to register for event")

// ErrDuplicateExternalID is returned when a user with the same identity-provider subject exists.
var ErrDuplicateExternalID = errors.New("user already exists for identity")
