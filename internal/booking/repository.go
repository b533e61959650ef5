package booking

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Status         Status
	PractitionerID string
	PatientName    string
}

// Repository contains all appointment persistence needed by the service.
//
// Insert and UpdateStatus must enforce the active-slot invariant: at most one
// non-cancelled appointment per (practitioner, date, start time). Violations
// surface as ErrSlotAlreadyBooked; a duplicate appointment number surfaces as
// ErrNumberTaken so the service can reissue and retry.
type Repository interface {
	Insert(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]Appointment, error)

	// Conflict detection
	FindActive(ctx context.Context, practitionerID, date, startTime string) (*Appointment, error)

	// Number generation
	MaxNumberForDate(ctx context.Context, dateSegment string) (string, error)

	// Lifecycle
	UpdateStatus(ctx context.Context, id uuid.UUID, from []Status, to Status) (*Appointment, error)
	CompleteElapsed(ctx context.Context, today string) (int64, error)

	// Calendar load annotation
	CountActiveByDate(ctx context.Context, practitionerID string, dates []string) (map[string]int, error)
}
