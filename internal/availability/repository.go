package availability

import (
	"context"

	"github.com/google/uuid"
)

// Repository contains all slot persistence needed by the store.
type Repository interface {
	Append(ctx context.Context, slots []Slot) error
	GetByID(ctx context.Context, id uuid.UUID) (*Slot, error)
	UpdateTimes(ctx context.Context, id uuid.UUID, startTime, endTime string) (*Slot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ClearAll(ctx context.Context, practitionerID string) error
	ListFor(ctx context.Context, practitionerID string) ([]Slot, error)
	ListForMany(ctx context.Context, practitionerIDs []string) (map[string][]Slot, error)
}
