package availability

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// SlotInput is one recurring rule submitted by an administrator.
type SlotInput struct {
	Day       string
	StartTime string
	EndTime   string
}

// Service owns the per-practitioner recurring slot collections. Duplicate
// day/time pairs are stored as-is; nothing deduplicates them.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddSlots validates and appends the given rules for one practitioner.
func (s *Service) AddSlots(ctx context.Context, practitionerID string, inputs []SlotInput) ([]Slot, error) {
	if practitionerID == "" {
		return nil, fmt.Errorf("practitioner id is required")
	}

	slots := make([]Slot, 0, len(inputs))
	for _, in := range inputs {
		if !ValidDay(in.Day) {
			return nil, fmt.Errorf("slot %s %s-%s: %w", in.Day, in.StartTime, in.EndTime, ErrInvalidDay)
		}
		if err := ValidateRange(in.StartTime, in.EndTime); err != nil {
			return nil, fmt.Errorf("slot %s %s-%s: %w", in.Day, in.StartTime, in.EndTime, err)
		}
		slots = append(slots, Slot{
			ID:             uuid.New(),
			PractitionerID: practitionerID,
			Day:            in.Day,
			StartTime:      in.StartTime,
			EndTime:        in.EndTime,
		})
	}

	if err := s.repo.Append(ctx, slots); err != nil {
		return nil, fmt.Errorf("append slots: %w", err)
	}
	return slots, nil
}

// UpdateSlot rewrites a single rule's time range.
func (s *Service) UpdateSlot(ctx context.Context, id uuid.UUID, startTime, endTime string) (*Slot, error) {
	if err := ValidateRange(startTime, endTime); err != nil {
		return nil, err
	}
	return s.repo.UpdateTimes(ctx, id, startTime, endTime)
}

func (s *Service) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ClearAll removes every rule for a practitioner. Existing appointments are
// untouched: a booked slot stays valid even after its recurring rule goes away.
func (s *Service) ClearAll(ctx context.Context, practitionerID string) error {
	return s.repo.ClearAll(ctx, practitionerID)
}

func (s *Service) ListFor(ctx context.Context, practitionerID string) ([]Slot, error) {
	return s.repo.ListFor(ctx, practitionerID)
}

func (s *Service) ListForMany(ctx context.Context, practitionerIDs []string) (map[string][]Slot, error) {
	return s.repo.ListForMany(ctx, practitionerIDs)
}
