package availability

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is a mutex-guarded in-memory Repository. It backs handler
// tests and the demo tooling; the Postgres repository is the production path.
type MemoryRepository struct {
	mu    sync.RWMutex
	slots map[uuid.UUID]Slot
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{slots: make(map[uuid.UUID]Slot)}
}

func (r *MemoryRepository) Append(_ context.Context, slots []Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, s := range slots {
		s.CreatedAt = now
		s.UpdatedAt = now
		r.slots[s.ID] = s
	}
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return &s, nil
}

func (r *MemoryRepository) UpdateTimes(_ context.Context, id uuid.UUID, startTime, endTime string) (*Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	s.StartTime = startTime
	s.EndTime = endTime
	s.UpdatedAt = time.Now()
	r.slots[id] = s
	return &s, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[id]; !ok {
		return ErrSlotNotFound
	}
	delete(r.slots, id)
	return nil
}

func (r *MemoryRepository) ClearAll(_ context.Context, practitionerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.slots {
		if s.PractitionerID == practitionerID {
			delete(r.slots, id)
		}
	}
	return nil
}

func (r *MemoryRepository) ListFor(ctx context.Context, practitionerID string) ([]Slot, error) {
	byPractitioner, err := r.ListForMany(ctx, []string{practitionerID})
	if err != nil {
		return nil, err
	}
	return byPractitioner[practitionerID], nil
}

func (r *MemoryRepository) ListForMany(_ context.Context, practitionerIDs []string) (map[string][]Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(practitionerIDs))
	for _, id := range practitionerIDs {
		wanted[id] = true
	}

	result := make(map[string][]Slot, len(practitionerIDs))
	for _, s := range r.slots {
		if wanted[s.PractitionerID] {
			result[s.PractitionerID] = append(result[s.PractitionerID], s)
		}
	}

	for _, slots := range result {
		sort.Slice(slots, func(i, j int) bool {
			if slots[i].Day != slots[j].Day {
				return slots[i].Day < slots[j].Day
			}
			return slots[i].StartTime < slots[j].StartTime
		})
	}

	return result, nil
}
