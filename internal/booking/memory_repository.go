package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is a mutex-guarded in-memory Repository that enforces the
// same uniqueness rules as the Postgres schema: one active appointment per
// (practitioner, date, start time) and globally unique appointment numbers.
// It backs handler tests and the demo tooling.
type MemoryRepository struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]Appointment
	numbers      map[string]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		appointments: make(map[uuid.UUID]Appointment),
		numbers:      make(map[string]uuid.UUID),
	}
}

// activeHolder returns the id of the non-cancelled appointment holding the
// slot, excluding self. Callers hold the lock.
func (r *MemoryRepository) activeHolder(practitionerID, date, startTime string, self uuid.UUID) (uuid.UUID, bool) {
	for id, a := range r.appointments {
		if id == self {
			continue
		}
		if a.PractitionerID == practitionerID &&
			a.AppointmentDate == date &&
			a.StartTime == startTime &&
			a.Status.Active() {
			return id, true
		}
	}
	return uuid.Nil, false
}

func (r *MemoryRepository) Insert(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.numbers[a.AppointmentNumber]; taken {
		return ErrNumberTaken
	}
	if a.Status.Active() {
		if _, held := r.activeHolder(a.PractitionerID, a.AppointmentDate, a.StartTime, a.ID); held {
			return ErrSlotAlreadyBooked
		}
	}

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	r.appointments[a.ID] = *a
	r.numbers[a.AppointmentNumber] = a.ID
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) List(_ context.Context, filter ListFilter) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Appointment
	for _, a := range r.appointments {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.PractitionerID != "" && a.PractitionerID != filter.PractitionerID {
			continue
		}
		if filter.PatientName != "" && a.PatientName != filter.PatientName {
			continue
		}
		result = append(result, a)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].AppointmentDate != result[j].AppointmentDate {
			return result[i].AppointmentDate < result[j].AppointmentDate
		}
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime < result[j].StartTime
		}
		return result[i].AppointmentNumber < result[j].AppointmentNumber
	})

	return result, nil
}

func (r *MemoryRepository) FindActive(_ context.Context, practitionerID, date, startTime string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.activeHolder(practitionerID, date, startTime, uuid.Nil)
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	a := r.appointments[id]
	return &a, nil
}

func (r *MemoryRepository) MaxNumberForDate(_ context.Context, dateSegment string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefix := numberPrefix + "-" + dateSegment + "-"
	best := ""
	bestSeq := 0
	for number := range r.numbers {
		if len(number) < len(prefix) || number[:len(prefix)] != prefix {
			continue
		}
		seq, err := SequenceOf(number)
		if err != nil {
			continue
		}
		if seq > bestSeq {
			bestSeq = seq
			best = number
		}
	}
	return best, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id uuid.UUID, from []Status, to Status) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}

	matched := false
	for _, st := range from {
		if a.Status == st {
			matched = true
			break
		}
	}
	if !matched {
		return nil, ErrAppointmentNotFound
	}

	if to.Active() && !a.Status.Active() {
		// Reactivating may collide with a booking made after cancellation.
		if _, held := r.activeHolder(a.PractitionerID, a.AppointmentDate, a.StartTime, id); held {
			return nil, ErrSlotAlreadyBooked
		}
	}

	a.Status = to
	a.UpdatedAt = time.Now()
	r.appointments[id] = a
	return &a, nil
}

func (r *MemoryRepository) CompleteElapsed(_ context.Context, today string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, a := range r.appointments {
		if (a.Status == StatusPending || a.Status == StatusUpcoming) && a.AppointmentDate < today {
			a.Status = StatusCompleted
			a.UpdatedAt = time.Now()
			r.appointments[id] = a
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) CountActiveByDate(_ context.Context, practitionerID string, dates []string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(dates))
	for _, d := range dates {
		wanted[d] = true
	}

	counts := make(map[string]int)
	for _, a := range r.appointments {
		if a.PractitionerID == practitionerID && a.Status.Active() && wanted[a.AppointmentDate] {
			counts[a.AppointmentDate]++
		}
	}
	return counts, nil
}
