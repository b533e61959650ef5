package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Mathuja991/Mathavam-sub001/internal/availability"
	"github.com/Mathuja991/Mathavam-sub001/internal/config"
	redisclient "github.com/Mathuja991/Mathavam-sub001/internal/redis"
	"github.com/Mathuja991/Mathavam-sub001/internal/schedule"
)

// BookRequest carries everything needed to hold a slot for a patient.
type BookRequest struct {
	PractitionerID string
	PatientName    string
	Date           string
	StartTime      string
	EndTime        string
	Note           string
}

func (r BookRequest) validate() error {
	switch {
	case r.PractitionerID == "":
		return fmt.Errorf("%w: practitioner id is required", ErrValidation)
	case r.PatientName == "":
		return fmt.Errorf("%w: patient name is required", ErrValidation)
	case !schedule.ValidDate(r.Date):
		return fmt.Errorf("%w: appointment date must be YYYY-MM-DD", ErrValidation)
	case !availability.ValidTimeOfDay(r.StartTime) || !availability.ValidTimeOfDay(r.EndTime):
		return fmt.Errorf("%w: times must be HH:MM in 24-hour format", ErrValidation)
	case r.StartTime >= r.EndTime:
		return fmt.Errorf("%w: start time must be before end time", ErrValidation)
	}
	return nil
}

type Service struct {
	repo   Repository
	locker redisclient.Locker
	cfg    config.Config
	log    zerolog.Logger

	now func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, cfg config.Config, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// Book reserves (practitioner, date, start) for a patient. The locker keeps
// concurrent requests for the same slot from racing through the existence
// check; the storage unique index catches whatever still slips through, and
// a duplicate appointment number is reissued and retried.
func (s *Service) Book(ctx context.Context, req BookRequest) (*Appointment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var created *Appointment

	err := s.locker.WithBookingLock(ctx, req.PractitionerID, req.Date, req.StartTime, func(lockCtx context.Context) error {
		existing, err := s.repo.FindActive(lockCtx, req.PractitionerID, req.Date, req.StartTime)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			return fmt.Errorf("check active appointment: %w", err)
		}
		if existing != nil {
			return ErrSlotAlreadyBooked
		}

		// Numbers are scoped to the appointment's calendar day, so a day's
		// appointments read as APT-YYYYMMDD-001, -002, ... in booking order.
		segment := NumberDateSegment(req.Date)

		retries := s.cfg.NumberRetryLimit
		if retries <= 0 {
			retries = 1
		}
		for attempt := 1; attempt <= retries; attempt++ {
			latest, err := s.repo.MaxNumberForDate(lockCtx, segment)
			if err != nil {
				return fmt.Errorf("read latest appointment number: %w", err)
			}
			number, err := NextNumber(latest, segment)
			if err != nil {
				return fmt.Errorf("issue appointment number: %w", err)
			}

			appt := &Appointment{
				ID:                uuid.New(),
				AppointmentNumber: number,
				PractitionerID:    req.PractitionerID,
				PatientName:       req.PatientName,
				AppointmentDate:   req.Date,
				StartTime:         req.StartTime,
				EndTime:           req.EndTime,
				Note:              req.Note,
				Status:            StatusUpcoming,
			}

			err = s.repo.Insert(lockCtx, appt)
			if errors.Is(err, ErrNumberTaken) {
				s.log.Warn().Str("number", number).Int("attempt", attempt).
					Msg("appointment number collision, reissuing")
				continue
			}
			if err != nil {
				return err
			}

			created = appt
			return nil
		}

		return fmt.Errorf("appointment number retries exhausted: %w", ErrNumberTaken)
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	s.log.Info().
		Str("appointment_number", created.AppointmentNumber).
		Str("practitioner_id", created.PractitionerID).
		Str("date", created.AppointmentDate).
		Str("start_time", created.StartTime).
		Msg("appointment booked")

	return created, nil
}

// sweep rewrites every pending/upcoming appointment whose clinic-local date
// has fully elapsed to completed. It runs ahead of every read so callers
// never observe a stale status.
func (s *Service) sweep(ctx context.Context) error {
	today := schedule.LocalDate(s.now(), s.cfg.ClinicUTCOffset)
	n, err := s.repo.CompleteElapsed(ctx, today)
	if err != nil {
		return fmt.Errorf("lifecycle sweep: %w", err)
	}
	if n > 0 {
		s.log.Info().Int64("completed", n).Str("today", today).Msg("lifecycle sweep applied")
	}
	return nil
}

// List returns appointments matching the filter, sweep applied.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Appointment, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter)
}

// Get returns one appointment, sweep applied.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Cancel releases the appointment's slot. Cancelling twice reports
// ErrAlreadyCancelled; a completed appointment cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch a.Status {
	case StatusCancelled:
		return nil, ErrAlreadyCancelled
	case StatusCompleted:
		return nil, ErrInvalidTransition
	}

	updated, err := s.repo.UpdateStatus(ctx, id, []Status{StatusPending, StatusUpcoming}, StatusCancelled)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// Lost a race with another transition; re-read for a precise answer.
			current, getErr := s.repo.GetByID(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			if current.Status == StatusCancelled {
				return nil, ErrAlreadyCancelled
			}
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.log.Info().Str("appointment_number", updated.AppointmentNumber).Msg("appointment cancelled")
	return updated, nil
}

var allStatuses = []Status{StatusPending, StatusUpcoming, StatusCompleted, StatusCancelled}

// OverrideStatus is the administrative escape hatch across the four states.
// Reactivating a cancelled appointment fails with ErrSlotAlreadyBooked if the
// slot has been rebooked in the meantime.
func (s *Service) OverrideStatus(ctx context.Context, id uuid.UUID, raw string) (*Appointment, error) {
	target, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, allStatuses, target)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointment_number", updated.AppointmentNumber).
		Str("status", string(target)).
		Msg("appointment status overridden")
	return updated, nil
}

// Calendar projects the practitioner's recurring availability into concrete
// dates and annotates each with its current booking load.
func (s *Service) Calendar(ctx context.Context, practitionerID string, slots []availability.Slot, window int) ([]schedule.ProjectedDay, error) {
	if window <= 0 {
		window = s.cfg.LookaheadDays
	}

	days := schedule.Project(s.now(), window, s.cfg.ClinicUTCOffset, slots)
	if len(days) == 0 {
		return days, nil
	}

	dates := make([]string, len(days))
	for i, d := range days {
		dates[i] = d.Date
	}

	counts, err := s.repo.CountActiveByDate(ctx, practitionerID, dates)
	if err != nil {
		return nil, fmt.Errorf("annotate calendar: %w", err)
	}
	for i := range days {
		days[i].AppointmentCount = counts[days[i].Date]
	}
	return days, nil
}
