package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSlotAlreadyBooked   = errors.New("slot already has an active appointment")
	ErrSlotBeingBooked     = errors.New("slot is currently being booked, please retry")
	ErrNumberTaken         = errors.New("appointment number already issued")
	ErrAlreadyCancelled    = errors.New("appointment is already cancelled")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidStatus       = errors.New("invalid appointment status")
	ErrValidation          = errors.New("invalid booking request")
)

// ParseStatus maps a wire value onto one of the four states.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusUpcoming, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Active reports whether the status still holds its slot. Only cancellation
// releases a slot; completed appointments keep theirs since the date is past.
func (s Status) Active() bool {
	return s != StatusCancelled
}

// Terminal states accept no further lifecycle transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment is the root aggregate. AppointmentDate and the time fields are
// clinic-local strings (YYYY-MM-DD and HH:MM); the date plus StartTime
// identify the booked slot.
type Appointment struct {
	ID                uuid.UUID
	AppointmentNumber string
	PractitionerID    string
	PatientName       string
	AppointmentDate   string
	StartTime         string
	EndTime           string
	Note              string
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
