package api

import (
	"time"

	"github.com/Mathuja991/Mathavam-sub001/internal/availability"
	"github.com/Mathuja991/Mathavam-sub001/internal/booking"
)

type SlotPayload struct {
	Day       string `json:"day" validate:"required,weekday"`
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
}

type PutAvailabilityRequest struct {
	Slots []SlotPayload `json:"slots" validate:"required,min=1,dive"`
}

type UpdateSlotRequest struct {
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
}

type TimeSlotPayload struct {
	StartTime string `json:"startTime" validate:"required,hhmm"`
	EndTime   string `json:"endTime" validate:"required,hhmm"`
}

type CreateAppointmentRequest struct {
	PractitionerID  string          `json:"practitionerId" validate:"required"`
	PatientName     string          `json:"patientName" validate:"required"`
	AppointmentDate string          `json:"appointmentDate" validate:"required,datetime=2006-01-02"`
	TimeSlot        TimeSlotPayload `json:"timeSlot" validate:"required"`
	Note            string          `json:"note"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type SlotResponse struct {
	ID             string `json:"id"`
	PractitionerID string `json:"practitionerId"`
	Day            string `json:"day"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
}

func toSlotResponse(s availability.Slot) SlotResponse {
	return SlotResponse{
		ID:             s.ID.String(),
		PractitionerID: s.PractitionerID,
		Day:            s.Day,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
	}
}

func toSlotResponses(slots []availability.Slot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotResponse(s))
	}
	return out
}

type TimeSlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type AppointmentResponse struct {
	ID                string           `json:"id"`
	AppointmentNumber string           `json:"appointmentNumber"`
	PractitionerID    string           `json:"practitionerId"`
	PatientName       string           `json:"patientName"`
	AppointmentDate   string           `json:"appointmentDate"`
	TimeSlot          TimeSlotResponse `json:"timeSlot"`
	Note              string           `json:"note,omitempty"`
	Status            string           `json:"status"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

func toAppointmentResponse(a *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:                a.ID.String(),
		AppointmentNumber: a.AppointmentNumber,
		PractitionerID:    a.PractitionerID,
		PatientName:       a.PatientName,
		AppointmentDate:   a.AppointmentDate,
		TimeSlot: TimeSlotResponse{
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
		},
		Note:      a.Note,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
