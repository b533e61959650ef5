package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mathuja991/Mathavam-sub001/internal/availability"
	"github.com/Mathuja991/Mathavam-sub001/internal/booking"
	"github.com/Mathuja991/Mathavam-sub001/internal/config"
	redisclient "github.com/Mathuja991/Mathavam-sub001/internal/redis"
)

const colomboOffset = 5*time.Hour + 30*time.Minute

func newTestRouter() http.Handler {
	cfg := config.Config{
		ClinicUTCOffset:  colomboOffset,
		LookaheadDays:    60,
		NumberRetryLimit: 3,
	}
	avail := availability.NewService(availability.NewMemoryRepository())
	bookings := booking.NewService(booking.NewMemoryRepository(), redisclient.NewLocalLocker(), cfg, zerolog.Nop())

	return NewRouter(RouterConfig{
		Availability: avail,
		Bookings:     bookings,
		Logger:       zerolog.Nop(),
		Env:          "test",
		Version:      "test",
	})
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), "body: %s", rec.Body.String())
	return out
}

// futureClinicDate returns a clinic-local date n days ahead, with its weekday.
func futureClinicDate(n int) (string, string) {
	d := time.Now().UTC().Add(colomboOffset).AddDate(0, 0, n)
	return d.Format("2006-01-02"), d.Weekday().String()
}

func bookingBody(patient, date, start, end string) map[string]any {
	return map[string]any{
		"practitionerId":  "doc-1",
		"patientName":     patient,
		"appointmentDate": date,
		"timeSlot":        map[string]string{"startTime": start, "endTime": end},
	}
}

func TestPutAvailability(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPut, "/availability/doc-1", map[string]any{
		"slots": []map[string]string{
			{"day": "Monday", "startTime": "09:00", "endTime": "12:00"},
			{"day": "Wednesday", "startTime": "14:00", "endTime": "17:00"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	slots := decodeBody[[]SlotResponse](t, rec)
	require.Len(t, slots, 2)
	assert.Equal(t, "doc-1", slots[0].PractitionerID)
	assert.NotEmpty(t, slots[0].ID)

	rec = doJSON(t, router, http.MethodGet, "/availability?practitionerIds=doc-1,doc-2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	byDoctor := decodeBody[map[string][]SlotResponse](t, rec)
	assert.Len(t, byDoctor["doc-1"], 2)
	assert.Empty(t, byDoctor["doc-2"])
}

func TestPutAvailabilityRejectsBadInput(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name string
		body map[string]any
		code string
	}{
		{
			name: "unknown weekday",
			body: map[string]any{"slots": []map[string]string{
				{"day": "Funday", "startTime": "09:00", "endTime": "12:00"},
			}},
			code: "validation_failed",
		},
		{
			name: "malformed time",
			body: map[string]any{"slots": []map[string]string{
				{"day": "Monday", "startTime": "9am", "endTime": "12:00"},
			}},
			code: "validation_failed",
		},
		{
			name: "inverted range",
			body: map[string]any{"slots": []map[string]string{
				{"day": "Monday", "startTime": "12:00", "endTime": "09:00"},
			}},
			code: "invalid_range",
		},
		{
			name: "empty slot list",
			body: map[string]any{"slots": []map[string]string{}},
			code: "validation_failed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPut, "/availability/doc-1", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeBody[ErrorResponse](t, rec)
			assert.Equal(t, tc.code, resp.Error)
		})
	}

	// A rejected batch leaves nothing behind.
	rec := doJSON(t, router, http.MethodGet, "/availability?practitionerIds=doc-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	byDoctor := decodeBody[map[string][]SlotResponse](t, rec)
	assert.Empty(t, byDoctor["doc-1"])
}

func TestListAvailabilityRequiresIDs(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/availability", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "missing_practitioner_ids", resp.Error)
}

func TestUpdateAndDeleteSlot(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPut, "/availability/doc-1", map[string]any{
		"slots": []map[string]string{{"day": "Monday", "startTime": "09:00", "endTime": "12:00"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[[]SlotResponse](t, rec)
	slotID := created[0].ID

	rec = doJSON(t, router, http.MethodPut, "/availability/slots/"+slotID, map[string]string{
		"startTime": "10:00", "endTime": "13:00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[SlotResponse](t, rec)
	assert.Equal(t, "10:00", updated.StartTime)
	assert.Equal(t, "13:00", updated.EndTime)
	assert.Equal(t, "Monday", updated.Day)

	rec = doJSON(t, router, http.MethodPut, "/availability/slots/"+slotID, map[string]string{
		"startTime": "13:00", "endTime": "10:00",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_range", decodeBody[ErrorResponse](t, rec).Error)

	rec = doJSON(t, router, http.MethodDelete, "/availability/slots/"+slotID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/availability/slots/"+slotID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "slot_not_found", decodeBody[ErrorResponse](t, rec).Error)

	rec = doJSON(t, router, http.MethodDelete, "/availability/slots/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_slot_id", decodeBody[ErrorResponse](t, rec).Error)
}

func TestClearAvailability(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPut, "/availability/doc-1", map[string]any{
		"slots": []map[string]string{{"day": "Monday", "startTime": "09:00", "endTime": "12:00"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/availability/doc-1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/availability?practitionerIds=doc-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	byDoctor := decodeBody[map[string][]SlotResponse](t, rec)
	assert.Empty(t, byDoctor["doc-1"])
}

func TestCreateAppointment(t *testing.T) {
	router := newTestRouter()
	date, _ := futureClinicDate(7)

	rec := doJSON(t, router, http.MethodPost, "/appointments", bookingBody("Amara", date, "09:00", "10:00"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	appt := decodeBody[AppointmentResponse](t, rec)
	segment := date[:4] + date[5:7] + date[8:]
	assert.Equal(t, fmt.Sprintf("APT-%s-001", segment), appt.AppointmentNumber)
	assert.Equal(t, "upcoming", appt.Status)
	assert.Equal(t, "09:00", appt.TimeSlot.StartTime)

	rec = doJSON(t, router, http.MethodPost, "/appointments", bookingBody("Bandu", date, "09:00", "10:00"))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "slot_already_booked", decodeBody[ErrorResponse](t, rec).Error)
}

func TestCreateAppointmentValidation(t *testing.T) {
	router := newTestRouter()

	body := bookingBody("Amara", "04-06-2025", "09:00", "10:00")
	rec := doJSON(t, router, http.MethodPost, "/appointments", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", decodeBody[ErrorResponse](t, rec).Error)

	date, _ := futureClinicDate(7)
	body = bookingBody("", date, "09:00", "10:00")
	rec = doJSON(t, router, http.MethodPost, "/appointments", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString("{not json"))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "invalid_request_body", decodeBody[ErrorResponse](t, recorder).Error)
}

func TestCancelAppointment(t *testing.T) {
	router := newTestRouter()
	date, _ := futureClinicDate(7)

	rec := doJSON(t, router, http.MethodPost, "/appointments", bookingBody("Amara", date, "09:00", "10:00"))
	require.Equal(t, http.StatusCreated, rec.Code)
	appt := decodeBody[AppointmentResponse](t, rec)

	rec = doJSON(t, router, http.MethodPut, "/appointments/"+appt.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cancelled", decodeBody[AppointmentResponse](t, rec).Status)

	rec = doJSON(t, router, http.MethodPut, "/appointments/"+appt.ID+"/cancel", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_cancelled", decodeBody[ErrorResponse](t, rec).Error)

	// The slot is free again after cancellation.
	rec = doJSON(t, router, http.MethodPost, "/appointments", bookingBody("Bandu", date, "09:00", "10:00"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/appointments/9e8f7d3a-0000-0000-0000-000000000000/cancel", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/appointments/not-a-uuid/cancel", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_appointment_id", decodeBody[ErrorResponse](t, rec).Error)
}

func TestOverrideStatusEndpoint(t *testing.T) {
	router := newTestRouter()
	date, _ := futureClinicDate(7)

	rec := doJSON(t, router, http.MethodPost, "/appointments", bookingBody("Amara", date, "09:00", "10:00"))
	require.Equal(t, http.StatusCreated, rec.Code)
	appt := decodeBody[AppointmentResponse](t, rec)

	rec = doJSON(t, router, http.MethodPut, "/appointments/"+appt.ID+"/status", map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "completed", decodeBody[AppointmentResponse](t, rec).Status)

	rec = doJSON(t, router, http.MethodPut, "/appointments/"+appt.ID+"/status", map[string]string{"status": "archived"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_status", decodeBody[ErrorResponse](t, rec).Error)
}

func TestListAppointmentsFilter(t *testing.T) {
	router := newTestRouter()
	date, _ := futureClinicDate(7)

	rec := doJSON(t, router, http.MethodPost, "/appointments", bookingBody("Amara", date, "09:00", "10:00"))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/appointments", bookingBody("Bandu", date, "10:00", "11:00"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/appointments?status=upcoming&practitionerId=doc-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	appts := decodeBody[[]AppointmentResponse](t, rec)
	assert.Len(t, appts, 2)

	rec = doJSON(t, router, http.MethodGet, "/appointments?patientName=Bandu", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	appts = decodeBody[[]AppointmentResponse](t, rec)
	require.Len(t, appts, 1)
	assert.Equal(t, "Bandu", appts[0].PatientName)

	rec = doJSON(t, router, http.MethodGet, "/appointments?status=bogus", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_status", decodeBody[ErrorResponse](t, rec).Error)
}

func TestGetAppointment(t *testing.T) {
	router := newTestRouter()
	date, _ := futureClinicDate(7)

	rec := doJSON(t, router, http.MethodPost, "/appointments", bookingBody("Amara", date, "09:00", "10:00"))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[AppointmentResponse](t, rec)

	rec = doJSON(t, router, http.MethodGet, "/appointments/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody[AppointmentResponse](t, rec)
	assert.Equal(t, created.AppointmentNumber, fetched.AppointmentNumber)

	rec = doJSON(t, router, http.MethodGet, "/appointments/11111111-2222-3333-4444-555555555555", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "appointment_not_found", decodeBody[ErrorResponse](t, rec).Error)
}

func TestCalendarEndpoint(t *testing.T) {
	router := newTestRouter()
	date, weekday := futureClinicDate(7)

	rec := doJSON(t, router, http.MethodPut, "/availability/doc-1", map[string]any{
		"slots": []map[string]string{{"day": weekday, "startTime": "09:00", "endTime": "12:00"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/appointments", bookingBody("Amara", date, "09:00", "10:00"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/availability/doc-1/calendar?days=14", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	days := decodeBody[[]struct {
		Date             string `json:"date"`
		Weekday          string `json:"weekday"`
		AppointmentCount int    `json:"appointmentCount"`
	}](t, rec)
	require.Len(t, days, 2, "one weekly slot projects twice in a 14-day window")

	counts := make(map[string]int)
	for _, d := range days {
		assert.Equal(t, weekday, d.Weekday)
		counts[d.Date] = d.AppointmentCount
	}
	assert.Equal(t, 1, counts[date])

	rec = doJSON(t, router, http.MethodGet, "/availability/doc-1/calendar?days=nope", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_days", decodeBody[ErrorResponse](t, rec).Error)
}

func TestDaySlotsEndpoint(t *testing.T) {
	router := newTestRouter()
	date, weekday := futureClinicDate(7)

	rec := doJSON(t, router, http.MethodPut, "/availability/doc-1", map[string]any{
		"slots": []map[string]string{
			{"day": weekday, "startTime": "09:00", "endTime": "12:00"},
			{"day": weekday, "startTime": "14:00", "endTime": "17:00"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/availability/doc-1/slots?date="+date, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	slots := decodeBody[[]SlotResponse](t, rec)
	assert.Len(t, slots, 2)

	otherDate, _ := futureClinicDate(8)
	rec = doJSON(t, router, http.MethodGet, "/availability/doc-1/slots?date="+otherDate, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]SlotResponse](t, rec))

	rec = doJSON(t, router, http.MethodGet, "/availability/doc-1/slots?date=junk", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_date", decodeBody[ErrorResponse](t, rec).Error)
}
