package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Mathuja991/Mathavam-sub001/internal/availability"
	"github.com/Mathuja991/Mathavam-sub001/internal/booking"
	"github.com/Mathuja991/Mathavam-sub001/internal/schedule"
)

func putAvailabilityHandler(avail *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		practitionerID := chi.URLParam(r, "practitionerID")

		var req PutAvailabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		inputs := make([]availability.SlotInput, 0, len(req.Slots))
		for _, s := range req.Slots {
			inputs = append(inputs, availability.SlotInput{
				Day:       s.Day,
				StartTime: s.StartTime,
				EndTime:   s.EndTime,
			})
		}

		slots, err := avail.AddSlots(r.Context(), practitionerID, inputs)
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toSlotResponses(slots))
	}
}

func listAvailabilityHandler(avail *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("practitionerIds")
		if raw == "" {
			writeError(w, http.StatusBadRequest, "missing_practitioner_ids", "practitionerIds query parameter is required")
			return
		}

		ids := strings.Split(raw, ",")
		byPractitioner, err := avail.ListForMany(r.Context(), ids)
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}

		resp := make(map[string][]SlotResponse, len(ids))
		for _, id := range ids {
			resp[id] = toSlotResponses(byPractitioner[id])
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func calendarHandler(avail *availability.Service, bookings *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		practitionerID := chi.URLParam(r, "practitionerID")

		window := 0
		if raw := r.URL.Query().Get("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "invalid_days", "days must be a positive integer")
				return
			}
			window = n
		}

		slots, err := avail.ListFor(r.Context(), practitionerID)
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}

		days, err := bookings.Calendar(r.Context(), practitionerID, slots, window)
		if err != nil {
			handleBookingError(w, err)
			return
		}
		if days == nil {
			days = []schedule.ProjectedDay{}
		}

		writeJSON(w, http.StatusOK, days)
	}
}

func daySlotsHandler(avail *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		practitionerID := chi.URLParam(r, "practitionerID")

		date := r.URL.Query().Get("date")
		if !schedule.ValidDate(date) {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		slots, err := avail.ListFor(r.Context(), practitionerID)
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}

		matched, err := schedule.SlotsOn(date, slots)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toSlotResponses(matched))
	}
}

func clearAvailabilityHandler(avail *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		practitionerID := chi.URLParam(r, "practitionerID")

		if err := avail.ClearAll(r.Context(), practitionerID); err != nil {
			handleAvailabilityError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func updateSlotHandler(avail *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "slotID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "slotID must be a valid UUID")
			return
		}

		var req UpdateSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}

		slot, err := avail.UpdateSlot(r.Context(), id, req.StartTime, req.EndTime)
		if err != nil {
			handleAvailabilityError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toSlotResponse(*slot))
	}
}

func deleteSlotHandler(avail *availability.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "slotID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "slotID must be a valid UUID")
			return
		}

		if err := avail.DeleteSlot(r.Context(), id); err != nil {
			handleAvailabilityError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAvailabilityError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, availability.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
	case errors.Is(err, availability.ErrInvalidTime):
		writeError(w, http.StatusBadRequest, "invalid_time", err.Error())
	case errors.Is(err, availability.ErrInvalidDay):
		writeError(w, http.StatusBadRequest, "invalid_day", err.Error())
	case errors.Is(err, availability.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, "slot_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
