package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shredworks/pickup-scheduling/internal/auth"
	"github.com/shredworks/pickup-scheduling/internal/scheduling"
)

func createAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())

		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		items := make([]scheduling.LineItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, scheduling.LineItem{Type: it.Type, Quantity: it.Quantity})
		}

		appt, err := svc.CreateAppointment(r.Context(), scheduling.Appointment{
			UserID:          user.ID,
			ContactName:     req.ContactName,
			ContactPhone:    req.ContactPhone,
			Address:         req.Address,
			AppointmentTime: req.AppointmentTime,
			Items:           items,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not create appointment")
			return
		}

		writeSuccess(w, http.StatusCreated, envelope{"appointment": appt})
	}
}

// listAppointmentsHandler returns every appointment for admins and only the
// caller's own for regular users, optionally filtered by status.
func listAppointmentsHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())

		var filter scheduling.ListFilter
		if user.Role != auth.RoleAdmin {
			uid := user.ID
			filter.UserID = &uid
		}
		if raw := r.URL.Query().Get("status"); raw != "" {
			status := scheduling.AppointmentStatus(raw)
			filter.Status = &status
		}

		appts, err := svc.ListAppointments(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not list appointments")
			return
		}

		writeSuccess(w, http.StatusOK, envelope{"appointments": appts})
	}
}

func getAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())

		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		appt, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			handleSchedulingError(w, err)
			return
		}
		if user.Role != auth.RoleAdmin && appt.UserID != user.ID {
			writeError(w, http.StatusForbidden, "access denied")
			return
		}

		writeSuccess(w, http.StatusOK, envelope{"appointment": appt})
	}
}

func deleteAppointmentHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())

		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		appt, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			handleSchedulingError(w, err)
			return
		}
		if user.Role != auth.RoleAdmin && appt.UserID != user.ID {
			writeError(w, http.StatusForbidden, "access denied")
			return
		}

		if err := svc.DeleteAppointment(r.Context(), id); err != nil {
			handleSchedulingError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, nil)
	}
}

func assignAppointmentHandler(svc *scheduling.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req AssignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		staffID, _ := uuid.Parse(req.StaffID)
		vehicleID, _ := uuid.Parse(req.VehicleID)

		appt, err := svc.Assign(r.Context(), id, staffID, vehicleID)
		if err != nil {
			logUnexpected(log, r, err)
			handleSchedulingError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, envelope{"appointment": appt})
	}
}

func completeAppointmentHandler(svc *scheduling.Service, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		appt, err := svc.Complete(r.Context(), id)
		if err != nil {
			logUnexpected(log, r, err)
			handleSchedulingError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, envelope{"appointment": appt})
	}
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func handleSchedulingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scheduling.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment not found")
	case errors.Is(err, scheduling.ErrStaffNotFound):
		writeError(w, http.StatusNotFound, "staff member not found")
	case errors.Is(err, scheduling.ErrVehicleNotFound):
		writeError(w, http.StatusNotFound, "vehicle not found")
	case errors.Is(err, scheduling.ErrStaffUnavailable):
		writeError(w, http.StatusBadRequest, "selected staff member is not available")
	case errors.Is(err, scheduling.ErrVehicleUnavailable):
		writeError(w, http.StatusBadRequest, "selected vehicle is not available")
	case errors.Is(err, scheduling.ErrInvalidStatusTransition):
		writeError(w, http.StatusBadRequest, "appointment is not in the right status for this operation")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// logUnexpected records errors outside the known taxonomy; the client only
// ever sees the generic message.
func logUnexpected(log zerolog.Logger, r *http.Request, err error) {
	if errors.Is(err, scheduling.ErrAppointmentNotFound) ||
		errors.Is(err, scheduling.ErrStaffNotFound) ||
		errors.Is(err, scheduling.ErrVehicleNotFound) ||
		errors.Is(err, scheduling.ErrStaffUnavailable) ||
		errors.Is(err, scheduling.ErrVehicleUnavailable) ||
		errors.Is(err, scheduling.ErrInvalidStatusTransition) {
		return
	}
	log.Error().
		Err(err).
		Str("path", r.URL.Path).
		Str("request_id", GetRequestID(r.Context())).
		Msg("unexpected error")
}
