package api

import (
	"encoding/json"
	"net/http"

	"github.com/shredworks/pickup-scheduling/internal/scheduling"
)

// Staff and vehicle CRUD. All of these sit behind RequireAdmin.

func createStaffHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StaffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		staff, err := svc.CreateStaff(r.Context(), scheduling.Staff{Name: req.Name, Phone: req.Phone})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not create staff member")
			return
		}

		writeSuccess(w, http.StatusCreated, envelope{"staff": staff})
	}
}

func listStaffHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staff, err := svc.ListStaff(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not list staff")
			return
		}
		writeSuccess(w, http.StatusOK, envelope{"staff": staff})
	}
}

func getStaffHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		staff, err := svc.GetStaff(r.Context(), id)
		if err != nil {
			handleSchedulingError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, envelope{"staff": staff})
	}
}

func updateStaffHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req StaffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		staff, err := svc.UpdateStaff(r.Context(), id, req.Name, req.Phone)
		if err != nil {
			handleSchedulingError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, envelope{"staff": staff})
	}
}

func deleteStaffHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		if err := svc.DeleteStaff(r.Context(), id); err != nil {
			handleSchedulingError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, nil)
	}
}

func createVehicleHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VehicleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		vehicle, err := svc.CreateVehicle(r.Context(), scheduling.Vehicle{Plate: req.Plate, Type: req.Type})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not create vehicle")
			return
		}

		writeSuccess(w, http.StatusCreated, envelope{"vehicle": vehicle})
	}
}

func listVehiclesHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicles, err := svc.ListVehicles(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not list vehicles")
			return
		}
		writeSuccess(w, http.StatusOK, envelope{"vehicles": vehicles})
	}
}

func getVehicleHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		vehicle, err := svc.GetVehicle(r.Context(), id)
		if err != nil {
			handleSchedulingError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, envelope{"vehicle": vehicle})
	}
}

func updateVehicleHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		var req VehicleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse JSON")
			return
		}
		if err := validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, validationMessage(err))
			return
		}

		vehicle, err := svc.UpdateVehicle(r.Context(), id, req.Plate, req.Type)
		if err != nil {
			handleSchedulingError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, envelope{"vehicle": vehicle})
	}
}

func deleteVehicleHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(w, r)
		if !ok {
			return
		}

		if err := svc.DeleteVehicle(r.Context(), id); err != nil {
			handleSchedulingError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, nil)
	}
}
