package api

import (
	"errors"
	"net/http"

	"github.com/shredworks/pickup-scheduling/internal/scheduling"
)

func exportHandler(svc *scheduling.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := r.URL.Query().Get("type")
		if typ == "" {
			writeError(w, http.StatusBadRequest, "export type is required")
			return
		}

		data, err := svc.Export(r.Context(), typ)
		if err != nil {
			if errors.Is(err, scheduling.ErrUnknownExportType) {
				writeError(w, http.StatusBadRequest, "unknown export type")
				return
			}
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}

		writeSuccess(w, http.StatusOK, envelope{"data": data})
	}
}
