package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type StationHandler struct {
	service ports.StationService
	logger  *slog.Logger
}

func NewStationHandler(service ports.StationService, logger *slog.Logger) *StationHandler {
	return &StationHandler{
		service: service,
		logger:  loggerOrDefault(logger),
	}
}

func (h *StationHandler) StationData(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "mesa_id"))
	if err != nil || number <= 0 {
		writeError(w, http.StatusBadRequest, "invalid mesa_id")
		return
	}

	data, err := h.service.StationData(r.Context(), actorFrom(r.Context()), number)
	if err != nil {
		if errors.Is(err, domain.ErrStationNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// ListStations returns the operator's stations; pendientes=1 keeps only
// those not yet tallied.
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	pending := r.URL.Query().Get("pendientes")
	pendingOnly := pending == "1" || pending == "true"

	stations, err := h.service.ListForOperator(r.Context(), actorFrom(r.Context()), pendingOnly)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mesas": stations})
}
