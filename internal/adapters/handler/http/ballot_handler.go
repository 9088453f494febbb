package http

import (
	"log/slog"
	"net/http"

	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type BallotHandler struct {
	service ports.BallotService
	logger  *slog.Logger
}

func NewBallotHandler(service ports.BallotService, logger *slog.Logger) *BallotHandler {
	return &BallotHandler{
		service: service,
		logger:  loggerOrDefault(logger),
	}
}

func (h *BallotHandler) Ballot(w http.ResponseWriter, r *http.Request) {
	ballot, err := h.service.Ballot(r.Context(), actorFrom(r.Context()))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, ballot)
}
