package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
	logger  *slog.Logger
}

func NewUserHandler(service ports.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  loggerOrDefault(logger),
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if actor == nil {
		writeError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	user, err := h.service.GetByID(r.Context(), actor.UserID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// OnlineUsers backs the "connected users" panel widget.
func (h *UserHandler) OnlineUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.OnlineUsers(r.Context(), actorFrom(r.Context()))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"usuarios":  users,
		"timestamp": time.Now().UTC(),
	})
}
