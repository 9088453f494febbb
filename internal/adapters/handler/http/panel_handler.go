package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type PanelHandler struct {
	service  ports.AggregationService
	officeA  string
	officeB  string
	logger   *slog.Logger
	nowClock func() time.Time
}

// NewPanelHandler serves the dashboard. officeA and officeB are used by the
// combined summary when the request names no offices.
func NewPanelHandler(service ports.AggregationService, officeA, officeB string, logger *slog.Logger) *PanelHandler {
	return &PanelHandler{
		service:  service,
		officeA:  officeA,
		officeB:  officeB,
		logger:   loggerOrDefault(logger),
		nowClock: time.Now,
	}
}

func (h *PanelHandler) now() time.Time {
	return h.nowClock().UTC()
}

// Summary accepts either cargo (name or alias) or cargo_id.
func (h *PanelHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	officeRef := q.Get("cargo_id")
	if officeRef == "" {
		officeRef = q.Get("cargo")
	}

	summary, err := h.service.SummaryByOffice(r.Context(), actorFrom(r.Context()), officeRef)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*domain.OfficeSummary
		Timestamp time.Time `json:"timestamp"`
	}{summary, h.now()})
}

func (h *PanelHandler) SummaryBoth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	refA, refB := q.Get("cargo_a"), q.Get("cargo_b")
	if refA == "" {
		refA = h.officeA
	}
	if refB == "" {
		refB = h.officeB
	}

	summary, err := h.service.SummaryCombined(r.Context(), actorFrom(r.Context()), refA, refB)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*domain.CombinedSummary
		Timestamp time.Time `json:"timestamp"`
	}{summary, h.now()})
}

func (h *PanelHandler) Subjurisdictions(w http.ResponseWriter, r *http.Request) {
	progress, err := h.service.CompletionBySubjurisdiction(r.Context(), actorFrom(r.Context()))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"subcomandos": progress,
		"timestamp":   h.now(),
	})
}

func (h *PanelHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	completion, err := h.service.GlobalCompletion(r.Context(), actorFrom(r.Context()))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*domain.Completion
		Timestamp time.Time `json:"timestamp"`
	}{completion, h.now()})
}
