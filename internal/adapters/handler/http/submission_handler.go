package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

// count accepts numbers, numeric strings and anything else as zero.
type count int64

func (c *count) UnmarshalJSON(b []byte) error {
	*c = count(domain.ParseCount(string(b)))
	return nil
}

// ref is an optional entity id. Non-positive values count as absent.
func ref(c *count) *int64 {
	if c == nil || *c <= 0 {
		return nil
	}
	v := int64(*c)
	return &v
}

type officeVotePayload struct {
	NominationID *count `json:"partido_postulacion_id"`
	Votes        count  `json:"votos"`
}

type specialVotePayload struct {
	OfficeID *count `json:"cargo_postulacion_id"`
	Category string `json:"tipo"`
	Votes    count  `json:"votos"`
}

type reconciliationPayload struct {
	VotersThatVoted count `json:"electores_votaron"`
	EnvelopesFound  count `json:"sobres_encontrados"`
	Discrepancy     count `json:"diferencia"`
}

type submitRequest struct {
	StationNumber count                 `json:"mesa_id"`
	OfficeVotes   []officeVotePayload   `json:"votos_cargo"`
	SpecialVotes  []specialVotePayload  `json:"votos_especiales"`
	Summary       reconciliationPayload `json:"resumen_mesa"`
	Overwrite     bool                  `json:"overwrite"`
}

func (req submitRequest) input() ports.SubmitInput {
	in := ports.SubmitInput{
		StationNumber: int(domain.CoerceCount(int64(req.StationNumber))),
		OfficeVotes:   make([]ports.OfficeVoteInput, 0, len(req.OfficeVotes)),
		SpecialVotes:  make([]ports.SpecialVoteInput, 0, len(req.SpecialVotes)),
		Reconciliation: ports.ReconciliationInput{
			VotersThatVoted: int64(req.Summary.VotersThatVoted),
			EnvelopesFound:  int64(req.Summary.EnvelopesFound),
			Discrepancy:     int64(req.Summary.Discrepancy),
		},
		Overwrite: req.Overwrite,
	}
	for _, v := range req.OfficeVotes {
		in.OfficeVotes = append(in.OfficeVotes, ports.OfficeVoteInput{
			NominationID: ref(v.NominationID),
			Votes:        int64(v.Votes),
		})
	}
	for _, v := range req.SpecialVotes {
		in.SpecialVotes = append(in.SpecialVotes, ports.SpecialVoteInput{
			OfficeID: ref(v.OfficeID),
			Category: v.Category,
			Votes:    int64(v.Votes),
		})
	}
	return in
}

type SubmissionHandler struct {
	service ports.SubmissionService
	logger  *slog.Logger
}

func NewSubmissionHandler(service ports.SubmissionService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		service: service,
		logger:  loggerOrDefault(logger),
	}
}

func (h *SubmissionHandler) SubmitVotes(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Submit(r.Context(), actorFrom(r.Context()), req.input())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"mesa_id":          result.StationNumber,
		"editada":          result.Edited,
		"votos_cargo":      result.OfficeVotes,
		"votos_especiales": result.SpecialVotes,
	})
}
