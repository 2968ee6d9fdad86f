package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/sepeiunido/plataforma/internal/core/ports"
)

type VoteHandler struct {
	service ports.VoteService
}

func NewVoteHandler(service ports.VoteService) *VoteHandler {
	return &VoteHandler{service: service}
}

type castRequest struct {
	OptionIDs []uuid.UUID `json:"option_ids"`
}

func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	id, ok := pollID(w, r)
	if !ok {
		return
	}

	var req castRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	voter, _ := MemberFromContext(r.Context())
	if err := h.service.Cast(r.Context(), voter, id, req.OptionIDs); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (h *VoteHandler) HasVoted(w http.ResponseWriter, r *http.Request) {
	id, ok := pollID(w, r)
	if !ok {
		return
	}

	voter, _ := MemberFromContext(r.Context())
	voted, err := h.service.HasVoted(r.Context(), voter, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"has_voted": voted})
}
