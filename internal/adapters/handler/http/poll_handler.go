package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sepeiunido/plataforma/internal/core/domain"
	"github.com/sepeiunido/plataforma/internal/core/ports"
)

type PollHandler struct {
	service ports.PollService
}

func NewPollHandler(service ports.PollService) *PollHandler {
	return &PollHandler{service: service}
}

type pollRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Kind           string    `json:"kind"`
	OpensAt        time.Time `json:"opens_at"`
	ClosesAt       time.Time `json:"closes_at"`
	ResultsPublic  bool      `json:"results_public"`
	MultipleChoice bool      `json:"multiple_choice"`
	Options        []string  `json:"options"`
}

func (h *PollHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req pollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	actor, _ := MemberFromContext(r.Context())

	poll, err := h.service.Create(r.Context(), actor, ports.CreatePollInput{
		Title:          req.Title,
		Description:    req.Description,
		Kind:           domain.PollKind(req.Kind),
		OpensAt:        req.OpensAt,
		ClosesAt:       req.ClosesAt,
		ResultsPublic:  req.ResultsPublic,
		MultipleChoice: req.MultipleChoice,
		Options:        req.Options,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, poll)
}

func (h *PollHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pollID(w, r)
	if !ok {
		return
	}
	var req pollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	actor, _ := MemberFromContext(r.Context())

	poll, err := h.service.Update(r.Context(), actor, id, ports.UpdatePollInput{
		Title:          req.Title,
		Description:    req.Description,
		Kind:           domain.PollKind(req.Kind),
		OpensAt:        req.OpensAt,
		ClosesAt:       req.ClosesAt,
		ResultsPublic:  req.ResultsPublic,
		MultipleChoice: req.MultipleChoice,
		Options:        req.Options,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pollID(w, r)
	if !ok {
		return
	}
	actor, _ := MemberFromContext(r.Context())

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type toggleRequest struct {
	Value bool `json:"value"`
}

func (h *PollHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.SetPublished)
}

func (h *PollHandler) SetResultsPublic(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.service.SetResultsPublic)
}

func (h *PollHandler) toggle(w http.ResponseWriter, r *http.Request, set func(ctx context.Context, actor *domain.Member, id uuid.UUID, value bool) error) {
	id, ok := pollID(w, r)
	if !ok {
		return
	}
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	actor, _ := MemberFromContext(r.Context())

	if err := set(r.Context(), actor, id, req.Value); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *PollHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	actor, _ := MemberFromContext(r.Context())
	polls, err := h.service.ListAll(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

func (h *PollHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	viewer, _ := MemberFromContext(r.Context())
	polls, err := h.service.ListPublished(r.Context(), viewer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

func (h *PollHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	viewer, _ := MemberFromContext(r.Context())
	polls, err := h.service.ListActive(r.Context(), viewer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, polls)
}

func (h *PollHandler) Results(w http.ResponseWriter, r *http.Request) {
	id, ok := pollID(w, r)
	if !ok {
		return
	}
	results, err := h.service.Tabulate(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func pollID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid poll id")
		return uuid.Nil, false
	}
	return id, true
}
