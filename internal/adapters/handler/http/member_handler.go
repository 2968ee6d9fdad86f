package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sepeiunido/plataforma/internal/core/domain"
	"github.com/sepeiunido/plataforma/internal/core/ports"
)

type MemberHandler struct {
	service ports.MemberService
}

func NewMemberHandler(service ports.MemberService) *MemberHandler {
	return &MemberHandler{service: service}
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := memberID(w, r)
	if !ok {
		return
	}
	member, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

// SetVotingAuthorized is the out-of-band admin action that grants or
// revokes voting rights; it is deliberately separate from verification.
func (h *MemberHandler) SetVotingAuthorized(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.service.SetVotingAuthorized)
}

func (h *MemberHandler) SetVerified(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.service.SetVerified)
}

type memberFlagRequest struct {
	Value bool `json:"value"`
}

type memberFlagSetter func(ctx context.Context, actor *domain.Member, id uuid.UUID, value bool) error

func (h *MemberHandler) setFlag(w http.ResponseWriter, r *http.Request, set memberFlagSetter) {
	id, ok := memberID(w, r)
	if !ok {
		return
	}
	var req memberFlagRequest
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

func memberID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return uuid.Nil, false
	}
	return id, true
}
