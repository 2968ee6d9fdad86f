package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sepeiunido/plataforma/internal/core/domain"
	"github.com/sepeiunido/plataforma/internal/core/ports"
)

const sessionCookieName = "session_token"

type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	DNI      string `json:"dni"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	member, err := h.auth.Register(r.Context(), ports.RegisterInput{
		DNI:      req.DNI,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMemberExists) {
			writeServiceError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

type loginRequest struct {
	Email    string `json:"email"`
	DNI      string `json:"dni"`
	Password string `json:"password"`
}

func (r loginRequest) identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.DNI
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, member, err := h.auth.Login(r.Context(), req.identifier(), req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   12 * 60 * 60,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"token":  token,
		"member": member,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := h.auth.Logout(r.Context(), token); err != nil {
			writeServiceError(w, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, MaxAge: -1, Path: "/"})
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	member, ok := MemberFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, member)
}
