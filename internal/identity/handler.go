package identity

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sufragio/pkg/platform/httputil"
	"sufragio/pkg/requestcontext"
)

// Handler wires the voter onboarding and session endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the unauthenticated onboarding endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Post("/voters/validate-id", h.handleValidateID)
	r.Post("/voters/register", h.handleRegister)
	r.Post("/voters/login", h.handleLogin)
	r.Post("/voters/refresh", h.handleRefresh)
}

// RegisterProtected mounts the session endpoints behind bearer auth.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Get("/voters/me", h.handleProfile)
	r.Post("/voters/logout", h.handleLogout)
}

type validateIDRequest struct {
	NationalID string `json:"national_id"`
}

func (h *Handler) handleValidateID(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[validateIDRequest](w, r)
	if !ok {
		return
	}
	record, err := h.service.ValidateIdentity(r.Context(), req.NationalID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, record)
}

type registerRequest struct {
	NationalID string `json:"national_id"`
	RegionID   int64  `json:"region_id"`
	Credential string `json:"credential"`
}

type voterResponse struct {
	ID              int64  `json:"id"`
	NationalID      string `json:"national_id"`
	GivenName       string `json:"given_name"`
	PaternalSurname string `json:"paternal_surname"`
	MaternalSurname string `json:"maternal_surname"`
	FullName        string `json:"full_name"`
	RegionID        int64  `json:"region_id"`
	Role            string `json:"role"`
	CanVote         bool   `json:"can_vote"`
}

type sessionResponse struct {
	Voter  voterResponse `json:"voter"`
	Tokens TokenPair     `json:"tokens"`
}

func fromVoter(v *Voter) voterResponse {
	return voterResponse{
		ID:              v.ID,
		NationalID:      v.NationalID,
		GivenName:       v.GivenName,
		PaternalSurname: v.PaternalSurname,
		MaternalSurname: v.MaternalSurname,
		FullName:        v.FullName(),
		RegionID:        v.RegionID,
		Role:            string(v.Role),
		CanVote:         v.CanVote(),
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[registerRequest](w, r)
	if !ok {
		return
	}
	voter, tokens, err := h.service.Register(r.Context(), RegisterInput{
		NationalID: req.NationalID,
		RegionID:   req.RegionID,
		Credential: req.Credential,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sessionResponse{
		Voter:  fromVoter(voter),
		Tokens: tokens,
	})
}

type loginRequest struct {
	NationalID string `json:"national_id"`
	Credential string `json:"credential"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[loginRequest](w, r)
	if !ok {
		return
	}
	voter, tokens, err := h.service.Login(r.Context(), req.NationalID, req.Credential)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{
		Voter:  fromVoter(voter),
		Tokens: tokens,
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[refreshRequest](w, r)
	if !ok {
		return
	}
	tokens, err := h.service.Refresh(r.Context(), req.Refresh)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tokens)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[refreshRequest](w, r)
	if !ok {
		return
	}
	if err := h.service.Logout(r.Context(), req.Refresh); err != nil {
		h.logger.ErrorContext(r.Context(), "logout failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	voter, err := h.service.Profile(r.Context(), requestcontext.VoterID(r.Context()))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fromVoter(voter))
}
