package candidates

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"sufragio/internal/reference"
	dErrors "sufragio/pkg/domain-errors"
	"sufragio/pkg/platform/httputil"
	"sufragio/pkg/requestcontext"
)

// Handler wires registry endpoints to the candidates service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public read endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/parties", h.handleListParties)
	r.Get("/candidates", h.handleListCandidates)
	r.Get("/candidates/{id}", h.handleGetCandidate)
}

// RegisterProtected mounts the write path behind bearer auth.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/candidates", h.handleCreateCandidate)
}

type partyResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	LogoURL string `json:"logo_url,omitempty"`
}

type candidateResponse struct {
	ID              int64         `json:"id"`
	GivenName       string        `json:"given_name"`
	PaternalSurname string        `json:"paternal_surname"`
	MaternalSurname string        `json:"maternal_surname"`
	FullName        string        `json:"full_name"`
	Party           partyResponse `json:"party"`
	Office          string        `json:"office"`
	Region          *RegionRef    `json:"region"`
	PhotoURL        string        `json:"photo_url,omitempty"`
	VoteCount       int64         `json:"vote_count"`
}

type candidateDetailResponse struct {
	candidateResponse
	Complaints []BackgroundRecord `json:"complaints"`
	Projects   []BackgroundRecord `json:"projects"`
	Proposals  []BackgroundRecord `json:"proposals"`
	CreatedAt  time.Time          `json:"created_at"`
}

func fromSummary(s Summary) candidateResponse {
	return candidateResponse{
		ID:              s.Candidate.ID,
		GivenName:       s.Candidate.GivenName,
		PaternalSurname: s.Candidate.PaternalSurname,
		MaternalSurname: s.Candidate.MaternalSurname,
		FullName:        s.Candidate.FullName(),
		Party: partyResponse{
			ID:      s.Party.ID,
			Name:    s.Party.Name,
			Code:    s.Party.Code,
			LogoURL: s.Party.LogoURL,
		},
		Office:    string(s.Candidate.Office),
		Region:    DisplayRegion(s.Candidate.Office, s.Candidate.RegionID, s.RegionName),
		PhotoURL:  s.Candidate.PhotoURL,
		VoteCount: s.VoteCount,
	}
}

func (h *Handler) handleListParties(w http.ResponseWriter, r *http.Request) {
	parties, err := h.service.ListParties(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list parties failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	resp := make([]partyResponse, 0, len(parties))
	for _, p := range parties {
		resp = append(resp, partyResponse{ID: p.ID, Name: p.Name, Code: p.Code, LogoURL: p.LogoURL})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	summaries, err := h.service.ListCandidates(r.Context(), filters)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list candidates failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	resp := make([]candidateResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, fromSummary(s))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid candidate id"))
		return
	}
	detail, err := h.service.GetCandidate(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, candidateDetailResponse{
		candidateResponse: fromSummary(detail.Summary),
		Complaints:        detail.Complaints,
		Projects:          detail.Projects,
		Proposals:         detail.Proposals,
		CreatedAt:         detail.Candidate.CreatedAt,
	})
}

type createCandidateRequest struct {
	GivenName       string `json:"given_name"`
	PaternalSurname string `json:"paternal_surname"`
	MaternalSurname string `json:"maternal_surname"`
	PartyID         int64  `json:"party_id"`
	Office          string `json:"office"`
	RegionID        *int64 `json:"region_id"`
	PhotoURL        string `json:"photo_url"`
}

func (h *Handler) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[createCandidateRequest](w, r)
	if !ok {
		return
	}
	candidate, err := h.service.CreateCandidate(r.Context(), NewCandidate{
		GivenName:       req.GivenName,
		PaternalSurname: req.PaternalSurname,
		MaternalSurname: req.MaternalSurname,
		PartyID:         req.PartyID,
		Office:          reference.Office(req.Office),
		RegionID:        req.RegionID,
		PhotoURL:        req.PhotoURL,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":        candidate.ID,
		"full_name": candidate.FullName(),
		"office":    candidate.Office,
	})
}

func parseFilters(r *http.Request) (Filters, error) {
	var filters Filters
	q := r.URL.Query()
	if v := q.Get("office"); v != "" {
		office, err := reference.ParseOffice(v)
		if err != nil {
			return filters, err
		}
		filters.Office = &office
	}
	if v := q.Get("region"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filters, dErrors.New(dErrors.CodeBadRequest, "invalid region filter")
		}
		filters.RegionID = &id
	}
	if v := q.Get("party"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filters, dErrors.New(dErrors.CodeBadRequest, "invalid party filter")
		}
		filters.PartyID = &id
	}
	filters.Search = q.Get("search")
	return filters, nil
}
