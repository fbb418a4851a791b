package voting

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sufragio/internal/reference"
	"sufragio/pkg/platform/httputil"
	"sufragio/pkg/requestcontext"
)

// Handler wires the ballot endpoints. All of them require bearer auth.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterProtected mounts the ballot endpoints behind bearer auth.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Post("/votes", h.handleCastVote)
	r.Get("/votes/mine", h.handleMyVotes)
	r.Get("/votes/can-vote/{office}", h.handleCanVote)
}

type castVoteRequest struct {
	CandidateID int64 `json:"candidate_id"`
}

type voteResponse struct {
	ID          int64     `json:"id"`
	CandidateID int64     `json:"candidate_id"`
	Office      string    `json:"office"`
	CastAt      time.Time `json:"cast_at"`
}

type voteDetailResponse struct {
	voteResponse
	CandidateName string `json:"candidate_name"`
	PartyName     string `json:"party_name"`
	PartyCode     string `json:"party_code"`
}

func (h *Handler) handleCastVote(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[castVoteRequest](w, r)
	if !ok {
		return
	}
	vote, err := h.service.CastVote(r.Context(), requestcontext.VoterID(r.Context()), req.CandidateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, voteResponse{
		ID:          vote.ID,
		CandidateID: vote.CandidateID,
		Office:      string(vote.Office()),
		CastAt:      vote.CreatedAt,
	})
}

func (h *Handler) handleMyVotes(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.MyVotes(r.Context(), requestcontext.VoterID(r.Context()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list votes failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	resp := make([]voteDetailResponse, 0, len(details))
	for _, d := range details {
		resp = append(resp, voteDetailResponse{
			voteResponse: voteResponse{
				ID:          d.ID,
				CandidateID: d.CandidateID,
				Office:      string(d.Office()),
				CastAt:      d.CreatedAt,
			},
			CandidateName: d.CandidateName,
			PartyName:     d.PartyName,
			PartyCode:     d.PartyCode,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCanVote(w http.ResponseWriter, r *http.Request) {
	office, err := reference.ParseOffice(chi.URLParam(r, "office"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := h.service.CanVote(r.Context(), requestcontext.VoterID(r.Context()), office)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}
