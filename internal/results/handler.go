package results

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sufragio/internal/reference"
	dErrors "sufragio/pkg/domain-errors"
	"sufragio/pkg/platform/httputil"
	"sufragio/pkg/requestcontext"
)

// Handler wires the public tally endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the read endpoints. Results are public; voters do not need
// a session to watch the count.
func (h *Handler) Register(r chi.Router) {
	r.Get("/results", h.handleResults)
	r.Get("/results/by-party", h.handleResultsByParty)
	r.Get("/stats", h.handleStatistics)
}

func (h *Handler) handleResults(w http.ResponseWriter, r *http.Request) {
	regionID, err := parseRegionFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if v := r.URL.Query().Get("office"); v != "" {
		office, err := reference.ParseOffice(v)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		tally, err := h.service.OfficeTally(r.Context(), office, regionID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, tally)
		return
	}

	results, err := h.service.Results(r.Context(), regionID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "compute results failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, results)
}

func (h *Handler) handleResultsByParty(w http.ResponseWriter, r *http.Request) {
	var office *reference.Office
	if v := r.URL.Query().Get("office"); v != "" {
		parsed, err := reference.ParseOffice(v)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		office = &parsed
	}
	tallies, err := h.service.ResultsByParty(r.Context(), office)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tallies)
}

func parseRegionFilter(r *http.Request) (*int64, error) {
	v := r.URL.Query().Get("region")
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid region filter")
	}
	return &id, nil
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
