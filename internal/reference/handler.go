package reference

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sufragio/pkg/platform/httputil"
)

// Handler exposes the public region listing used by the registration form.
type Handler struct {
	regions RegionStore
	logger  *slog.Logger
}

func NewHandler(regions RegionStore, logger *slog.Logger) *Handler {
	return &Handler{regions: regions, logger: logger}
}

// Register mounts reference endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/regions", h.handleListRegions)
}

func (h *Handler) handleListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.regions.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list regions failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	if regions == nil {
		regions = []Region{}
	}
	httputil.WriteJSON(w, http.StatusOK, regions)
}
