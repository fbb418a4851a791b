// Package httptransport assembles the HTTP surface. Feature handlers register
// their own routes; this package only owns middleware ordering and the
// public/authenticated split.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sufragio/internal/candidates"
	"sufragio/internal/identity"
	"sufragio/internal/reference"
	"sufragio/internal/results"
	"sufragio/internal/voting"
	"sufragio/pkg/platform/httputil"
	"sufragio/pkg/platform/middleware/auth"
	"sufragio/pkg/platform/middleware/metadata"
	"sufragio/pkg/platform/middleware/requestid"
)

// Deps carries the wired feature handlers into the router.
type Deps struct {
	Logger       *slog.Logger
	JWTValidator auth.JWTValidator

	Reference  *reference.Handler
	Candidates *candidates.Handler
	Identity   *identity.Handler
	Voting     *voting.Handler
	Results    *results.Handler
}

// NewRouter mounts every endpoint. Reads and onboarding are public; votes,
// sessions and candidate registration sit behind bearer auth.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestid.Inject)
	r.Use(metadata.Capture)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(pub chi.Router) {
		d.Reference.Register(pub)
		d.Candidates.Register(pub)
		d.Identity.Register(pub)
		d.Results.Register(pub)
	})

	r.Group(func(priv chi.Router) {
		priv.Use(auth.RequireAuth(d.JWTValidator, d.Logger))
		d.Identity.RegisterProtected(priv)
		d.Candidates.RegisterProtected(priv)
		d.Voting.RegisterProtected(priv)
	})

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
