package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AdminService is what the admin surface needs from the application layer.
type AdminService interface {
	GrantAdmin
	LocationLister
	HistoryLister
	AuditLister
}

// AccessService is what the guest-facing surface needs.
type AccessService interface {
	GateOpener
	AccessDescriber
}

type RouterConfig struct {
	Grants AdminService
	Access AccessService

	CORSOrigins []string
	JWTSecret   string
	Logger      *slog.Logger

	// WebhookSlug is the unguessable path segment the callback webhook is
	// mounted under. Empty disables the route.
	WebhookSlug  string
	PulseSeconds int
}

// NewRouter assembles the full HTTP surface: public guest endpoints, the
// callback webhook, and the JWT-protected admin API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(cfg.Logger))
	r.Use(Metrics)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", HealthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/open", HandleOpenGate(cfg.Access))
	r.Get("/access/{token}", HandleAccessInfo(cfg.Access))

	if cfg.WebhookSlug != "" {
		pulse := HandlePulse(cfg.PulseSeconds)
		r.Get("/pulse/"+cfg.WebhookSlug, pulse)
		r.Post("/pulse/"+cfg.WebhookSlug, pulse)
	}

	r.Route("/admin", func(r chi.Router) {
		r.Use(RequireAuth(cfg.JWTSecret))

		r.Get("/grants", HandleListGrants(cfg.Grants))
		r.Post("/grants", HandleCreateGrant(cfg.Grants))
		r.Put("/grants/{id}", HandleUpdateGrant(cfg.Grants))
		r.Delete("/grants/{id}", HandleDeleteGrant(cfg.Grants))
		r.Post("/grants/{id}/suspend", HandleSetSuspension(cfg.Grants, true))
		r.Post("/grants/{id}/resume", HandleSetSuspension(cfg.Grants, false))

		r.Get("/locations", HandleListLocations(cfg.Grants))
		r.Get("/history", HandleListHistory(cfg.Grants))
		r.Get("/audit", HandleListAudit(cfg.Grants))
	})

	return CORS(cfg.CORSOrigins, r)
}
