package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/posada-hms/posada/internal/auth"
	"github.com/posada-hms/posada/internal/billing"
	"github.com/posada-hms/posada/internal/guests"
	"github.com/posada-hms/posada/internal/platform/httpx"
	"github.com/posada-hms/posada/internal/reports"
	"github.com/posada-hms/posada/internal/rooms"
	"github.com/posada-hms/posada/internal/settings"
	"github.com/posada-hms/posada/internal/shared"
	"github.com/posada-hms/posada/internal/shifts"
	"github.com/posada-hms/posada/internal/stays"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	SessionManager  *shared.SessionManager
	AuthService     *auth.Service
	AuthHandler     *auth.Handler
	SettingsHandler *settings.Handler
	GuestsHandler   *guests.Handler
	RoomsHandler    *rooms.Handler
	StaysHandler    *stays.Handler
	BillingHandler  *billing.Handler
	ShiftsHandler   *shifts.Handler
	ReportsHandler  *reports.Handler
	Pool            *pgxpool.Pool
}

// NewRouter assembles the HTTP surface.
func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         p.Logger,
		Config:         p.Config,
		SessionManager: p.SessionManager,
		AuthService:    p.AuthService,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if p.Pool != nil {
			if err := p.Pool.Ping(req.Context()); err != nil {
				httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", "database unreachable")
				return
			}
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/auth", p.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(httpx.RequireAuth)
		r.Route("/settings", p.SettingsHandler.MountRoutes)
		r.Route("/guests", p.GuestsHandler.MountRoutes)
		r.Route("/rooms", p.RoomsHandler.MountRoutes)
		r.Route("/stays", p.StaysHandler.MountRoutes)
		r.Route("/billing", p.BillingHandler.MountRoutes)
		r.Route("/shifts", p.ShiftsHandler.MountRoutes)
		r.Route("/reports", p.ReportsHandler.MountRoutes)
		r.Route("/users", p.AuthHandler.MountUserRoutes)
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "no such route")
	})

	return r
}
