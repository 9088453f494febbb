package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Submission *SubmissionHandler
	Station    *StationHandler
	Ballot     *BallotHandler
	Panel      *PanelHandler
	Health     *HealthHandler
}

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	AuditLogger    *slog.Logger
}

func NewHandler(h Handlers, authService ports.AuthService, cfg RouterConfig) http.Handler {
	logger := loggerOrDefault(cfg.Logger)
	auditLogger := cfg.AuditLogger
	if auditLogger == nil {
		auditLogger = logger.With("logger", "audit")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", h.Health.Healthz)

	r.Route("/auth", func(r chi.Router) {
		r.Use(OptionalAuthenticate(authService))
		r.Use(AuditTrail(auditLogger))
		r.Post("/login", h.Auth.Login)
		r.Post("/refresh", h.Auth.Refresh)
		r.Post("/logout", h.Auth.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(Authenticate(authService))

		r.Get("/me", h.User.GetMe)
		r.Get("/boleta", h.Ballot.Ballot)

		r.Route("/operador", func(r chi.Router) {
			r.Use(AuditTrail(auditLogger))
			r.Post("/guardar-votos", h.Submission.SubmitVotes)
			r.Get("/mesas", h.Station.ListStations)
			r.Get("/mesa/{mesa_id}/datos", h.Station.StationData)
		})

		r.Route("/panel", func(r chi.Router) {
			r.Get("/summary", h.Panel.Summary)
			r.Get("/summary_both", h.Panel.SummaryBoth)
			r.Get("/subcomandos", h.Panel.Subjurisdictions)
			r.Get("/metadata", h.Panel.Metadata)
			r.Get("/online-users", h.User.OnlineUsers)
		})
	})

	return r
}
