package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/promoloop/promoloop/internal/campaign"
	"github.com/promoloop/promoloop/internal/channels/whatsapp"
	"github.com/promoloop/promoloop/internal/http/handlers"
	httpmiddleware "github.com/promoloop/promoloop/internal/http/middleware"
	"github.com/promoloop/promoloop/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	WebhookHandler     *whatsapp.WebhookHandler
	CampaignHandler    *campaign.Handler
	AdminSurvey        *handlers.AdminSurveyHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints: health, metrics, the WhatsApp webhook and the
	// campaign API the dashboard consumes.
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.WebhookHandler != nil {
			public.Get("/webhook", cfg.WebhookHandler.HandleVerification)
			public.Post("/webhook", cfg.WebhookHandler.HandleInbound)
		}
		if cfg.CampaignHandler != nil {
			public.Route("/api/marketing", func(api chi.Router) {
				api.Post("/generate", cfg.CampaignHandler.Generate)
				// The cross-user listing is an operator view; the
				// single-campaign reads stay public for the dashboard.
				if cfg.AdminAuthSecret != "" {
					api.With(httpmiddleware.AdminJWT(cfg.AdminAuthSecret)).Get("/campaigns", cfg.CampaignHandler.List)
				} else {
					api.Get("/campaigns", cfg.CampaignHandler.List)
				}
				api.Get("/campaigns/{campaignID}", cfg.CampaignHandler.Get)
				api.Get("/campaigns/{campaignID}/export", cfg.CampaignHandler.Export)
			})
			public.Get("/dashboard/campaigns/{campaignID}", cfg.CampaignHandler.DashboardPage)
		}
	})

	// Admin read views, protected by the HMAC admin JWT.
	if cfg.AdminAuthSecret != "" && cfg.AdminSurvey != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/responses", cfg.AdminSurvey.ListResponses)
			admin.Get("/messages", cfg.AdminSurvey.ListMessages)
		})
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
