package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/promoloop/promoloop/internal/api/router"
	"github.com/promoloop/promoloop/internal/campaign"
	"github.com/promoloop/promoloop/internal/channels/whatsapp"
	appconfig "github.com/promoloop/promoloop/internal/config"
	"github.com/promoloop/promoloop/internal/http/handlers"
	"github.com/promoloop/promoloop/internal/messaging"
	"github.com/promoloop/promoloop/internal/notify"
	"github.com/promoloop/promoloop/internal/observability/metrics"
	"github.com/promoloop/promoloop/internal/survey"
	"github.com/promoloop/promoloop/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting promoloop API server", "env", cfg.Env, "port", cfg.Port)

	ctx := context.Background()

	webhookMetrics := metrics.NewWebhookMetrics(nil)
	generationMetrics := metrics.NewGenerationMetrics(nil)

	// Persistence. Without a database the server runs fully in memory, which
	// is enough for local development against the sandbox WhatsApp number.
	var (
		surveyStore  survey.Store
		messageStore messaging.Store
		campaignRepo campaign.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		surveyStore = survey.NewPostgresStore(pool)
		messageStore = messaging.NewPostgresStore(pool)
		campaignRepo = campaign.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
		surveyStore = survey.NewMemoryStore()
		messageStore = messaging.NewMemoryStore()
		campaignRepo = campaign.NewMemoryRepository()
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, campaign cache disabled", "error", err)
		} else {
			campaignRepo = campaign.NewCachedRepository(campaignRepo, rdb, cfg.CampaignCacheTTL, logger)
			defer func() { _ = rdb.Close() }()
		}
	}

	// Conversation engine and outbound dispatch.
	questions := survey.DefaultQuestions()
	engine, err := survey.NewEngine(surveyStore, questions, logger)
	if err != nil {
		logger.Error("failed to create survey engine", "error", err)
		os.Exit(1)
	}

	waClient := whatsapp.NewClient(cfg.WhatsAppPhoneNumberID, cfg.WhatsAppAccessToken)
	if cfg.GraphAPIBaseURL != "" {
		waClient.SetGraphAPIBase(cfg.GraphAPIBaseURL)
	}
	dispatcher := messaging.NewDispatcher(waClient, messageStore, logger, webhookMetrics)

	var emailSender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		emailSender = sg
	} else {
		emailSender = notify.NewStubEmailSender(logger)
	}
	notifier := notify.NewBriefNotifier(emailSender, questions, cfg.BriefNotifyEmail, logger)

	responder := survey.NewResponder(engine, dispatcher, notifierOrNil(notifier), logger, webhookMetrics)
	webhookHandler := whatsapp.NewWebhookHandler(cfg.WhatsAppVerifyToken, func(ctx context.Context, msg whatsapp.InboundMessage) {
		responder.Handle(ctx, msg.From, msg.Body)
	}, logger, webhookMetrics)

	// Campaign generation.
	var llm campaign.TextGenerator
	if cfg.GeminiAPIKey != "" {
		gemini, err := campaign.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gemini.Close() }()
		llm = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, campaign generation will fail")
		llm = unconfiguredLLM{}
	}
	generator, err := campaign.NewGenerator(llm, campaignRepo, campaign.GeneratorConfig{
		RetryDelay: cfg.GenerationRetryDelay,
		MaxRetries: cfg.GenerationMaxRetries,
	}, generationMetrics, logger)
	if err != nil {
		logger.Error("failed to create campaign generator", "error", err)
		os.Exit(1)
	}

	r := router.New(&router.Config{
		Logger:             logger,
		WebhookHandler:     webhookHandler,
		CampaignHandler:    campaign.NewHandler(generator, campaignRepo, logger),
		AdminSurvey:        handlers.NewAdminSurveyHandler(surveyStore, messageStore, questions, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// notifierOrNil keeps the typed-nil *BriefNotifier from sneaking into the
// CompletionNotifier interface.
func notifierOrNil(n *notify.BriefNotifier) survey.CompletionNotifier {
	if n == nil {
		return nil
	}
	return n
}

// unconfiguredLLM stands in when no API key is configured.
type unconfiguredLLM struct{}

func (unconfiguredLLM) GenerateText(context.Context, string) (string, error) {
	return "", campaign.ErrNotConfigured
}
