package campaign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/promoloop/promoloop/internal/observability/metrics"
	"github.com/promoloop/promoloop/pkg/logging"
)

const (
	defaultTimeframe  = "monthly"
	defaultRetryDelay = 10 * time.Second
	defaultMaxRetries = 2
)

func defaultChannels() []string {
	return []string{"google_ads", "instagram", "facebook"}
}

const promptTemplate = `You are a professional marketing strategist AI. Given this prompt: "%s", create a structured marketing plan including:
1. Campaign name & objective
2. Google Ads (headlines, descriptions, keywords, budget)
3. Instagram Reel ideas (title, script, hashtags)
4. Hashtags (primary, secondary, niche)
5. Social media posts (12 posts for monthly or 52 for yearly calendar)
6. KPIs (expected CTR, CVR, engagement)
Return the result strictly in JSON format, with keys:
{
  "campaign_name": "",
  "objective": "",
  "google_ads": [],
  "instagram_reels": [],
  "hashtags": { "primary": [], "secondary": [], "niche": [] },
  "social_posts": [],
  "kpis": {}
}.
`

// Request describes one generation call. Field names match the public API.
type Request struct {
	Prompt    string   `json:"prompt"`
	UserID    string   `json:"userId"`
	Timeframe string   `json:"timeframe"`
	Channels  []string `json:"channels"`
}

// GeneratorConfig tunes the retry behavior.
type GeneratorConfig struct {
	RetryDelay time.Duration
	MaxRetries int
}

// Generator turns an operator prompt into a persisted Campaign.
type Generator struct {
	llm        TextGenerator
	repo       Repository
	retryDelay time.Duration
	maxRetries int
	metrics    *metrics.GenerationMetrics
	logger     *logging.Logger
}

// NewGenerator creates a generator. repo may be nil to skip persistence.
func NewGenerator(llm TextGenerator, repo Repository, cfg GeneratorConfig, m *metrics.GenerationMetrics, logger *logging.Logger) (*Generator, error) {
	if llm == nil {
		return nil, errors.New("campaign: text generator is required")
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Generator{
		llm:        llm,
		repo:       repo,
		retryDelay: cfg.RetryDelay,
		maxRetries: cfg.MaxRetries,
		metrics:    m,
		logger:     logger,
	}, nil
}

// Generate builds the full prompt, calls the model with rate-limit retries,
// parses the plan out of the raw output and persists the campaign.
func (g *Generator) Generate(ctx context.Context, req Request) (*Campaign, error) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return nil, errors.New("campaign: prompt is required")
	}
	if strings.TrimSpace(req.Timeframe) == "" {
		req.Timeframe = defaultTimeframe
	}
	if len(req.Channels) == 0 {
		req.Channels = defaultChannels()
	}

	started := time.Now()
	raw, err := g.generateWithRetry(ctx, fmt.Sprintf(promptTemplate, req.Prompt))
	g.metrics.ObserveLatency(time.Since(started).Seconds())
	if err != nil {
		g.metrics.ObserveRequest("error")
		return nil, err
	}

	planJSON, plan, err := extractPlan(raw)
	if err != nil {
		g.metrics.ObserveRequest("parse_error")
		return nil, err
	}

	campaign := &Campaign{
		ID:           uuid.New(),
		UserID:       req.UserID,
		Prompt:       req.Prompt,
		CampaignName: plan.CampaignName,
		Objective:    plan.Objective,
		Timeframe:    req.Timeframe,
		Channels:     req.Channels,
		Generated:    planJSON,
		CreatedAt:    time.Now().UTC(),
	}
	if g.repo != nil {
		if err := g.repo.Insert(ctx, campaign); err != nil {
			g.metrics.ObserveRequest("store_error")
			return nil, err
		}
	}
	g.metrics.ObserveRequest("ok")
	g.logger.Info("campaign generated", "id", campaign.ID, "name", campaign.CampaignName, "user", campaign.UserID)
	return campaign, nil
}

func (g *Generator) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	var attempt int
	for {
		text, err := g.llm.GenerateText(ctx, prompt)
		if err == nil {
			return text, nil
		}
		if !isRateLimited(err) || attempt >= g.maxRetries {
			return "", err
		}
		attempt++
		g.metrics.ObserveRetry()
		g.logger.Warn("rate limit hit, retrying", "attempt", attempt, "delay", g.retryDelay)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(g.retryDelay):
		}
	}
}

// extractPlan takes the slice between the first '{' and the last '}' of the
// model output and decodes it. Models routinely wrap JSON in prose or code
// fences; everything outside the braces is discarded.
func extractPlan(raw string) (json.RawMessage, *GeneratedPlan, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, nil, &ParseError{Raw: raw, Err: errors.New("no JSON object in output")}
	}
	jsonText := raw[start : end+1]

	var plan GeneratedPlan
	if err := json.Unmarshal([]byte(jsonText), &plan); err != nil {
		return nil, nil, &ParseError{Raw: raw, Err: err}
	}
	return json.RawMessage(jsonText), &plan, nil
}
