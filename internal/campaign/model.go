package campaign

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Campaign is one stored generation result: the operator's prompt plus the
// structured plan the model produced.
type Campaign struct {
	ID           uuid.UUID       `json:"id"`
	UserID       string          `json:"user_id"`
	Prompt       string          `json:"prompt"`
	CampaignName string          `json:"campaign_name"`
	Objective    string          `json:"objective"`
	Timeframe    string          `json:"timeframe"`
	Channels     []string        `json:"channels"`
	Generated    json.RawMessage `json:"generated"`
	CreatedAt    time.Time       `json:"created_at"`
}

// GeneratedPlan is the structured plan the model is asked to return.
type GeneratedPlan struct {
	CampaignName   string         `json:"campaign_name"`
	Objective      string         `json:"objective"`
	GoogleAds      []GoogleAd     `json:"google_ads"`
	InstagramReels []ReelIdea     `json:"instagram_reels"`
	Hashtags       HashtagGroups  `json:"hashtags"`
	SocialPosts    []SocialPost   `json:"social_posts"`
	KPIs           map[string]any `json:"kpis"`
}

// GoogleAd is one search ad variant.
type GoogleAd struct {
	Type          string   `json:"type"`
	Headlines     []string `json:"headlines"`
	Descriptions  []string `json:"descriptions"`
	Keywords      []string `json:"keywords"`
	BudgetMonthly string   `json:"budget_monthly"`
}

// ReelIdea is one short-form video concept.
type ReelIdea struct {
	Title    string   `json:"title"`
	Script   string   `json:"script"`
	Hashtags []string `json:"hashtags"`
}

// HashtagGroups buckets hashtags by reach tier.
type HashtagGroups struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
	Niche     []string `json:"niche"`
}

// SocialPost is one calendar entry.
type SocialPost struct {
	Platform   string `json:"platform"`
	Type       string `json:"type"`
	Caption    string `json:"caption"`
	VisualIdea string `json:"visual_idea,omitempty"`
}
