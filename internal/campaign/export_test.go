package campaign

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func sampleCampaign(t *testing.T) *Campaign {
	t.Helper()
	plan := GeneratedPlan{
		CampaignName: "RefillRevolution",
		Objective:    "Reach Gen Z",
		GoogleAds: []GoogleAd{
			{Type: "Search Ad", Headlines: []string{"Eco Bottles", "Sustainable Hydration"}, Descriptions: []string{`Ditch "single-use" plastic`}, Keywords: []string{"eco bottle"}, BudgetMonthly: "$1,500"},
			{Type: "Display Ad", Headlines: []string{"Go Green"}, BudgetMonthly: "$500"},
		},
		InstagramReels: []ReelIdea{
			{Title: "Morning Routine", Script: "Wake up, grab bottle", Hashtags: []string{"#eco", "#morning"}},
		},
		Hashtags: HashtagGroups{Primary: []string{"#RefillRevolution"}},
		SocialPosts: []SocialPost{
			{Platform: "Instagram", Type: "Image", Caption: "The wait is over"},
			{Platform: "TikTok", Type: "Video", Caption: "Refill, don't landfill"},
			{Platform: "Facebook", Type: "Carousel", Caption: "Meet the bottle"},
		},
		KPIs: map[string]any{"google_ads_ctr": "3.5%", "engagement_rate": "5%"},
	}
	raw, err := json.Marshal(plan)
	if err != nil {
		t.Fatalf("marshal plan: %v", err)
	}
	return &Campaign{
		ID:           uuid.New(),
		CampaignName: "RefillRevolution",
		Objective:    "Reach Gen Z",
		Timeframe:    "monthly",
		Channels:     []string{"google_ads", "instagram"},
		Generated:    raw,
	}
}

func TestExportCSVRowLayout(t *testing.T) {
	csvText, err := ExportCSV(sampleCampaign(t))
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	lines := strings.Split(csvText, "\n")
	// Header + summary + 2 ads + 1 reel + 3 posts + kpis.
	if len(lines) != 9 {
		t.Fatalf("lines = %d, want 9:\n%s", len(lines), csvText)
	}

	for i, wantType := range []string{"campaign", "google_ad_1", "google_ad_2", "ig_reel_1", "social_post_1", "social_post_2", "social_post_3", "kpis"} {
		if !strings.HasPrefix(lines[i+1], `"`+wantType+`"`) {
			t.Errorf("row %d = %q, want type %q", i+1, lines[i+1], wantType)
		}
	}
}

func TestExportCSVHeaderFirstSeenOrder(t *testing.T) {
	csvText, err := ExportCSV(sampleCampaign(t))
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	header := strings.Split(csvText, "\n")[0]
	cols := strings.Split(header, ",")
	if cols[0] != "type" {
		t.Errorf("first column = %q, want type", cols[0])
	}

	// Summary columns come before ad columns, which come before reel columns.
	idx := func(name string) int {
		for i, c := range cols {
			if c == name {
				return i
			}
		}
		t.Fatalf("column %q missing from header %q", name, header)
		return -1
	}
	if !(idx("campaignName") < idx("ad_type") && idx("ad_type") < idx("title") && idx("title") < idx("platform")) {
		t.Errorf("header order wrong: %q", header)
	}
	if idx("google_ads_ctr") < idx("platform") {
		t.Errorf("kpi columns should come last: %q", header)
	}
}

func TestExportCSVQuotesEveryCell(t *testing.T) {
	csvText, err := ExportCSV(sampleCampaign(t))
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	lines := strings.Split(csvText, "\n")
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, `"`) || !strings.HasSuffix(line, `"`) {
			t.Errorf("row not fully quoted: %q", line)
		}
	}

	// Embedded quotes are doubled so spreadsheet imports keep the text intact.
	if !strings.Contains(csvText, `""single-use""`) {
		t.Error("embedded quotes not escaped")
	}
}

func TestExportCSVEmptyPlan(t *testing.T) {
	c := &Campaign{ID: uuid.New(), CampaignName: "Bare", Timeframe: "monthly"}
	csvText, err := ExportCSV(c)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	lines := strings.Split(csvText, "\n")
	// Header + summary + kpis.
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), csvText)
	}
}
