package campaign

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// csvRow is one export row. Keys keep insertion order so the header reflects
// the order rows introduce their columns.
type csvRow struct {
	keys  []string
	cells map[string]string
}

func newCSVRow() *csvRow {
	return &csvRow{cells: make(map[string]string)}
}

func (r *csvRow) set(key, value string) {
	if _, ok := r.cells[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.cells[key] = value
}

// ExportCSV flattens a campaign into CSV text. The layout is one summary
// row, one row per Google ad, reel idea and social post, and a trailing KPI
// row. The header is the union of all row columns in first-seen order;
// rows leave columns they do not use empty. Data cells are always quoted.
func ExportCSV(c *Campaign) (string, error) {
	var plan GeneratedPlan
	if len(c.Generated) > 0 {
		if err := json.Unmarshal(c.Generated, &plan); err != nil {
			return "", fmt.Errorf("campaign: decode plan for export: %w", err)
		}
	}

	rows := flattenCampaign(c, &plan)

	var header []string
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, k := range row.keys {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	for _, row := range rows {
		b.WriteByte('\n')
		for i, k := range header {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteCell(row.cells[k]))
		}
	}
	return b.String(), nil
}

func flattenCampaign(c *Campaign, plan *GeneratedPlan) []*csvRow {
	var rows []*csvRow

	name := c.CampaignName
	if name == "" {
		name = plan.CampaignName
	}
	objective := c.Objective
	if objective == "" {
		objective = plan.Objective
	}

	summary := newCSVRow()
	summary.set("type", "campaign")
	summary.set("campaignName", name)
	summary.set("objective", objective)
	summary.set("timeframe", c.Timeframe)
	summary.set("channels", strings.Join(c.Channels, "|"))
	rows = append(rows, summary)

	for i, ad := range plan.GoogleAds {
		row := newCSVRow()
		row.set("type", fmt.Sprintf("google_ad_%d", i+1))
		row.set("ad_type", ad.Type)
		row.set("headlines", strings.Join(ad.Headlines, " | "))
		row.set("descriptions", strings.Join(ad.Descriptions, " | "))
		row.set("keywords", strings.Join(ad.Keywords, " | "))
		row.set("budget_monthly", ad.BudgetMonthly)
		rows = append(rows, row)
	}

	for i, reel := range plan.InstagramReels {
		row := newCSVRow()
		row.set("type", fmt.Sprintf("ig_reel_%d", i+1))
		row.set("title", reel.Title)
		row.set("script", reel.Script)
		row.set("hashtags", strings.Join(reel.Hashtags, " | "))
		rows = append(rows, row)
	}

	for i, post := range plan.SocialPosts {
		row := newCSVRow()
		row.set("type", fmt.Sprintf("social_post_%d", i+1))
		row.set("platform", post.Platform)
		row.set("post_type", post.Type)
		row.set("caption", post.Caption)
		rows = append(rows, row)
	}

	kpis := newCSVRow()
	kpis.set("type", "kpis")
	kpiKeys := make([]string, 0, len(plan.KPIs))
	for k := range plan.KPIs {
		kpiKeys = append(kpiKeys, k)
	}
	sort.Strings(kpiKeys)
	for _, k := range kpiKeys {
		kpis.set(k, fmt.Sprint(plan.KPIs[k]))
	}
	rows = append(rows, kpis)

	return rows
}

// quoteCell quotes every data cell so captions and ad copy can carry commas
// and newlines without breaking the row structure.
func quoteCell(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
