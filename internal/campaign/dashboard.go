package campaign

import "net/http"

// DashboardPage serves the campaign dashboard UI. The page fetches the
// campaign JSON from the API and renders it client side.
func (h *Handler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(dashboardHTML))
}

const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Campaign Dashboard</title>
  <style>
    :root { color-scheme: light; }
    body { font-family: system-ui, -apple-system, sans-serif; margin: 0; background: #f8fafc; color: #1e293b; }
    .wrap { max-width: 1100px; margin: 0 auto; padding: 24px; }
    header h1 { margin: 0 0 4px; font-size: 1.6rem; }
    header p { margin: 0; color: #64748b; font-size: 0.95rem; }
    .meta { color: #64748b; font-size: 0.85rem; margin-top: 8px; }
    .panel { background: #fff; border: 1px solid #e2e8f0; border-radius: 10px; padding: 16px 20px; margin-top: 20px; }
    .panel h2 { margin: 0 0 12px; font-size: 1.05rem; }
    .ad { border-bottom: 1px solid #f1f5f9; padding: 10px 0; }
    .ad:last-child { border-bottom: none; }
    .label { font-size: 0.75rem; text-transform: uppercase; letter-spacing: 0.04em; color: #94a3b8; margin-top: 8px; }
    .tag { display: inline-block; background: #f1f5f9; border-radius: 999px; padding: 2px 10px; margin: 2px; font-size: 0.8rem; }
    table { width: 100%; border-collapse: collapse; font-size: 0.9rem; }
    th, td { text-align: left; padding: 8px 10px; border-bottom: 1px solid #f1f5f9; vertical-align: top; }
    th { background: #f8fafc; font-size: 0.8rem; color: #64748b; }
    .kpi { display: flex; justify-content: space-between; padding: 6px 0; border-bottom: 1px solid #f1f5f9; }
    .kpi:last-child { border-bottom: none; }
    .actions { margin-top: 16px; }
    .actions a { display: inline-block; background: #4f46e5; color: #fff; text-decoration: none; padding: 8px 16px; border-radius: 8px; font-size: 0.9rem; }
    #error { color: #b91c1c; margin-top: 20px; }
  </style>
</head>
<body>
  <div class="wrap">
    <header>
      <h1 id="name">Loading campaign...</h1>
      <p id="objective"></p>
      <div class="meta" id="meta"></div>
    </header>
    <div id="error" hidden></div>
    <div id="content" hidden>
      <div class="panel"><h2>Google Ads</h2><div id="ads"></div></div>
      <div class="panel"><h2>Instagram Reels</h2><div id="reels"></div></div>
      <div class="panel"><h2>Hashtags</h2><div id="hashtags"></div></div>
      <div class="panel"><h2>Social Posts</h2>
        <table><thead><tr><th>Platform</th><th>Type</th><th>Caption</th></tr></thead><tbody id="posts"></tbody></table>
      </div>
      <div class="panel"><h2>KPIs</h2><div id="kpis"></div></div>
      <div class="actions"><a id="export" href="#">Export as CSV</a></div>
    </div>
  </div>
  <script>
    const id = window.location.pathname.split("/").pop();
    const esc = (s) => { const d = document.createElement("div"); d.textContent = s == null ? "" : String(s); return d.innerHTML; };

    fetch("/api/marketing/campaigns/" + id)
      .then((r) => { if (!r.ok) throw new Error("campaign not found"); return r.json(); })
      .then(({ data }) => render(data))
      .catch((err) => {
        document.getElementById("name").textContent = "Campaign";
        const el = document.getElementById("error");
        el.hidden = false;
        el.textContent = err.message;
      });

    function render(c) {
      const gen = c.generated || {};
      document.getElementById("name").textContent = gen.campaign_name || c.campaign_name || "Campaign";
      document.getElementById("objective").textContent = gen.objective || c.objective || "";
      document.getElementById("meta").textContent =
        "Timeframe: " + (c.timeframe || "monthly") + " | Channels: " + (c.channels || []).join(", ") + " | Created: " + (c.created_at || "");
      document.getElementById("export").href = "/api/marketing/campaigns/" + id + "/export";

      document.getElementById("ads").innerHTML = (gen.google_ads || []).map((ad, i) =>
        '<div class="ad"><strong>Ad #' + (i + 1) + "</strong>" +
        '<div class="label">Headlines</div>' + (ad.headlines || []).map(esc).join(" | ") +
        '<div class="label">Descriptions</div>' + (ad.descriptions || []).map(esc).join(" | ") +
        '<div class="label">Keywords</div>' + (ad.keywords || []).map(esc).join(", ") +
        '<div class="label">Budget</div>' + esc(ad.budget_monthly) + "</div>"
      ).join("") || "No ads generated.";

      document.getElementById("reels").innerHTML = (gen.instagram_reels || []).map((r) =>
        '<div class="ad"><strong>' + esc(r.title) + "</strong><p>" + esc(r.script) + "</p>" +
        (r.hashtags || []).map((t) => '<span class="tag">' + esc(t) + "</span>").join("") + "</div>"
      ).join("") || "No reel ideas generated.";

      document.getElementById("hashtags").innerHTML = Object.entries(gen.hashtags || {}).map(([group, tags]) =>
        '<div class="label">' + esc(group) + "</div>" +
        (tags || []).map((t) => '<span class="tag">' + esc(t) + "</span>").join("")
      ).join("");

      document.getElementById("posts").innerHTML = (gen.social_posts || []).map((p) =>
        "<tr><td>" + esc(p.platform) + "</td><td>" + esc(p.type) + "</td><td>" + esc(p.caption) + "</td></tr>"
      ).join("");

      document.getElementById("kpis").innerHTML = Object.entries(gen.kpis || {}).map(([k, v]) =>
        '<div class="kpi"><span>' + esc(k.replace(/_/g, " ")) + "</span><strong>" + esc(v) + "</strong></div>"
      ).join("");

      document.getElementById("content").hidden = false;
    }
  </script>
</body>
</html>
`
