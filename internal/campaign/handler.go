package campaign

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/promoloop/promoloop/pkg/logging"
)

// Handler exposes campaign generation and retrieval over HTTP.
type Handler struct {
	generator *Generator
	repo      Repository
	logger    *logging.Logger
}

func NewHandler(generator *Generator, repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{generator: generator, repo: repo, logger: logger}
}

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{Success: false, Error: msg})
}

// Generate handles POST /api/marketing/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	campaign, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		h.logger.Error("campaign generation failed", "user", req.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to generate campaign")
		return
	}
	writeJSON(w, http.StatusOK, successEnvelope{Success: true, Data: campaign})
}

// List handles GET /api/marketing/campaigns. An optional user_id query
// parameter narrows the result to one user's campaigns.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	campaigns, err := h.repo.List(r.Context(), r.URL.Query().Get("user_id"), limit)
	if err != nil {
		h.logger.Error("failed to list campaigns", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if campaigns == nil {
		campaigns = []Campaign{}
	}
	writeJSON(w, http.StatusOK, successEnvelope{Success: true, Data: campaigns})
}

// Get handles GET /api/marketing/campaigns/{campaignID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	campaign, ok := h.loadCampaign(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, successEnvelope{Success: true, Data: campaign})
}

// Export handles GET /api/marketing/campaigns/{campaignID}/export.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	campaign, ok := h.loadCampaign(w, r)
	if !ok {
		return
	}

	csvText, err := ExportCSV(campaign)
	if err != nil {
		h.logger.Error("failed to export campaign", "id", campaign.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	name := campaign.CampaignName
	if name == "" {
		name = "campaign"
	}
	filename := strings.Join(strings.Fields(name), "_") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write([]byte(csvText))
}

func (h *Handler) loadCampaign(w http.ResponseWriter, r *http.Request) (*Campaign, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "campaignID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return nil, false
	}

	campaign, err := h.repo.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "campaign not found")
		return nil, false
	}
	if err != nil {
		h.logger.Error("failed to load campaign", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return campaign, true
}
