package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/promoloop/promoloop/internal/http/middleware"
	"github.com/promoloop/promoloop/internal/messaging"
	"github.com/promoloop/promoloop/internal/survey"
	"github.com/promoloop/promoloop/pkg/logging"
)

// AdminSurveyHandler serves the admin read views over completed briefs and
// the message log.
type AdminSurveyHandler struct {
	responses survey.Store
	messages  messaging.Store
	questions survey.Questions
	logger    *logging.Logger
}

func NewAdminSurveyHandler(responses survey.Store, messages messaging.Store, questions survey.Questions, logger *logging.Logger) *AdminSurveyHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminSurveyHandler{
		responses: responses,
		messages:  messages,
		questions: questions,
		logger:    logger,
	}
}

// BriefResponse is one completed brief with questions joined to answers.
type BriefResponse struct {
	ID          string       `json:"id"`
	SenderID    string       `json:"sender_id"`
	Brief       []BriefEntry `json:"brief"`
	CompletedAt string       `json:"completed_at"`
}

// BriefEntry pairs one question with the recorded answer.
type BriefEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ListResponses returns recently completed briefs.
// GET /admin/responses
func (h *AdminSurveyHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	completed, err := h.responses.ListCompleted(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list responses", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]BriefResponse, 0, len(completed))
	for _, resp := range completed {
		brief := make([]BriefEntry, 0, len(h.questions))
		for i, q := range h.questions {
			brief = append(brief, BriefEntry{Question: q, Answer: resp.Answers[i]})
		}
		out = append(out, BriefResponse{
			ID:          resp.ID.String(),
			SenderID:    resp.SenderID,
			Brief:       brief,
			CompletedAt: resp.CompletedAt.Format(time.RFC3339),
		})
	}

	if subject, ok := middleware.AdminSubject(r.Context()); ok {
		h.logger.Info("admin listed responses", "subject", subject, "total", len(out))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"responses": out,
		"total":     len(out),
	})
}

// ListMessages returns the recent message log.
// GET /admin/messages
func (h *AdminSurveyHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.messages.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list messages", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []messaging.ExchangeRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"messages": records,
		"total":    len(records),
	})
}
