package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/promoloop/promoloop/internal/observability/metrics"
	"github.com/promoloop/promoloop/pkg/logging"
)

// WebhookHandler handles WhatsApp webhook verification and inbound messages.
type WebhookHandler struct {
	verifyToken string
	onMessage   func(ctx context.Context, msg InboundMessage)
	logger      *logging.Logger
	metrics     *metrics.WebhookMetrics
}

// NewWebhookHandler creates a new webhook handler.
// onMessage is called once per parsed inbound message; calls for different
// senders in one delivery batch run concurrently.
func NewWebhookHandler(verifyToken string, onMessage func(ctx context.Context, msg InboundMessage), logger *logging.Logger, m *metrics.WebhookMetrics) *WebhookHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &WebhookHandler{
		verifyToken: verifyToken,
		onMessage:   onMessage,
		logger:      logger,
		metrics:     m,
	}
}

// HandleVerification handles the GET webhook verification challenge from Meta.
func (h *WebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, challenge)
		return
	}

	h.logger.Warn("webhook verification failed", "mode", mode)
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// HandleInbound handles POST webhook deliveries. Every message in every
// change in every entry is dispatched; the Gateway is acknowledged with 200
// once processing completes, regardless of per-message outcomes.
func (h *WebhookHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var event WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if event.Object == "" {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	messages := ParseWebhookEvent(event)

	// Messages from different senders are independent; fan out and wait so
	// the 200 acknowledges a fully processed batch.
	var wg sync.WaitGroup
	for _, msg := range messages {
		if h.onMessage == nil {
			break
		}
		wg.Add(1)
		go func(m InboundMessage) {
			defer wg.Done()
			h.onMessage(r.Context(), m)
		}(msg)
	}
	wg.Wait()

	h.metrics.ObserveBatchLatency(time.Since(start).Seconds())
	w.WriteHeader(http.StatusOK)
}

// ParseWebhookEvent extracts InboundMessages from a webhook event.
func ParseWebhookEvent(event WebhookEvent) []InboundMessage {
	var messages []InboundMessage

	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				body := ""
				if m.Text != nil {
					body = m.Text.Body
				}
				messages = append(messages, InboundMessage{
					From: m.From,
					Body: body,
				})
			}
		}
	}

	return messages
}
