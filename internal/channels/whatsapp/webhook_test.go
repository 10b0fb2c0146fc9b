package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestHandleVerification(t *testing.T) {
	h := NewWebhookHandler("my_verify_token", nil, nil, nil)

	t.Run("valid challenge", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=subscribe&hub.verify_token=my_verify_token&hub.challenge=CHALLENGE_123",
			nil)
		w := httptest.NewRecorder()
		h.HandleVerification(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if w.Body.String() != "CHALLENGE_123" {
			t.Fatalf("expected CHALLENGE_123, got %s", w.Body.String())
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=X",
			nil)
		w := httptest.NewRecorder()
		h.HandleVerification(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("wrong mode", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet,
			"/webhook?hub.mode=unsubscribe&hub.verify_token=my_verify_token&hub.challenge=X",
			nil)
		w := httptest.NewRecorder()
		h.HandleVerification(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})
}

const sampleBatch = `{
	"object": "whatsapp_business_account",
	"entry": [
		{
			"id": "entry_1",
			"changes": [
				{
					"field": "messages",
					"value": {
						"messaging_product": "whatsapp",
						"metadata": {"display_phone_number": "15550001111", "phone_number_id": "pnid_1"},
						"messages": [
							{"from": "15551230001", "id": "wamid.1", "type": "text", "text": {"body": "hello"}},
							{"from": "15551230002", "id": "wamid.2", "type": "text", "text": {"body": "hi there"}}
						]
					}
				}
			]
		},
		{
			"id": "entry_2",
			"changes": [
				{
					"field": "messages",
					"value": {
						"messaging_product": "whatsapp",
						"messages": [
							{"from": "15551230003", "id": "wamid.3", "type": "image"}
						]
					}
				}
			]
		}
	]
}`

func TestHandleInboundDispatchesAllMessages(t *testing.T) {
	var mu sync.Mutex
	var got []InboundMessage

	h := NewWebhookHandler("token", func(ctx context.Context, msg InboundMessage) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, msg)
	}, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(sampleBatch))
	w := httptest.NewRecorder()
	h.HandleInbound(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 dispatched messages, got %d", len(got))
	}

	bodies := map[string]string{}
	for _, m := range got {
		bodies[m.From] = m.Body
	}
	if bodies["15551230001"] != "hello" {
		t.Errorf("body for 15551230001 = %q", bodies["15551230001"])
	}
	// Non-text message still dispatched with empty body; the engine ignores it.
	if body, ok := bodies["15551230003"]; !ok || body != "" {
		t.Errorf("body for 15551230003 = %q, ok=%v", body, ok)
	}
}

func TestHandleInboundMissingObject(t *testing.T) {
	h := NewWebhookHandler("token", nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"entry":[]}`))
	w := httptest.NewRecorder()
	h.HandleInbound(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandleInboundBadJSON(t *testing.T) {
	h := NewWebhookHandler("token", nil, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()
	h.HandleInbound(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestParseWebhookEventEmpty(t *testing.T) {
	msgs := ParseWebhookEvent(WebhookEvent{Object: "whatsapp_business_account"})
	if len(msgs) != 0 {
		t.Fatalf("expected no messages, got %d", len(msgs))
	}
}
