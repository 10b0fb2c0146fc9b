package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/promoloop/promoloop/internal/campaign"
	"github.com/promoloop/promoloop/internal/channels/whatsapp"
	"github.com/promoloop/promoloop/internal/http/handlers"
	"github.com/promoloop/promoloop/internal/messaging"
	"github.com/promoloop/promoloop/internal/survey"
)

type staticLLM struct{ out string }

func (s staticLLM) GenerateText(context.Context, string) (string, error) {
	return s.out, nil
}

func testConfig(t *testing.T, onMessage func(ctx context.Context, msg whatsapp.InboundMessage)) *Config {
	t.Helper()
	repo := campaign.NewMemoryRepository()
	gen, err := campaign.NewGenerator(staticLLM{out: `{"campaign_name":"Wired","objective":"o"}`}, repo, campaign.GeneratorConfig{RetryDelay: time.Millisecond}, nil, nil)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	return &Config{
		WebhookHandler:  whatsapp.NewWebhookHandler("verify-me", onMessage, nil, nil),
		CampaignHandler: campaign.NewHandler(gen, repo, nil),
		AdminSurvey:     handlers.NewAdminSurveyHandler(survey.NewMemoryStore(), messaging.NewMemoryStore(), survey.DefaultQuestions(), nil),
		AdminAuthSecret: "test-secret",
	}
}

func adminToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestHealthEndpoint(t *testing.T) {
	r := New(testConfig(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestWebhookVerificationWired(t *testing.T) {
	r := New(testConfig(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "12345" {
		t.Fatalf("status = %d, body = %q", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestWebhookInboundDispatch(t *testing.T) {
	var got []whatsapp.InboundMessage
	done := make(chan struct{})
	r := New(testConfig(t, func(_ context.Context, msg whatsapp.InboundMessage) {
		got = append(got, msg)
		close(done)
	}))

	payload := `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"messages":[{"from":"15551230001","text":{"body":"hello"}}]}}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	select {
	case <-done:
	default:
		t.Fatal("message not dispatched before acknowledgement")
	}
	if len(got) != 1 || got[0].Body != "hello" {
		t.Errorf("messages = %+v", got)
	}
}

func TestCampaignAPIWired(t *testing.T) {
	r := New(testConfig(t, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/marketing/generate", strings.NewReader(`{"prompt":"p"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"campaign_name":"Wired"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestAdminRoutesRequireJWT(t *testing.T) {
	r := New(testConfig(t, nil))

	for _, path := range []string{"/admin/responses", "/admin/messages", "/api/marketing/campaigns"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without token: status = %d, want 401", path, rec.Code)
		}

		req = httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+adminToken(t, "test-secret"))
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s with token: status = %d, want 200", path, rec.Code)
		}
	}
}

func TestAdminRoutesAbsentWithoutSecret(t *testing.T) {
	cfg := testConfig(t, nil)
	cfg.AdminAuthSecret = ""
	r := New(cfg)

	req := httptest.NewRequest(http.MethodGet, "/admin/responses", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when admin surface disabled", rec.Code)
	}
}
