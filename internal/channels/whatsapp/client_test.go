package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendText(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody SendRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SendResponse{Messages: []SentMessage{{ID: "wamid.out.1"}}})
	}))
	defer srv.Close()

	c := NewClient("pnid_1", "token123")
	c.SetGraphAPIBase(srv.URL)

	if err := c.SendText(context.Background(), "15551230001", "What is your business called?"); err != nil {
		t.Fatalf("SendText: %v", err)
	}

	if gotPath != "/pnid_1/messages" {
		t.Errorf("path = %s, want /pnid_1/messages", gotPath)
	}
	if gotAuth != "Bearer token123" {
		t.Errorf("auth = %s", gotAuth)
	}
	if gotBody.MessagingProduct != "whatsapp" {
		t.Errorf("messaging_product = %s", gotBody.MessagingProduct)
	}
	if gotBody.To != "15551230001" {
		t.Errorf("to = %s", gotBody.To)
	}
	if gotBody.Text.Body != "What is your business called?" {
		t.Errorf("body = %s", gotBody.Text.Body)
	}
}

func TestSendTextAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(SendResponse{Error: &APIError{Message: "Invalid OAuth access token", Type: "OAuthException", Code: 190}})
	}))
	defer srv.Close()

	c := NewClient("pnid_1", "expired")
	c.SetGraphAPIBase(srv.URL)

	err := c.SendText(context.Background(), "15551230001", "hi")
	if err == nil {
		t.Fatal("expected error for API error response")
	}
}

func TestSendTextUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient("pnid_1", "token")
	c.SetGraphAPIBase(srv.URL)

	if err := c.SendText(context.Background(), "15551230001", "hi"); err == nil {
		t.Fatal("expected error for 502 response")
	}
}
