package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTelegramEnabled(t *testing.T) {
	if NewTelegram("", nil, time.Second).Enabled() {
		t.Fatalf("expected notifier without token to be disabled")
	}
	if NewTelegram("123:abc", nil, time.Second).Enabled() {
		t.Fatalf("expected notifier without recipients to be disabled")
	}
	if !NewTelegram("123:abc", []string{"100"}, time.Second).Enabled() {
		t.Fatalf("expected configured notifier to be enabled")
	}
}

func TestTelegramSend(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	n := NewTelegram("123:abc", []string{"100"}, time.Second)
	n.apiBase = server.URL

	if err := n.Send(context.Background(), "100", "Evrak durumu değişti"); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if gotPath != "/bot123:abc/sendMessage" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotBody["chat_id"] != "100" || gotBody["text"] != "Evrak durumu değişti" {
		t.Fatalf("unexpected payload %v", gotBody)
	}
}

func TestTelegramSendAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	n := NewTelegram("123:abc", []string{"100"}, time.Second)
	n.apiBase = server.URL

	if err := n.Send(context.Background(), "100", "x"); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}
