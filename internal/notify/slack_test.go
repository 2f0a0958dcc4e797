package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSlack_OK(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		got = payload["text"]
		w.WriteHeader(200)
	}))
	defer ts.Close()

	s := NewSlack(true, ts.URL, 2*time.Second)
	if err := s.Ready(); err != nil {
		t.Fatalf("ready: %v", err)
	}
	if err := s.Send(context.Background(), Message{Subject: "Title", Body: "Hello"}); err != nil {
		t.Fatalf("send err: %v", err)
	}
	if got != "*Title*\nHello" {
		t.Fatalf("payload not as expected: %q", got)
	}
}

func TestSlack_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	s := NewSlack(true, ts.URL, 2*time.Second)
	if err := s.Send(context.Background(), Message{Subject: "X", Body: "Y"}); err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}

func TestSlack_NoWebhookIsNotReady(t *testing.T) {
	s := NewSlack(true, "", 0)
	if err := s.Ready(); err == nil {
		t.Fatal("expected missing webhook")
	}
}
