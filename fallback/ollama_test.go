package fallback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spektr-org/ratelens/engine"
)

func TestOllamaRespond(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte(`{"response":"  Rental prices vary by season.  "}`))
	}))
	defer srv.Close()

	o := NewOllama(Config{URL: srv.URL, Model: "tiny"}, nil)
	text, err := o.Respond(context.Background(), "why are prices high?", nil)
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if text != "Rental prices vary by season." {
		t.Errorf("text = %q", text)
	}
	if got.Model != "tiny" || got.Stream || got.Prompt != "why are prices high?" {
		t.Errorf("request = %+v", got)
	}
}

func TestOllamaErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"status", http.StatusInternalServerError, "boom"},
		{"bad json", http.StatusOK, "{"},
		{"model error", http.StatusOK, `{"error":"model not found"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			if _, err := NewOllama(Config{URL: srv.URL}, nil).Respond(context.Background(), "hi", nil); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestOllamaEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":""}`))
	}))
	defer srv.Close()

	text, err := NewOllama(Config{URL: srv.URL}, nil).Respond(context.Background(), "hi", nil)
	if err != nil || !strings.HasPrefix(text, "Sorry") {
		t.Errorf("text = %q, err = %v", text, err)
	}
}

func TestOllamaUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	o := NewOllama(Config{URL: url, Timeout: time.Second}, nil)
	if _, err := o.Respond(context.Background(), "hi", nil); err == nil {
		t.Error("expected a connection error")
	}
}

func TestNewOllamaDefaults(t *testing.T) {
	o := NewOllama(Config{}, nil)
	if o.config != DefaultConfig() {
		t.Errorf("config = %+v", o.config)
	}
}

func TestBuildPrompt(t *testing.T) {
	if got := BuildPrompt("hello", nil); got != "hello" {
		t.Errorf("no summary: %q", got)
	}
	if got := BuildPrompt("hello", &engine.Summary{}); got != "hello" {
		t.Errorf("empty summary: %q", got)
	}

	s := &engine.Summary{
		TotalRecords:     12,
		UniqueSuppliers:  3,
		UniqueCategories: 4,
		DateRange:        engine.DateRange{Min: "2024-04-01", Max: "2024-04-30"},
		Websites:         []string{"Expedia", "Kayak"},
	}
	got := BuildPrompt("which is best?", s)
	for _, want := range []string{
		"12 price quotes from 3 suppliers across 4 car categories",
		"2024-04-01 to 2024-04-30",
		"websites: Expedia, Kayak",
		"QUESTION: which is best?",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}
