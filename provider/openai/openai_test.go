package openai_provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompleteOverridesOptions(t *testing.T) {
	var got map[string]interface{}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"hello"}}]}`)
	}))
	defer srv.Close()

	c := NewClient("secret", srv.URL, "gpt-4o", 0.7, 500, 0)
	out, err := c.Complete(context.Background(), "prompt", map[string]interface{}{
		"temperature": 0.3,
		"max_tokens":  10000,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if out != "hello" {
		t.Fatalf("Complete = %q", out)
	}
	if auth != "Bearer secret" {
		t.Fatalf("auth header = %q", auth)
	}
	if got["temperature"] != 0.3 || got["max_tokens"] != float64(10000) {
		t.Fatalf("request options = %v", got)
	}
	if got["model"] != "gpt-4o" {
		t.Fatalf("request model = %v", got["model"])
	}
}

func TestCompleteNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("secret", srv.URL, "gpt-4o", 0, 0, 0)
	if _, err := c.Complete(context.Background(), "prompt", nil); err == nil {
		t.Fatal("Complete accepted a 429 response")
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c := NewClient("secret", srv.URL, "gpt-4o", 0, 0, 0)
	if _, err := c.Complete(context.Background(), "prompt", nil); err == nil {
		t.Fatal("Complete accepted an empty choices list")
	}
}
