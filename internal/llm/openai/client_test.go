package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resumatch-backend/internal/llm"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient("test-key", "gpt-4o")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.apiURL = server.URL
	client.httpClient = server.Client()
	return client
}

func TestAnalyzeResumeReturnsContent(t *testing.T) {
	const content = `{"atsScore": 62}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["model"] != "gpt-4o" {
			t.Errorf("unexpected model %v", req["model"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	raw, err := client.AnalyzeResume(context.Background(), llm.AnalyzeInput{ResumeText: "r", JobDescription: "j"})
	if err != nil {
		t.Fatalf("AnalyzeResume: %v", err)
	}
	if string(raw) != content {
		t.Fatalf("expected %q, got %q", content, string(raw))
	}
}

func TestAnalyzeResumeSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "quota exceeded", "type": "insufficient_quota"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.AnalyzeResume(context.Background(), llm.AnalyzeInput{ResumeText: "r", JobDescription: "j"})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestAnalyzeResumeRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.AnalyzeResume(context.Background(), llm.AnalyzeInput{ResumeText: "r", JobDescription: "j"})
	if err == nil || !strings.Contains(err.Error(), "missing choices") {
		t.Fatalf("expected missing choices error, got %v", err)
	}
}

func TestNewClientRequiresModelAndKey(t *testing.T) {
	if _, err := NewClient("key", ""); err == nil {
		t.Fatalf("expected error without model")
	}
	if _, err := NewClient("", "gpt-4o"); err == nil {
		t.Fatalf("expected error without api key")
	}
}
