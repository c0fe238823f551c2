package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testClient(ts *httptest.Server) *Client {
	return &Client{
		APIKey:      "test-key",
		BaseURL:     ts.URL,
		ChatModel:   "test-chat-model",
		VisionModel: "test-vision-model",
		HTTPClient:  ts.Client(),
	}
}

func TestChatSendsMessagesAndParsesReply(t *testing.T) {
	t.Parallel()

	var captured chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Eat more protein."}}]}`))
	}))
	defer ts.Close()

	reply, err := testClient(ts).Chat(context.Background(), []Message{
		{Role: "system", Content: "You are a helpful nutritionist."},
		{Role: "user", Content: "What should I eat?"},
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "Eat more protein." {
		t.Fatalf("unexpected reply %q", reply)
	}

	if captured.Model != "test-chat-model" {
		t.Fatalf("expected chat model, got %q", captured.Model)
	}
	if captured.MaxTokens != 1024 || captured.Temperature != 0.5 {
		t.Fatalf("unexpected sampling params: %+v", captured)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" || captured.Messages[1].Role != "user" {
		t.Fatalf("message order not preserved: %+v", captured.Messages)
	}
}

func TestChatSurfacesUpstreamError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := testClient(ts).Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("expected error on non-200 response")
	}
	if !strings.Contains(err.Error(), "status 503") {
		t.Fatalf("expected status in error, got %v", err)
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected upstream detail in error, got %v", err)
	}
}

func TestChatRequiresAPIKey(t *testing.T) {
	t.Parallel()

	c := &Client{BaseURL: "http://localhost:0"}
	if _, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestChatRejectsEmptyChoices(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"cmpl-2","choices":[]}`))
	}))
	defer ts.Close()

	if _, err := testClient(ts).Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestAnalyzeMealImagePayloadShape(t *testing.T) {
	t.Parallel()

	var captured visionRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"Roughly 30g protein, 40g carbs, 15g fat."}}]}`))
	}))
	defer ts.Close()

	answer, err := testClient(ts).AnalyzeMealImage(context.Background(), "aGVsbG8=")
	if err != nil {
		t.Fatalf("analyze meal image: %v", err)
	}
	if !strings.Contains(answer, "30g protein") {
		t.Fatalf("unexpected answer %q", answer)
	}

	if captured.Model != "test-vision-model" {
		t.Fatalf("expected vision model, got %q", captured.Model)
	}
	if captured.MaxTokens != 512 {
		t.Fatalf("expected max_tokens 512, got %d", captured.MaxTokens)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Fatalf("expected single user message, got %+v", captured.Messages)
	}
	parts := captured.Messages[0].Content
	if len(parts) != 2 {
		t.Fatalf("expected image + text parts, got %d", len(parts))
	}
	if parts[0].Type != "image_url" || parts[0].ImageURL == nil ||
		parts[0].ImageURL.URL != "data:image/jpeg;base64,aGVsbG8=" {
		t.Fatalf("unexpected image part: %+v", parts[0])
	}
	if parts[1].Type != "text" || parts[1].Text != MealImageQuestion {
		t.Fatalf("unexpected text part: %+v", parts[1])
	}
}
