package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/d3vsino/myfittrackbackend/config"
)

// MealImageQuestion is the fixed prompt attached to meal photos. The model
// answers in free text; callers must not expect a parseable macro breakdown.
const MealImageQuestion = "What are the estimated macros (protein, carbs, fat) in grams for this meal?"

// Message is one role-tagged entry of a chat completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type visionMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type visionRequest struct {
	Model       string          `json:"model"`
	Messages    []visionMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type choice struct {
	Index   int     `json:"index"`
	Message Message `json:"message"`
}

type chatResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Choices []choice `json:"choices"`
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	APIKey      string
	BaseURL     string
	ChatModel   string
	VisionModel string
	HTTPClient  *http.Client
}

// NewClient builds a client from configuration.
func NewClient(cfg config.LLMConfig) *Client {
	return &Client{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		ChatModel:   cfg.ChatModel,
		VisionModel: cfg.VisionModel,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Chat sends the ordered message list and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.complete(ctx, chatRequest{
		Model:       c.ChatModel,
		Messages:    messages,
		MaxTokens:   1024,
		Temperature: 0.5,
	})
}

// AnalyzeMealImage sends a base64-encoded meal photo with the fixed macro
// question and returns the model's free-form answer.
func (c *Client) AnalyzeMealImage(ctx context.Context, imageB64 string) (string, error) {
	return c.complete(ctx, visionRequest{
		Model: c.VisionModel,
		Messages: []visionMessage{{
			Role: "user",
			Content: []contentPart{
				{
					Type:     "image_url",
					ImageURL: &imageURL{URL: "data:image/jpeg;base64," + imageB64},
				},
				{
					Type: "text",
					Text: MealImageQuestion,
				},
			},
		}},
		MaxTokens:   512,
		Temperature: 0.5,
	})
}

func (c *Client) complete(ctx context.Context, payload any) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("LLM_API_KEY not configured")
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}
