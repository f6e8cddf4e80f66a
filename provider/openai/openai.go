package openai_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xinyuew3S2024/NewsByMood/config"
	"github.com/xinyuew3S2024/NewsByMood/models"
	"github.com/xinyuew3S2024/NewsByMood/session/session_models"
)

const (
	defaultAPIURL = "https://api.openai.com/v1"
)

// client implements the provider interface using OpenAI's API
type client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents a request to the OpenAI API
type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// response represents a response from the OpenAI API
type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(cfg config.LLMConfig) *client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Decide asks the model whether the declared tool is warranted for the latest
// user message. The model must answer in strict JSON; anything unparseable is
// degraded into a plain reply rather than an error.
func (c *client) Decide(ctx context.Context, history []session_models.Message, tool models.ToolSchema) (models.Decision, error) {
	instruction := fmt.Sprintf(`
You are deciding the next action for a news assistant.

A tool is available:
Name: %s
Description: %s

RULES:
1. If the user's latest message carries a mood signal, invoke the tool with the inferred mood.
2. The mood must be exactly one of: %s.
3. Otherwise reply directly, in a friendly conversational tone.

RESPONSE FORMAT:
Respond ONLY with valid JSON in one of the following forms:
{"action": "retrieve", "mood": "mood_label"}
{"action": "reply", "reply": "your conversational reply"}
Do not include any other text or explanation.
`, tool.Name, tool.Description, strings.Join(tool.Moods, ", "))

	messages := append(wireMessages(history), Message{Role: "system", Content: instruction})

	raw, err := c.sendRequest(ctx, messages)
	if err != nil {
		return models.Decision{}, err
	}

	var parsed struct {
		Action string `json:"action"`
		Mood   string `json:"mood"`
		Reply  string `json:"reply"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		// Parse tolerance: the raw text becomes the reply.
		return models.Decision{Reply: raw}, nil
	}

	switch strings.ToLower(parsed.Action) {
	case "retrieve", "tool":
		return models.Decision{UseTool: true, Mood: parsed.Mood}, nil
	default:
		reply := parsed.Reply
		if reply == "" {
			reply = raw
		}
		return models.Decision{Reply: reply}, nil
	}
}

// Compose folds the tool output into a final conversational reply.
func (c *client) Compose(ctx context.Context, history []session_models.Message, tool models.ToolSchema, toolOutput string) (string, error) {
	instruction := fmt.Sprintf(`
The %s tool returned:

%s

Compose the final reply to the user: present each article's title, summary and
link in a friendly, conversational tone, and conclude after delivering the news.
If the tool reported an error or found nothing, say so gracefully.
Respond with the reply text only.
`, tool.Name, toolOutput)

	messages := append(wireMessages(history), Message{Role: "system", Content: instruction})

	return c.sendRequest(ctx, messages)
}

func (c *client) sendRequest(ctx context.Context, messages []Message) (string, error) {
	requestBody := request{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	var openaiResp response
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(openaiResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	return strings.TrimSpace(openaiResp.Choices[0].Message.Content), nil
}

func wireMessages(history []session_models.Message) []Message {
	out := make([]Message, 0, len(history)+1)
	for _, m := range history {
		out = append(out, Message{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// stripFences removes a markdown code fence the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
