package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pavelanni/studybuddy/internal/llm/prompts"
)

// Fixed decoding parameters for study advice.
const (
	MaxNewTokens = 200
	Temperature  = 0.7
	Timeout      = 120 * time.Second
)

// Endpoint defaults.
const (
	DefaultBaseURL = "https://router.huggingface.co/v1"
	DefaultModel   = "Qwen/Qwen2.5-7B-Instruct"
)

// NoChoicesText is shown when the endpoint answered without an error and without choices.
const NoChoicesText = "No valid response returned from the API."

// Kind classifies the outcome of a chat request.
type Kind int

const (
	KindOK        Kind = iota
	KindAPIError       // the endpoint returned a structured error field
	KindNoChoices      // well-formed reply with no completion choices
	KindTransport      // network, timeout or malformed payload
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindAPIError:
		return "api_error"
	case KindNoChoices:
		return "no_choices"
	case KindTransport:
		return "transport"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Reply is the outcome of Ask. Text is always suitable for display as the
// assistant's message.
type Reply struct {
	Kind Kind
	Text string
	Err  error
}

// OK reports whether the reply carries model output.
func (r Reply) OK() bool {
	return r.Kind == KindOK
}

// APIError is the error payload returned by the completion endpoint.
type APIError struct {
	Payload string
}

func (e *APIError) Error() string {
	return e.Payload
}

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	api     *openai.Client
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
}

// New creates a new LLM client. The API key is required.
func New(baseURL, apiKey, modelName string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	if err := prompts.Load(); err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	httpClient := &http.Client{Timeout: Timeout}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	config.HTTPClient = httpClient

	return &Client{
		api:     openai.NewClientWithConfig(config),
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   modelName,
	}, nil
}

// Model returns the configured model ID.
func (c *Client) Model() string {
	return c.model
}

// Ping checks that the endpoint is reachable and accepts the API key.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

type completionRequest struct {
	Model        string                         `json:"model"`
	Messages     []openai.ChatCompletionMessage `json:"messages"`
	MaxNewTokens int                            `json:"max_new_tokens"`
	Temperature  float32                        `json:"temperature"`
}

type completionResponse struct {
	Error   json.RawMessage    `json:"error"`
	Choices []completionChoice `json:"choices"`
}

// completionChoice keeps the message raw so a missing message or content
// can be told apart from an empty answer.
type completionChoice struct {
	Index        int                 `json:"index"`
	Message      json.RawMessage     `json:"message"`
	FinishReason openai.FinishReason `json:"finish_reason"`
}

type choiceMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

// Ask composes the study advice prompt and sends it as a single user message.
// A non-nil lastScore replaces the profile's prediction score. Failures are
// folded into the returned Reply; Ask never returns a Go error.
func (c *Client) Ask(ctx context.Context, question string, profile prompts.PartialProfile, lastScore *float64) Reply {
	if lastScore != nil {
		profile.PredictionScore = lastScore
	}
	prompt, err := prompts.BuildAdvicePrompt(question, profile)
	if err != nil {
		return transportFailure(fmt.Errorf("build prompt: %w", err))
	}

	start := time.Now()
	reply := c.complete(ctx, prompt)
	attrs := []any{"model", c.model, "kind", reply.Kind.String(), "latency", time.Since(start)}
	if reply.Err != nil {
		slog.Warn("chat completion failed", append(attrs, "error", reply.Err)...)
	} else {
		slog.Info("chat completion", attrs...)
	}
	return reply
}

func (c *Client) complete(ctx context.Context, prompt string) Reply {
	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxNewTokens: MaxNewTokens,
		Temperature:  Temperature,
	})
	if err != nil {
		return transportFailure(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return transportFailure(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return transportFailure(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(fmt.Errorf("read response: %w", err))
	}
	slog.Debug("chat completion response", "status", resp.StatusCode, "raw", string(data))

	return parseCompletion(data)
}

// parseCompletion classifies a response body regardless of HTTP status:
// error-bearing payloads usually arrive with a non-2xx status.
func parseCompletion(data []byte) Reply {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return transportFailure(fmt.Errorf("parse response: invalid JSON: %q", truncate(string(trimmed), 200)))
	}
	if trimmed[0] != '{' {
		return Reply{Kind: KindNoChoices, Text: NoChoicesText}
	}

	var cr completionResponse
	if err := json.Unmarshal(trimmed, &cr); err != nil {
		return transportFailure(fmt.Errorf("parse response: %w", err))
	}

	// A present error field wins, even when it is null.
	if len(cr.Error) > 0 {
		apiErr := &APIError{Payload: errorPayload(cr.Error)}
		return Reply{Kind: KindAPIError, Text: "Error from API: " + apiErr.Error(), Err: apiErr}
	}

	if len(cr.Choices) == 0 {
		return Reply{Kind: KindNoChoices, Text: NoChoicesText}
	}

	content, err := choiceContent(cr.Choices[0])
	if err != nil {
		return transportFailure(fmt.Errorf("parse response: %w", err))
	}
	return Reply{Kind: KindOK, Text: strings.TrimSpace(content)}
}

func choiceContent(c completionChoice) (string, error) {
	if len(c.Message) == 0 || string(c.Message) == "null" {
		return "", errors.New("choice has no message")
	}
	var msg choiceMessage
	if err := json.Unmarshal(c.Message, &msg); err != nil {
		return "", fmt.Errorf("decode message: %w", err)
	}
	if msg.Content == nil {
		return "", errors.New("message has no content")
	}
	return *msg.Content, nil
}

func transportFailure(err error) Reply {
	return Reply{Kind: KindTransport, Text: "API Error: " + err.Error(), Err: err}
}

// errorPayload renders a string error as-is and anything else as compact JSON.
func errorPayload(raw json.RawMessage) string {
	if string(raw) == "null" {
		return "null"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
