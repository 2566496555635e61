package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pavelanni/studybuddy/internal/llm/prompts"
)

type capturedRequest struct {
	Model        string  `json:"model"`
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
	Messages     []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestClient(t *testing.T, status int, body string, capture *capturedRequest) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "test-key", "test-model")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestAskSuccess(t *testing.T) {
	var req capturedRequest
	c := newTestClient(t, http.StatusOK,
		`{"choices": [{"index": 0, "message": {"role": "assistant", "content": "  Sleep more.\n"}}]}`, &req)

	reply := c.Ask(context.Background(), "How do I improve?", prompts.PartialProfile{}, nil)
	if !reply.OK() {
		t.Fatalf("expected OK reply, got %v: %s", reply.Kind, reply.Text)
	}
	if reply.Text != "Sleep more." {
		t.Errorf("Text = %q, want trimmed content", reply.Text)
	}

	if req.Model != "test-model" {
		t.Errorf("model = %q", req.Model)
	}
	if req.MaxNewTokens != 200 {
		t.Errorf("max_new_tokens = %d, want 200", req.MaxNewTokens)
	}
	if req.Temperature < 0.69 || req.Temperature > 0.71 {
		t.Errorf("temperature = %v, want 0.7", req.Temperature)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
		t.Fatalf("expected a single user message, got %+v", req.Messages)
	}
	for _, want := range []string{"Study Hours: 3", "Sleep Hours: 7", "Predicted Exam Score: 50", "How do I improve?"} {
		if !strings.Contains(req.Messages[0].Content, want) {
			t.Errorf("prompt should contain %q", want)
		}
	}
}

func TestAskLastScoreOverridesProfile(t *testing.T) {
	var req capturedRequest
	c := newTestClient(t, http.StatusOK, `{"choices": [{"message": {"content": "ok"}}]}`, &req)

	profileScore, last := 40.0, 88.5
	c.Ask(context.Background(), "q", prompts.PartialProfile{PredictionScore: &profileScore}, &last)
	if !strings.Contains(req.Messages[0].Content, "Predicted Exam Score: 88.5") {
		t.Error("prompt should use the last prediction")
	}
}

func TestAskOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
		wantText string
	}{
		{"string error", http.StatusBadRequest, `{"error": "Model not supported"}`,
			KindAPIError, "Error from API: Model not supported"},
		{"object error", http.StatusUnauthorized, `{"error": {"message": "bad token", "type": "auth"}}`,
			KindAPIError, `Error from API: {"message":"bad token","type":"auth"}`},
		{"error with 200", http.StatusOK, `{"error": "overloaded", "choices": []}`,
			KindAPIError, "Error from API: overloaded"},
		{"empty choices", http.StatusOK, `{"choices": []}`, KindNoChoices, NoChoicesText},
		{"no choices field", http.StatusOK, `{"id": "x"}`, KindNoChoices, NoChoicesText},
		{"null error", http.StatusOK, `{"error": null}`, KindAPIError, "Error from API: null"},
		{"null error with choices", http.StatusOK, `{"error": null, "choices": [{"message": {"content": "hi"}}]}`,
			KindAPIError, "Error from API: null"},
		{"array body", http.StatusOK, `[1, 2]`, KindNoChoices, NoChoicesText},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, KindTransport, "API Error: parse response"},
		{"empty body", http.StatusOK, ``, KindTransport, "API Error: parse response"},
		{"wrong choices type", http.StatusOK, `{"choices": "nope"}`, KindTransport, "API Error: parse response"},
		{"empty choice", http.StatusOK, `{"choices": [{}]}`, KindTransport, "API Error: parse response: choice has no message"},
		{"choice without message", http.StatusOK, `{"choices": [{"index": 0, "finish_reason": "stop"}]}`,
			KindTransport, "API Error: parse response: choice has no message"},
		{"null message", http.StatusOK, `{"choices": [{"message": null}]}`, KindTransport, "API Error: parse response: choice has no message"},
		{"message without content", http.StatusOK, `{"choices": [{"message": {"role": "assistant"}}]}`,
			KindTransport, "API Error: parse response: message has no content"},
		{"null content", http.StatusOK, `{"choices": [{"message": {"content": null}}]}`,
			KindTransport, "API Error: parse response: message has no content"},
		{"non-string content", http.StatusOK, `{"choices": [{"message": {"content": 42}}]}`,
			KindTransport, "API Error: parse response: decode message"},
		{"string message", http.StatusOK, `{"choices": [{"message": "hi"}]}`,
			KindTransport, "API Error: parse response: decode message"},
		{"empty content", http.StatusOK, `{"choices": [{"message": {"content": "  "}}]}`, KindOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.status, tt.body, nil)
			reply := c.Ask(context.Background(), "q", prompts.PartialProfile{}, nil)
			if reply.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", reply.Kind, tt.wantKind)
			}
			if !strings.HasPrefix(reply.Text, tt.wantText) {
				t.Errorf("Text = %q, want prefix %q", reply.Text, tt.wantText)
			}
		})
	}
}

func TestAskTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, "test-key", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	reply := c.Ask(context.Background(), "q", prompts.PartialProfile{}, nil)
	if reply.Kind != KindTransport {
		t.Errorf("Kind = %v, want transport", reply.Kind)
	}
	if !strings.HasPrefix(reply.Text, "API Error:") {
		t.Errorf("Text = %q, want API Error prefix", reply.Text)
	}
	if reply.Err == nil {
		t.Error("expected underlying error")
	}
}

func TestAskCancelledContext(t *testing.T) {
	c := newTestClient(t, http.StatusOK, `{"choices": [{"message": {"content": "ok"}}]}`, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reply := c.Ask(ctx, "q", prompts.PartialProfile{}, nil)
	if reply.Kind != KindTransport || !strings.HasPrefix(reply.Text, "API Error:") {
		t.Errorf("expected transport failure, got %v: %s", reply.Kind, reply.Text)
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New("", "  ", ""); err == nil {
		t.Error("expected error for empty API key")
	}
	c, err := New("", "k", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Model() != DefaultModel {
		t.Errorf("Model() = %q, want %q", c.Model(), DefaultModel)
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object": "list", "data": [{"id": "test-model", "object": "model"}]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, "k", "test-model")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindOK:        "ok",
		KindAPIError:  "api_error",
		KindNoChoices: "no_choices",
		KindTransport: "transport",
		Kind(9):       "kind(9)",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}
