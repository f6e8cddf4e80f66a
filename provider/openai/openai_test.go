package openai_provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xinyuew3S2024/NewsByMood/config"
	"github.com/xinyuew3S2024/NewsByMood/models"
	"github.com/xinyuew3S2024/NewsByMood/session/session_models"
)

func fakeOpenAI(t *testing.T, content string, status int) (*client, *[]Message) {
	t.Helper()
	var gotMessages []Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotMessages = req.Messages

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": content}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	return NewOpenAIClient(config.LLMConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gpt-4o",
	}), &gotMessages
}

var testTool = models.ToolSchema{
	Name:        "SERPNewsAPI",
	Description: "fetch news",
	Moods:       []string{"Happy", "Sad", "Stressed", "Excited", "Neutral"},
}

var testHistory = []session_models.Message{
	{Role: session_models.RoleSystem, Content: "be helpful"},
	{Role: session_models.RoleUser, Content: "I'm thrilled!"},
}

func TestDecideToolCall(t *testing.T) {
	c, got := fakeOpenAI(t, `{"action":"retrieve","mood":"Excited"}`, http.StatusOK)

	d, err := c.Decide(context.Background(), testHistory, testTool)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !d.UseTool || d.Mood != "Excited" {
		t.Errorf("decision = %+v, want tool call with Excited", d)
	}

	if len(*got) != 3 {
		t.Fatalf("sent %d messages, want history + instruction", len(*got))
	}
	instruction := (*got)[2].Content
	for _, mood := range testTool.Moods {
		if !strings.Contains(instruction, mood) {
			t.Errorf("instruction missing mood %s", mood)
		}
	}
}

func TestDecidePlainReply(t *testing.T) {
	c, _ := fakeOpenAI(t, `{"action":"reply","reply":"Tell me more!"}`, http.StatusOK)

	d, err := c.Decide(context.Background(), testHistory, testTool)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.UseTool || d.Reply != "Tell me more!" {
		t.Errorf("decision = %+v, want plain reply", d)
	}
}

func TestDecideFencedJSON(t *testing.T) {
	c, _ := fakeOpenAI(t, "```json\n{\"action\":\"retrieve\",\"mood\":\"Sad\"}\n```", http.StatusOK)

	d, err := c.Decide(context.Background(), testHistory, testTool)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !d.UseTool || d.Mood != "Sad" {
		t.Errorf("decision = %+v, want tool call with Sad", d)
	}
}

func TestDecideUnparseableBecomesReply(t *testing.T) {
	raw := "Sure thing! Let me grab some news for you."
	c, _ := fakeOpenAI(t, raw, http.StatusOK)

	d, err := c.Decide(context.Background(), testHistory, testTool)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.UseTool {
		t.Error("unparseable output must not trigger a tool call")
	}
	if d.Reply != raw {
		t.Errorf("reply = %q, want raw model output", d.Reply)
	}
}

func TestDecideAPIError(t *testing.T) {
	c, _ := fakeOpenAI(t, "", http.StatusInternalServerError)

	if _, err := c.Decide(context.Background(), testHistory, testTool); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestComposeSendsToolOutput(t *testing.T) {
	c, got := fakeOpenAI(t, "Here are your stories!", http.StatusOK)

	toolOut := "Title: t\nSummary: s\nLink: l"
	reply, err := c.Compose(context.Background(), testHistory, testTool, toolOut)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if reply != "Here are your stories!" {
		t.Errorf("reply = %q", reply)
	}
	instruction := (*got)[len(*got)-1].Content
	if !strings.Contains(instruction, toolOut) {
		t.Errorf("tool output not in compose instruction:\n%s", instruction)
	}
}

func TestStripFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripFences(tc.in); got != tc.want {
			t.Errorf("stripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient(config.LLMConfig{APIKey: "k", BaseURL: srv.URL, Model: "gpt-4o"})
	if _, err := c.Decide(context.Background(), testHistory, testTool); err == nil {
		t.Fatal("expected error on empty choices")
	}
}
