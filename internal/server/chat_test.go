package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xinyuew3S2024/NewsByMood/session/inmemory"
	"github.com/xinyuew3S2024/NewsByMood/session/session_models"
	"github.com/xinyuew3S2024/NewsByMood/session/session_object"
)

type stubOrchestrator struct {
	reply string
	calls int
}

func (s *stubOrchestrator) HandleTurn(ctx context.Context, utterance string, conv *session_object.Conversation) (string, error) {
	s.calls++
	conv.Append(session_models.RoleUser, utterance)
	conv.Append(session_models.RoleAssistant, s.reply)
	return s.reply, nil
}

func setupChat(t *testing.T) (*echo.Echo, *ChatHandler, *stubOrchestrator) {
	t.Helper()
	e := echo.New()
	orch := &stubOrchestrator{reply: "Title: t\nSummary: s\nLink: l"}
	h := &ChatHandler{
		Store:        inmemory.NewInMemoryConversationStore("system prompt"),
		Orchestrator: orch,
		SessionTTL:   time.Hour,
	}
	h.Register(e.Group("/api/chat"))
	return e, h, orch
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestChatCreatesSession(t *testing.T) {
	e, _, orch := setupChat(t)

	rec := doJSON(t, e, http.MethodPost, "/api/chat", `{"message":"I'm feeling great today!"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["session_id"] == "" {
		t.Error("no session_id returned")
	}
	if resp["reply"] != orch.reply {
		t.Errorf("reply = %q", resp["reply"])
	}
	if orch.calls != 1 {
		t.Errorf("orchestrator called %d times, want 1", orch.calls)
	}
}

func TestChatReusesSession(t *testing.T) {
	e, _, _ := setupChat(t)

	rec := doJSON(t, e, http.MethodPost, "/api/chat", `{"message":"first"}`)
	var first map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &first)

	rec = doJSON(t, e, http.MethodPost, "/api/chat", `{"session_id":"`+first["session_id"]+`","message":"second"}`)
	var second map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &second)

	if first["session_id"] != second["session_id"] {
		t.Errorf("session not reused: %q vs %q", first["session_id"], second["session_id"])
	}
}

func TestChatRequiresMessage(t *testing.T) {
	e, _, orch := setupChat(t)

	rec := doJSON(t, e, http.MethodPost, "/api/chat", `{"session_id":"x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if orch.calls != 0 {
		t.Errorf("orchestrator called on invalid request")
	}
}

func TestHistoryHidesSystemMessage(t *testing.T) {
	e, _, _ := setupChat(t)

	rec := doJSON(t, e, http.MethodPost, "/api/chat", `{"message":"hello"}`)
	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)

	rec = doJSON(t, e, http.MethodGet, "/api/chat/"+resp["session_id"]+"/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var hist struct {
		SessionID string                   `json:"session_id"`
		Messages  []session_models.Message `json:"messages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(hist.Messages) != 2 {
		t.Fatalf("history has %d messages, want 2", len(hist.Messages))
	}
	for _, m := range hist.Messages {
		if m.Role == session_models.RoleSystem {
			t.Error("history exposes the system message")
		}
	}
}

func TestHistoryUnknownSession(t *testing.T) {
	e, _, _ := setupChat(t)

	rec := doJSON(t, e, http.MethodGet, "/api/chat/nope/history", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
