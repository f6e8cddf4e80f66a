package agent

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xinyuew3S2024/NewsByMood/config"
	"github.com/xinyuew3S2024/NewsByMood/internal/agent/telemetry"
	"github.com/xinyuew3S2024/NewsByMood/models"
	"github.com/xinyuew3S2024/NewsByMood/session/session_models"
	"github.com/xinyuew3S2024/NewsByMood/tools/news_search/serpapi"
)

// echoProvider decides "retrieve" once and composes by echoing tool output.
type echoProvider struct{}

func (echoProvider) Decide(ctx context.Context, history []session_models.Message, tool models.ToolSchema) (models.Decision, error) {
	return models.Decision{UseTool: true, Mood: "Happy"}, nil
}

func (echoProvider) Compose(ctx context.Context, history []session_models.Message, tool models.ToolSchema, toolOutput string) (string, error) {
	return "What a great day! Here is some comedy news:\n\n" + toolOutput, nil
}

func TestTurnAgainstFakeSERP(t *testing.T) {
	var gotQuery string
	var serpCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serpCalls++
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"news_results":[
			{"title":"Comedian wins award","snippet":"big laughs","link":"http://a"},
			{"title":"New sitcom","snippet":"premieres","link":"http://b"}
		]}`)
	}))
	defer srv.Close()

	retriever := serpapi.Search{ApiKey: "k", Endpoint: srv.URL, HTTPClient: srv.Client()}
	cfg := &config.Config{Agent: config.AgentConfig{FallbackMood: "Neutral"}}
	o, err := NewOrchestrator(cfg, log.New(io.Discard, "", 0), echoProvider{}, retriever,
		telemetry.NewTelemetry(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	conv := newTestConversation()
	reply, err := o.HandleTurn(context.Background(), "I'm feeling great today!", conv)
	if err != nil {
		t.Fatalf("HandleTurn: %v", err)
	}

	if serpCalls != 1 {
		t.Errorf("SERP called %d times, want 1", serpCalls)
	}
	if gotQuery != "latest comedy news" {
		t.Errorf("query = %q, want %q", gotQuery, "latest comedy news")
	}
	if !strings.Contains(reply, "Title: Comedian wins award") {
		t.Errorf("reply missing article title:\n%s", reply)
	}
	if conv.Len() != 3 {
		t.Errorf("conversation has %d messages, want 3", conv.Len())
	}
}
