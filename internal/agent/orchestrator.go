package agent

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/xinyuew3S2024/NewsByMood/config"
	"github.com/xinyuew3S2024/NewsByMood/internal/agent/telemetry"
	"github.com/xinyuew3S2024/NewsByMood/provider"
	"github.com/xinyuew3S2024/NewsByMood/session/session_models"
	"github.com/xinyuew3S2024/NewsByMood/session/session_object"
	"github.com/xinyuew3S2024/NewsByMood/tools/news_search"
)

// fallbackReply is the best-effort literal used when the reasoning step
// produced nothing usable and there is no tool output to fall back on.
const fallbackReply = "I'm having a little trouble on my end. How has your day been so far?"

// Orchestrator runs one conversation turn to completion: append the user
// message, ask the reasoning step for a decision, invoke the retriever at most
// once, compose the reply and append it.
type Orchestrator struct {
	config    *config.Config
	logger    *log.Logger
	llm       provider.Provider
	retriever news_search.Retriever
	policy    Policy
	telemetry *telemetry.Telemetry
}

// NewOrchestrator creates a new orchestrator instance. Dependencies are
// injected so the turn logic is testable against any reasoning backend.
func NewOrchestrator(cfg *config.Config, logger *log.Logger, llm provider.Provider, retriever news_search.Retriever, tele *telemetry.Telemetry) (*Orchestrator, error) {
	if llm == nil {
		return nil, errors.New("llm provider is required")
	}
	if retriever == nil {
		return nil, errors.New("retriever is required")
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[ORCH] ", log.LstdFlags)
	}
	return &Orchestrator{
		config:    cfg,
		logger:    logger,
		llm:       llm,
		retriever: retriever,
		policy:    NewPolicy(cfg.Agent.FallbackMood),
		telemetry: tele,
	}, nil
}

// HandleTurn processes one user utterance against the conversation and
// returns the assistant reply. Every fault along the way degrades into some
// textual reply; the turn itself never fails once the conversation exists.
func (o *Orchestrator) HandleTurn(ctx context.Context, utterance string, conv *session_object.Conversation) (string, error) {
	if conv == nil {
		return "", errors.New("conversation is required")
	}

	start := time.Now()
	conv.Append(session_models.RoleUser, utterance)

	toolUsed := false
	reply := o.runTurn(ctx, conv, &toolUsed)

	conv.Append(session_models.RoleAssistant, reply)
	if o.telemetry != nil {
		o.telemetry.RecordTurn(time.Since(start), toolUsed)
	}
	return reply, nil
}

func (o *Orchestrator) runTurn(ctx context.Context, conv *session_object.Conversation, toolUsed *bool) string {
	tool := toolSchema()

	decision, err := o.llm.Decide(ctx, conv.Messages(), tool)
	if err != nil {
		o.logger.Printf("decide failed: %v", err)
		o.recordLLMFailure()
		return fallbackReply
	}

	if !decision.UseTool {
		if decision.Reply == "" {
			o.recordLLMFailure()
			return fallbackReply
		}
		return decision.Reply
	}

	*toolUsed = true
	mood, category := o.policy.Resolve(decision.Mood)
	query := Query(category)
	o.logger.Printf("mood %q resolved to %s, category %s, query %q", decision.Mood, mood, category, query)

	articles, err := o.retriever.Retrieve(ctx, query)
	if err != nil {
		// Transport-level failure: reported inline, the turn continues.
		o.logger.Printf("retrieve failed: %v", err)
		if o.telemetry != nil {
			o.telemetry.RecordRetrievalFailure()
		}
		articles = "Error: unable to reach the SERP API: " + err.Error()
	}

	composed, err := o.llm.Compose(ctx, conv.Messages(), tool, articles)
	if err != nil || composed == "" {
		if err != nil {
			o.logger.Printf("compose failed: %v", err)
		}
		o.recordLLMFailure()
		// Best-effort literal reply carrying the tool output.
		return "Here's what I found for you:\n\n" + articles
	}
	return composed
}

func (o *Orchestrator) recordLLMFailure() {
	if o.telemetry != nil {
		o.telemetry.RecordLLMFailure()
	}
}
