package telemetry

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Telemetry tracks per-turn metrics and exposes them as prometheus collectors.
type Telemetry struct {
	logger *log.Logger

	turns             prometheus.Counter
	toolInvocations   prometheus.Counter
	llmFailures       prometheus.Counter
	retrievalFailures prometheus.Counter
	turnDuration      prometheus.Histogram

	mu       sync.RWMutex
	snapshot Snapshot
}

// Snapshot is a plain-number view of the counters, for logs and tests.
type Snapshot struct {
	Turns             int64
	ToolInvocations   int64
	LLMFailures       int64
	RetrievalFailures int64
}

// NewTelemetry creates a telemetry instance registered on reg (the default
// registerer when nil).
func NewTelemetry(reg prometheus.Registerer) *Telemetry {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	t := &Telemetry{
		logger: log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		turns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsbymood_turns_total",
			Help: "Completed conversation turns.",
		}),
		toolInvocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsbymood_tool_invocations_total",
			Help: "Retrieval tool invocations.",
		}),
		llmFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsbymood_llm_failures_total",
			Help: "Reasoning calls that failed or returned unusable output.",
		}),
		retrievalFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "newsbymood_retrieval_failures_total",
			Help: "Retrieval calls that failed at the transport level.",
		}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "newsbymood_turn_duration_seconds",
			Help:    "End-to-end turn latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(t.turns, t.toolInvocations, t.llmFailures, t.retrievalFailures, t.turnDuration)
	return t
}

func (t *Telemetry) RecordTurn(d time.Duration, toolUsed bool) {
	t.turns.Inc()
	t.turnDuration.Observe(d.Seconds())
	t.mu.Lock()
	t.snapshot.Turns++
	if toolUsed {
		t.snapshot.ToolInvocations++
	}
	t.mu.Unlock()
	if toolUsed {
		t.toolInvocations.Inc()
	}
	t.logger.Printf("turn completed in %s (tool=%t)", d, toolUsed)
}

func (t *Telemetry) RecordLLMFailure() {
	t.llmFailures.Inc()
	t.mu.Lock()
	t.snapshot.LLMFailures++
	t.mu.Unlock()
}

func (t *Telemetry) RecordRetrievalFailure() {
	t.retrievalFailures.Inc()
	t.mu.Lock()
	t.snapshot.RetrievalFailures++
	t.mu.Unlock()
}

func (t *Telemetry) GetSnapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshot
}
