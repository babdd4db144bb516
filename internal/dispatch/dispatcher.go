package dispatch

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/policyquery/internal/stats"
)

// Config holds the dispatcher settings. BaseURL and AuthToken are static
// configuration for the remote inference API, not values derived at runtime.
type Config struct {
	BaseURL            string
	AuthToken          string
	Timeout            time.Duration
	DefaultDocumentURL string
}

// Dispatcher sends question batches to the remote inference API and maps the
// response into QueryResults. It holds no state across calls; concurrent
// invocations are fully independent.
type Dispatcher struct {
	client     *remoteClient
	timeout    time.Duration
	defaultDoc string
	log        *slog.Logger
	stats      *stats.QueryStats
}

func NewDispatcher(cfg Config, log *slog.Logger, qs *stats.QueryStats) *Dispatcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		client:     newRemoteClient(cfg.BaseURL, cfg.AuthToken, timeout),
		timeout:    timeout,
		defaultDoc: cfg.DefaultDocumentURL,
		log:        log,
		stats:      qs,
	}
}

// ProcessQueries answers every question in the batch. It issues one batched
// remote call bounded by the configured timeout; on any failure (transport
// error, timeout, non-2xx, malformed body) it serves the local fallback
// responder's output instead. The returned slice is always index-aligned
// with questions and has the same length. The bool reports degraded mode:
// true when the results came from the fallback responder.
func (d *Dispatcher) ProcessQueries(ctx context.Context, questions []string, documentURL string) ([]QueryResult, bool) {
	id := uuid.NewString()
	log := d.log.With("dispatch_id", id, "questions", len(questions))

	uploaded := documentURL != ""
	docURL := documentURL
	if !uploaded {
		docURL = d.defaultDoc
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	answers, err := d.client.Run(callCtx, docURL, questions)
	elapsed := time.Since(start)

	if err != nil {
		log.Warn("remote query failed, serving fallback",
			"error", err,
			"duration_ms", elapsed.Milliseconds(),
		)
		if d.stats != nil {
			d.stats.Record(elapsed.Milliseconds(), stats.OutcomeFallback)
		}
		return Fallback(questions), true
	}

	if d.stats != nil {
		d.stats.Record(elapsed.Milliseconds(), stats.OutcomeRemote)
	}
	log.Info("remote query complete",
		"answers", len(answers),
		"duration_ms", elapsed.Milliseconds(),
	)

	sources := []string{"Sample policy document"}
	if uploaded {
		sources = []string{"Uploaded document"}
	}

	now := time.Now()
	results := make([]QueryResult, 0, len(questions))
	for i, q := range questions {
		answer := SentinelAnswer
		if i < len(answers) && strings.TrimSpace(answers[i]) != "" {
			answer = answers[i]
		}
		results = append(results, QueryResult{
			Question:   q,
			Answer:     answer,
			Confidence: ScoreConfidence(answer),
			Sources:    append([]string(nil), sources...),
			Reasoning:  BuildReasoning(q, answer),
			Timestamp:  now,
		})
	}
	return results, false
}

// Close releases the underlying HTTP client resources.
func (d *Dispatcher) Close() {
	d.client.Close()
}
