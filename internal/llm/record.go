package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/sportsmind/internal/store"
	"github.com/abhisek/sportsmind/pkg/logger"
)

// EventSink stores one row per LLM request.
type EventSink interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// Counter receives one increment per request.
type Counter interface {
	RecordLLMRequest(provider, purpose string, success bool)
}

type recording struct {
	inner    Provider
	provider string
	sink     EventSink
	counter  Counter
	log      logger.Logger
}

// WithRecording stores every request in sink and counts it. Either may be
// nil. A failing sink is logged and never fails the request.
func WithRecording(p Provider, provider string, sink EventSink, counter Counter, log logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &recording{inner: p, provider: provider, sink: sink, counter: counter, log: log}
}

func (r *recording) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)
	resp, err := r.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    r.provider,
		Model:       r.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	if r.counter != nil {
		r.counter.RecordLLMRequest(r.provider, purpose, err == nil)
	}
	if r.sink != nil {
		if serr := r.sink.AppendLLMRequest(ctx, data); serr != nil {
			r.log.Warn(ctx, "llm event not recorded", logger.Error(serr))
		}
	}
	r.log.Debug(ctx, "llm request",
		logger.String("provider", r.provider),
		logger.String("purpose", purpose),
		logger.Int64("latency_ms", data.LatencyMs),
		logger.Bool("success", data.Success))
	return resp, err
}

func (r *recording) ModelID() string { return r.inner.ModelID() }

// transcript renders a request for the event log.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
