package ai

import (
	"context"
	"sync"

	"surveygen/ports"
)

// CallTrace collects, for one run, the model that finally served each task
// and how many calls and stable-tier retries were made. Stage 4 records from
// several goroutines at once.
type CallTrace struct {
	mu        sync.Mutex
	models    map[ports.TaskCategory]string
	calls     int
	fallbacks int
	cached    int
}

// NewCallTrace returns an empty trace.
func NewCallTrace() *CallTrace {
	return &CallTrace{models: make(map[ports.TaskCategory]string)}
}

type callTraceKey struct{}

// WithCallTrace attaches trace to ctx; every invoker call under ctx records into it.
func WithCallTrace(ctx context.Context, trace *CallTrace) context.Context {
	return context.WithValue(ctx, callTraceKey{}, trace)
}

func callTraceFrom(ctx context.Context) *CallTrace {
	trace, _ := ctx.Value(callTraceKey{}).(*CallTrace)
	return trace
}

func (t *CallTrace) record(task ports.TaskCategory, info CallInfo) {
	if t == nil || info.Attempts == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.models[task] = info.Model
	t.calls += info.Attempts
	if info.FellBack {
		t.fallbacks++
	}
	if info.Cached {
		t.cached++
	}
}

// Models returns the last model used per task name.
func (t *CallTrace) Models() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]string, len(t.models))
	for task, model := range t.models {
		out[string(task)] = model
	}
	return out
}

// Calls is the number of provider invocations made.
func (t *CallTrace) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Fallbacks is the number of calls retried on the stable tier.
func (t *CallTrace) Fallbacks() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fallbacks
}

// Cached is the number of calls served from the response cache.
func (t *CallTrace) Cached() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cached
}
