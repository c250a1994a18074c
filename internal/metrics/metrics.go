package metrics

import (
	"sync"
	"time"
)

// Recorder counts catalog activity.  It keeps small in-memory tallies that
// tests can read back and forwards every observation to OpenTelemetry when
// Setup configured instruments.  A nil *Recorder is valid and records nothing.
type Recorder struct {
	mu        sync.Mutex
	mutations map[string]int
	lookups   map[string]int
	requests  int
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		mutations: make(map[string]int),
		lookups:   make(map[string]int),
		otel:      otel,
	}
}

// RecordMutation counts a create/update/delete on entity with its outcome.
func (r *Recorder) RecordMutation(entity, op, outcome string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.mutations[entity+"."+op+"."+outcome]++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordMutation(entity, op, outcome)
	}
}

// RecordPriceLookup counts a price resolution by outcome.
func (r *Recorder) RecordPriceLookup(outcome string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.lookups[outcome]++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordPriceLookup(outcome)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.requests++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordHTTPRequest(method, path, status, duration)
	}
}

// Mutations returns how many mutations were recorded for the triple.
func (r *Recorder) Mutations(entity, op, outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mutations[entity+"."+op+"."+outcome]
}

// PriceLookups returns how many lookups ended with outcome.
func (r *Recorder) PriceLookups(outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookups[outcome]
}

// Requests returns the number of HTTP requests recorded.
func (r *Recorder) Requests() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requests
}
