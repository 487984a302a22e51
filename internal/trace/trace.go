// Package trace emits structured pipeline events for debugging slow
// renders. A Tracer travels in the context; the default is a no-op,
// so call sites never check for nil.
package trace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

type Level uint8

const (
	LevelOff Level = iota
	LevelPass
	LevelTarget
	LevelNode
)

func ParseLevel(s string) (Level, error) {
	switch s {
	case "off", "":
		return LevelOff, nil
	case "pass":
		return LevelPass, nil
	case "target":
		return LevelTarget, nil
	case "node":
		return LevelNode, nil
	}
	return LevelOff, fmt.Errorf("unknown trace level %q", s)
}

// Event is one begin/end pair or a point-in-time marker.
type Event struct {
	Seq    uint64        `json:"seq"`
	Time   time.Time     `json:"time"`
	Level  Level         `json:"level"`
	Name   string        `json:"name"`
	Detail string        `json:"detail,omitempty"`
	Dur    time.Duration `json:"dur_ns,omitempty"`
}

type Tracer interface {
	Emit(ev Event)
	Level() Level
}

type nopTracer struct{}

func (nopTracer) Emit(Event)   {}
func (nopTracer) Level() Level { return LevelOff }

var Nop Tracer = nopTracer{}

var seq atomic.Uint64

// StreamTracer writes one NDJSON line per event.
type StreamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

func NewStreamTracer(w io.Writer, level Level) *StreamTracer {
	return &StreamTracer{w: w, level: level}
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Emit(ev Event) {
	if ev.Level > t.level {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w.Write(append(data, '\n'))
}

// Span measures a named region. End emits the event with its duration.
type Span struct {
	tracer Tracer
	event  Event
	start  time.Time
}

// Begin opens a span; it emits nothing until End.
func Begin(t Tracer, level Level, name string) *Span {
	if t == nil {
		t = Nop
	}
	return &Span{
		tracer: t,
		event:  Event{Seq: seq.Add(1), Level: level, Name: name},
		start:  time.Now(),
	}
}

func (s *Span) End(detail string) time.Duration {
	dur := time.Since(s.start)
	s.event.Time = s.start
	s.event.Dur = dur
	s.event.Detail = detail
	s.tracer.Emit(s.event)
	return dur
}

type ctxKey struct{}

// FromContext returns the context's tracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok && t != nil {
		return t
	}
	return Nop
}

func WithTracer(ctx context.Context, t Tracer) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}
