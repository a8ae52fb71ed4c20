// Package production provides the trace and visualization integrations used
// by the demo binary: a transition recorder and a Graphviz exporter.
package production

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/atomic"
	"gopkg.in/yaml.v3"

	"github.com/comalice/statestack"
	"github.com/comalice/statestack/observability"
)

// Record is one applied transition.
type Record struct {
	Seq       uint64    `json:"seq" yaml:"seq"`
	Source    string    `json:"source" yaml:"source"`
	Kind      string    `json:"kind" yaml:"kind"`
	From      string    `json:"from,omitempty" yaml:"from,omitempty"`
	To        string    `json:"to,omitempty" yaml:"to,omitempty"`
	Depth     int       `json:"depth" yaml:"depth"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Trace is the exported form of a recording.
type Trace struct {
	Transitions []Record `json:"transitions" yaml:"transitions"`
}

// Recorder is an Observer that keeps machine.transition events and ignores
// everything else. Safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	records []Record
	seq     atomic.Uint64
	limit   int
}

// NewRecorder creates a recorder keeping at most limit records, dropping
// the oldest. limit <= 0 keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) OnEvent(ctx context.Context, event observability.Event) {
	if event.Type != statestack.EventTransition {
		return
	}

	rec := Record{
		Source:    event.Source,
		Timestamp: event.Timestamp,
	}
	rec.Kind, _ = event.Data["kind"].(string)
	rec.From, _ = event.Data["from"].(string)
	rec.To, _ = event.Data["to"].(string)
	rec.Depth, _ = event.Data["depth"].(int)

	r.mu.Lock()
	defer r.mu.Unlock()
	rec.Seq = r.seq.Inc()
	r.records = append(r.records, rec)
	if r.limit > 0 && len(r.records) > r.limit {
		r.records = append(r.records[:0], r.records[len(r.records)-r.limit:]...)
	}
}

// Records returns a copy of the retained records, oldest first.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Count returns the number of transitions seen, including dropped ones.
func (r *Recorder) Count() uint64 {
	return r.seq.Load()
}

// Reset forgets all records and restarts numbering.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = nil
	r.seq.Store(0)
}

// WriteYAML writes the retained records as a YAML trace.
func (r *Recorder) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Trace{Transitions: r.Records()}); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// WriteJSON writes the retained records as an indented JSON trace.
func (r *Recorder) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Trace{Transitions: r.Records()}); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// ReadTrace decodes a YAML trace. JSON traces decode too, being valid YAML.
func ReadTrace(rd io.Reader) (Trace, error) {
	var t Trace
	if err := yaml.NewDecoder(rd).Decode(&t); err != nil {
		return Trace{}, fmt.Errorf("yaml decode: %w", err)
	}
	return t, nil
}
