package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/slidearchitect/internal/apperr"
)

// State is a step of the per-request state machine
type State string

const (
	StateIdle          State = "idle"
	StateComposing     State = "composing"
	StateAwaitingModel State = "awaiting_model"
	StateValidating    State = "validating"
	StateReconciling   State = "reconciling"
	StateGenerating    State = "generating"
	StateDone          State = "done"
)

// Mode names the operation a trace belongs to
type Mode string

const (
	ModePlan     Mode = "plan"
	ModeCloning  Mode = "cloning"
	ModeGenerate Mode = "generate"
	ModeInspect  Mode = "inspect"
)

// Trace records the states a request went through
type Trace struct {
	RequestID string        `json:"request_id"`
	Mode      Mode          `json:"mode"`
	States    []State       `json:"states"`
	Success   bool          `json:"success"`
	Kind      apperr.Kind   `json:"kind,omitempty"`
	Duration  time.Duration `json:"duration"`
}

type requestIDKey struct{}

// WithRequestID attaches a request id that traces and logs will reuse
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id attached by WithRequestID, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// run drives one request through the state machine. Terminal states are final.
type run struct {
	trace Trace
	log   zerolog.Logger
	start time.Time
	done  bool
}

func (o *Orchestrator) begin(ctx context.Context, mode Mode) *run {
	id := RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	r := &run{
		trace: Trace{RequestID: id, Mode: mode, States: []State{StateIdle}},
		log:   o.log.With().Str("request_id", id).Str("mode", string(mode)).Logger(),
		start: o.now(),
	}
	return r
}

func (r *run) enter(s State) {
	if r.done {
		return
	}
	r.trace.States = append(r.trace.States, s)
	r.log.Debug().Str("state", string(s)).Msg("pipeline state")
}

func (r *run) finish(now time.Time) {
	r.enter(StateDone)
	r.done = true
	r.trace.Duration = now.Sub(r.start)
}

func (r *run) succeed(now time.Time) Trace {
	r.trace.Success = true
	r.finish(now)
	r.log.Info().Strs("states", states(r.trace.States)).Dur("duration", r.trace.Duration).Msg("pipeline succeeded")
	return r.trace
}

// fail converts err into the single typed error leaving the orchestrator
func (r *run) fail(now time.Time, err error) *apperr.Error {
	e := apperr.As(err)
	r.trace.Kind = e.Kind
	r.finish(now)
	r.log.Warn().Err(e).Str("kind", string(e.Kind)).Strs("states", states(r.trace.States)).Msg("pipeline failed")
	return e
}

func states(in []State) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
