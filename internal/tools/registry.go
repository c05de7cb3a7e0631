// Package tools holds the tool registry and dispatcher along with the tools
// the server exposes. Every tool returns an Envelope; only unknown names and
// malformed arguments surface as errors.
package tools

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bobmcallan/cloudflare-mcp/internal/common"
)

const tracerName = "github.com/bobmcallan/cloudflare-mcp/internal/tools"

// Handler runs a tool against validated input. It must report every failure
// inside the returned Envelope.
type Handler func(ctx context.Context, in Input) Envelope

// Definition describes a tool. It is immutable once registered.
type Definition struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

type entry struct {
	def    Definition
	params []compiledParam
}

// Registry is an ordered set of tool definitions. Register during startup;
// after that the registry is read-only and safe for concurrent Dispatch.
type Registry struct {
	logger  *common.Logger
	tracer  trace.Tracer
	order   []string
	entries map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *common.Logger) *Registry {
	return &Registry{
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
		entries: make(map[string]*entry),
	}
}

// UseTracerProvider makes the registry create its dispatch spans from tp.
func (r *Registry) UseTracerProvider(tp trace.TracerProvider) {
	r.tracer = tp.Tracer(tracerName)
}

// Register adds def. Names are unique: a second registration under the same
// name fails with ErrDuplicateTool and leaves the first in place.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q has no handler", def.Name)
	}
	if _, exists := r.entries[def.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, def.Name)
	}

	params, err := compileParams(def.Params)
	if err != nil {
		return fmt.Errorf("tool %q: %w", def.Name, err)
	}

	def.Params = append([]Param(nil), def.Params...)
	r.entries[def.Name] = &entry{def: def, params: params}
	r.order = append(r.order, def.Name)
	return nil
}

// RegisterAll registers defs in order, stopping at the first failure.
func (r *Registry) RegisterAll(defs ...Definition) error {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Definitions returns the registered tools in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.entries[name].def)
	}
	return defs
}

// Dispatch validates args and runs the named tool. It returns an
// *UnknownToolError or *ValidationError for calls that cannot be run; any
// other outcome, including a handler panic, is reported in the Envelope.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (Envelope, error) {
	ctx, span := r.tracer.Start(ctx, "tool "+name,
		trace.WithAttributes(attribute.String("tool.name", name)),
	)
	defer span.End()

	log := common.LoggerFor(ctx, r.logger)

	e, ok := r.entries[name]
	if !ok {
		err := &UnknownToolError{Name: name}
		span.SetStatus(codes.Error, err.Error())
		log.Warn().Str("tool", name).Msg("unknown tool")
		return Envelope{}, err
	}

	if err := validate(name, e.params, args); err != nil {
		span.SetStatus(codes.Error, err.Error())
		log.Warn().Str("tool", name).Str("error", err.Error()).Msg("tool arguments rejected")
		return Envelope{}, err
	}

	start := time.Now()
	env := r.invoke(ctx, e.def, Input(args))
	event := log.Debug().
		Str("tool", name).
		Int("content_items", len(env.Content))
	if sc := span.SpanContext(); sc.HasTraceID() {
		event = event.Str("trace_id", sc.TraceID().String())
	}
	event.
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("tool dispatched")
	return env, nil
}

func (r *Registry) invoke(ctx context.Context, def Definition, in Input) (env Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			trace.SpanFromContext(ctx).SetStatus(codes.Error, "panic")
			common.LoggerFor(ctx, r.logger).Error().
				Str("tool", def.Name).
				Str("panic", fmt.Sprint(rec)).
				Msg("tool handler panicked")
			env = TextEnvelope(fmt.Sprintf("Error: internal error in %s: %v", def.Name, rec))
		}
	}()

	env = def.Handler(ctx, in)
	if len(env.Content) == 0 {
		env = TextEnvelope(fmt.Sprintf("Error: %s returned no content", def.Name))
	}
	return env
}
