package tools

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/bobmcallan/cloudflare-mcp/internal/common"
)

func newTestRegistry(t *testing.T, defs ...Definition) *Registry {
	t.Helper()
	r := NewRegistry(common.NewSilentLogger())
	if err := r.RegisterAll(defs...); err != nil {
		t.Fatalf("RegisterAll failed: %v", err)
	}
	return r
}

func echoTool(name string) Definition {
	return Definition{
		Name:   name,
		Params: []Param{{Name: "msg", Type: TypeString, Required: true}},
		Handler: func(_ context.Context, in Input) Envelope {
			return TextEnvelope(in.String("msg"))
		},
	}
}

func TestRegister_PreservesOrder(t *testing.T) {
	r := newTestRegistry(t, echoTool("c"), echoTool("a"), echoTool("b"))

	var names []string
	for _, def := range r.Definitions() {
		names = append(names, def.Name)
	}
	if !reflect.DeepEqual(names, []string{"c", "a", "b"}) {
		t.Errorf("Expected registration order, got %v", names)
	}
}

func TestRegister_RejectsDuplicate(t *testing.T) {
	r := newTestRegistry(t, echoTool("echo"))

	replacement := Definition{
		Name:    "echo",
		Handler: func(context.Context, Input) Envelope { return TextEnvelope("replaced") },
	}
	err := r.Register(replacement)
	if !errors.Is(err, ErrDuplicateTool) {
		t.Fatalf("Expected ErrDuplicateTool, got %v", err)
	}

	env, err := r.Dispatch(context.Background(), "echo", map[string]any{"msg": "first"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if env.Text() != "first" {
		t.Errorf("Expected first registration to win, got %q", env.Text())
	}
	if len(r.Definitions()) != 1 {
		t.Errorf("Expected 1 definition, got %d", len(r.Definitions()))
	}
}

func TestRegister_InvalidDefinitions(t *testing.T) {
	noop := func(context.Context, Input) Envelope { return TextEnvelope("") }
	tests := []struct {
		name string
		def  Definition
	}{
		{"empty name", Definition{Handler: noop}},
		{"nil handler", Definition{Name: "x"}},
		{"unsupported type", Definition{Name: "x", Handler: noop, Params: []Param{{Name: "p", Type: "boolean"}}}},
		{"empty param name", Definition{Name: "x", Handler: noop, Params: []Param{{Type: TypeString}}}},
		{"duplicate param", Definition{Name: "x", Handler: noop, Params: []Param{{Name: "p", Type: TypeString}, {Name: "p", Type: TypeNumber}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(common.NewSilentLogger())
			if err := r.Register(tt.def); err == nil {
				t.Error("Expected error")
			}
			if len(r.Definitions()) != 0 {
				t.Error("Expected nothing registered")
			}
		})
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	r := newTestRegistry(t, echoTool("echo"))

	_, err := r.Dispatch(context.Background(), "nope", nil)
	var unknown *UnknownToolError
	if !errors.As(err, &unknown) {
		t.Fatalf("Expected UnknownToolError, got %v", err)
	}
	if unknown.Name != "nope" {
		t.Errorf("Expected name nope, got %s", unknown.Name)
	}
}

func TestDispatch_ValidationListsAllFields(t *testing.T) {
	called := false
	r := newTestRegistry(t, Definition{
		Name: "multi",
		Params: []Param{
			{Name: "a", Type: TypeNumber, Required: true},
			{Name: "b", Type: TypeNumber, Required: true},
			{Name: "label", Type: TypeString},
			{Name: "mode", Type: TypeString, Enum: []string{"fast", "slow"}},
		},
		Handler: func(context.Context, Input) Envelope {
			called = true
			return TextEnvelope("ran")
		},
	})

	_, err := r.Dispatch(context.Background(), "multi", map[string]any{
		"a":     "one",
		"label": 5.0,
		"mode":  "medium",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Tool != "multi" {
		t.Errorf("Expected tool multi, got %s", verr.Tool)
	}
	want := []string{"a", "b", "label", "mode"}
	if !reflect.DeepEqual(verr.FieldNames(), want) {
		t.Errorf("Expected fields %v, got %v", want, verr.FieldNames())
	}
	if verr.Fields[1].Message != "is required" {
		t.Errorf("Expected missing b to be reported as required, got %q", verr.Fields[1].Message)
	}
	if called {
		t.Error("Handler must not run on invalid input")
	}
}

func TestDispatch_NilArgsMissingRequired(t *testing.T) {
	r := newTestRegistry(t, echoTool("echo"))

	_, err := r.Dispatch(context.Background(), "echo", nil)
	var verr *ValidationError
	if !errors.As(err, &verr) || !reflect.DeepEqual(verr.FieldNames(), []string{"msg"}) {
		t.Fatalf("Expected ValidationError on msg, got %v", err)
	}
}

func TestDispatch_IgnoresUnknownArguments(t *testing.T) {
	r := newTestRegistry(t, echoTool("echo"))

	env, err := r.Dispatch(context.Background(), "echo", map[string]any{"msg": "hi", "extra": true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if env.Text() != "hi" {
		t.Errorf("Expected hi, got %q", env.Text())
	}
}

func TestDispatch_RecoversPanic(t *testing.T) {
	r := newTestRegistry(t, Definition{
		Name:    "explode",
		Handler: func(context.Context, Input) Envelope { panic("boom") },
	})

	env, err := r.Dispatch(context.Background(), "explode", map[string]any{})
	if err != nil {
		t.Fatalf("Panic must not escape as an error, got %v", err)
	}
	if env.Text() != "Error: internal error in explode: boom" {
		t.Errorf("Unexpected envelope %q", env.Text())
	}
	if len(env.Content) != 1 || env.Content[0].Kind != ContentKindText {
		t.Errorf("Expected one text item, got %+v", env.Content)
	}
}

func TestDispatch_EmptyEnvelopeGetsContent(t *testing.T) {
	r := newTestRegistry(t, Definition{
		Name:    "silent",
		Handler: func(context.Context, Input) Envelope { return Envelope{} },
	})

	env, err := r.Dispatch(context.Background(), "silent", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(env.Content) != 1 || env.Text() != "Error: silent returned no content" {
		t.Errorf("Unexpected envelope %+v", env)
	}
}

func TestDispatch_Concurrent(t *testing.T) {
	r := newTestRegistry(t, ArithmeticTools()...)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n float64) {
			defer wg.Done()
			env, err := r.Dispatch(context.Background(), "add", map[string]any{"a": n, "b": 1.0})
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if env.Text() != FormatNumber(n+1) {
				t.Errorf("Expected %s, got %s", FormatNumber(n+1), env.Text())
			}
		}(float64(i))
	}
	wg.Wait()
}

func TestInput_Accessors(t *testing.T) {
	in := Input{"s": "text", "empty": "", "n": 2.5}

	if in.String("s") != "text" || in.String("missing") != "" {
		t.Error("String accessor mismatch")
	}
	if in.StringOr("missing", "dflt") != "dflt" {
		t.Error("Expected fallback for absent argument")
	}
	if in.StringOr("empty", "dflt") != "" {
		t.Error("Expected supplied empty string to be kept")
	}
	if in.Number("n") != 2.5 || in.Number("missing") != 0 {
		t.Error("Number accessor mismatch")
	}
}
