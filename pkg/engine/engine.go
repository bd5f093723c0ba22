// Package engine provides the Lisp evaluation engine for shell design
// scripts. It wraps zygomys in a sandboxed environment and produces a
// DesignGraph from user source code.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/chazu/spaceship/pkg/graph"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
	NodeID  graph.NodeID
}

// EvalResult bundles the full output of an evaluation.
type EvalResult struct {
	Graph    *graph.DesignGraph
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter for design script evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment, so the same script always yields the same graph.
type Engine struct {
	timeout time.Duration
	gen     generation
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the limit for one evaluation. A limit <= 0 disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// NewEngine creates a new Engine with an EvalTimeout limit.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: EvalTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timeout returns the evaluation limit.
func (e *Engine) Timeout() time.Duration {
	return e.timeout
}

// Evaluate takes design script source and produces a new DesignGraph.
//
// Return semantics:
//   - On success: returns graph + nil errors + nil error
//   - On parse/eval failure: returns nil graph + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*graph.DesignGraph, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate that also gives up when ctx is done.
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*graph.DesignGraph, []EvalError, error) {
	n := e.gen.next()
	out, err := Bounded(ctx, e.timeout, "evaluation", func() (evaluation, error) {
		g, evalErrs := e.evaluate(source)
		return evaluation{graph: g, errors: evalErrs}, nil
	})
	return e.settle(n, out, err)
}

// evaluation is the product of one script run.
type evaluation struct {
	graph  *graph.DesignGraph
	errors []EvalError
}

// settle returns the outcome of request n, or ErrSuperseded if a newer
// request started while it ran.
func (e *Engine) settle(n uint64, out evaluation, err error) (*graph.DesignGraph, []EvalError, error) {
	if err != nil {
		return nil, nil, err
	}
	if !e.gen.latest(n) {
		return nil, nil, fmt.Errorf("evaluation %w", ErrSuperseded)
	}
	return out.graph, out.errors, nil
}

// evaluate runs source in a fresh sandbox, which keeps scripts away from
// the filesystem and syscalls.
func (e *Engine) evaluate(source string) (*graph.DesignGraph, []EvalError) {
	g := graph.New()
	if strings.TrimSpace(source) == "" {
		return g, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()

	b := newBuilder(g)
	b.register(env)

	// Builtins populate g while the compiled script runs.
	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err)
	}

	b.finish()
	return g, nil
}

// linePatterns extract a line number and detail from zygomys errors,
// which read either "Error on line N: ..." or "line N: ...".
var linePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`),
	regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`),
}

// parseZygomysError converts a zygomys error into EvalErrors, keeping the
// line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range linePatterns {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
