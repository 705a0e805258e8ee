// Package engine implements the host interop surface (C15): the public
// embedding API wiring lexer → parser → builder → transform passes →
// evaluator together, the same role the teacher's internal/interp.New plus
// cmd/dwscript's driver code split between them — here consolidated into
// one embeddable type so a host program never touches the internal
// packages directly (spec §6 Programmatic embedding surface).
package engine

import (
	"fmt"
	"time"

	"github.com/cwbudde/ecmalite/internal/builder"
	"github.com/cwbudde/ecmalite/internal/config"
	"github.com/cwbudde/ecmalite/internal/errors"
	"github.com/cwbudde/ecmalite/internal/eval"
	"github.com/cwbudde/ecmalite/internal/object"
	"github.com/cwbudde/ecmalite/internal/parser"
	"github.com/cwbudde/ecmalite/internal/sched"
	"github.com/cwbudde/ecmalite/internal/transform/constfold"
	"github.com/cwbudde/ecmalite/internal/transform/cps"
	"github.com/cwbudde/ecmalite/internal/transform/genlower"
	"github.com/cwbudde/ecmalite/pkg/ast"
	"github.com/cwbudde/ecmalite/pkg/token"
)

var zeroPos token.Position

// Exception is one entry on the exceptions() stream: an unhandled runtime
// error or promise rejection, with the context string identifying where it
// surfaced (spec §6 exceptions() → {message, value, context}).
type Exception struct {
	Message string
	Value   object.Value
	Context string
}

// DebugSnapshot is one entry on the debugMessages() stream: a best-effort
// variable snapshot a debugging tool can display (spec §4.15).
type DebugSnapshot struct {
	Variables map[string]object.Value
}

// Callable is the signature a host function registered via
// SetGlobalFunction must implement (spec §6: callable(receiver, args[]) →
// Value | Promise<Value>).
type Callable func(receiver object.Value, args []object.Value) (object.Value, error)

// Engine is one independent, in-memory script execution context (spec §6
// Persistent state: none, each instance is independent). It is not safe
// for concurrent use from multiple goroutines, matching the single-
// threaded execution model the rest of the engine assumes.
type Engine struct {
	cfg      config.Config
	interp   *eval.Interpreter
	sched    *sched.Scheduler
	disposed bool

	exceptions chan Exception
	debug      chan DebugSnapshot
}

// New creates an Engine with the given tuning. A zero config.Config is
// valid and behaves like config.Default().
func New(cfg config.Config) *Engine {
	if cfg.MaxRecursionDepth <= 0 {
		cfg.MaxRecursionDepth = config.Default().MaxRecursionDepth
	}
	sc := sched.New()
	in := eval.New(sc)
	in.SetMaxCallDepth(cfg.MaxRecursionDepth)

	eg := &Engine{
		cfg:        cfg,
		interp:     in,
		sched:      sc,
		exceptions: make(chan Exception, 64),
		debug:      make(chan DebugSnapshot, 64),
	}
	return eg
}

func (e *Engine) checkDisposed() error {
	if e.disposed {
		return errors.New(errors.KindDisposed, zeroPos, "engine has been disposed", "", "")
	}
	return nil
}

// Evaluate parses and runs source synchronously, producing its completion
// value without draining the microtask/host-task queues (spec §4.10,
// §6 evaluate(source) → Value).
func (e *Engine) Evaluate(source string) (object.Value, error) {
	if err := e.checkDisposed(); err != nil {
		return nil, err
	}
	prog, err := e.parseAndLower(source, "<evaluate>")
	if err != nil {
		return nil, err
	}
	v, err := e.interp.Run(prog)
	if err != nil {
		e.publishException(err, "evaluate")
		return nil, err
	}
	return v, nil
}

// Run evaluates source, then drains the scheduler's microtask and host-task
// queues until both are empty or the configured execution timeout elapses
// (spec §4.14 run(source) executes synchronously then drains the queues).
func (e *Engine) Run(source string) (object.Value, error) {
	if err := e.checkDisposed(); err != nil {
		return nil, err
	}
	prog, err := e.parseAndLower(source, "<run>")
	if err != nil {
		return nil, err
	}
	v, err := e.interp.Run(prog)
	if err != nil {
		e.publishException(err, "run")
		return nil, err
	}

	var deadline time.Time
	if to := e.cfg.ExecutionTimeout(); to > 0 {
		deadline = time.Now().Add(to)
	}
	if !e.sched.RunUntil(deadline) {
		return nil, errors.New(errors.KindTimeout, zeroPos,
			fmt.Sprintf("execution timed out after %s", e.cfg.ExecutionTimeout()), "", "")
	}
	return v, nil
}

// parseAndLower runs source through the full pipeline (parse → build →
// fold → validate yield placement → validate await placement), producing
// an evaluator-ready typed AST. See DESIGN.md's "Pipeline ordering
// decision" for why constant folding runs after the builder rather than
// before it, as spec §9's data-flow line names.
func (e *Engine) parseAndLower(source, file string) (*ast.Program, error) {
	p := parser.New(source, file)
	root := p.Parse()
	if p.Errors().HasErrors() {
		return nil, p.Errors()
	}

	prog, err := builder.Build(root)
	if err != nil {
		return nil, errors.New(errors.KindInternal, zeroPos, err.Error(), source, file)
	}

	constfold.Fold(prog)

	if _, err := genlower.Lower(prog); err != nil {
		return nil, errors.New(errors.KindSyntax, zeroPos, err.Error(), source, file)
	}
	if _, err := cps.Lower(prog); err != nil {
		return nil, errors.New(errors.KindSyntax, zeroPos, err.Error(), source, file)
	}

	return prog, nil
}

// SetGlobalFunction installs fn as a global callable named name, visible to
// script code at the top level (spec §6 setGlobalFunction).
func (e *Engine) SetGlobalFunction(name string, fn Callable) {
	host := object.NewHostCallable(e.interp.Protos.Function, name, func(this object.Value, args []object.Value) (object.Value, error) {
		v, err := fn(this, args)
		if err != nil {
			if te, ok := err.(*eval.ThrowError); ok {
				return nil, te
			}
			return nil, eval.Throw(&object.String{Value: err.Error()})
		}
		return v, nil
	})
	e.interp.Global.Initialize(name, host)
}

// ScheduleTask enqueues task as a host task; task runs on the scheduler
// thread once the current synchronous frame (and any microtasks it
// produced) has drained (spec §4.14 scheduleTask).
func (e *Engine) ScheduleTask(task func()) {
	e.sched.ScheduleTimer(0, task)
}

// Exceptions returns the read-only stream of unhandled exceptions and
// rejections (spec §6 exceptions()).
func (e *Engine) Exceptions() <-chan Exception { return e.exceptions }

// DebugMessages returns the read-only stream of best-effort variable
// snapshots (spec §6 debugMessages()).
func (e *Engine) DebugMessages() <-chan DebugSnapshot { return e.debug }

func (e *Engine) publishException(err error, context string) {
	msg := err.Error()
	var val object.Value = &object.String{Value: msg}
	if te, ok := err.(*eval.ThrowError); ok {
		val = te.ScriptValue()
	}
	select {
	case e.exceptions <- Exception{Message: msg, Value: val, Context: context}:
	default:
		// exception stream full: drop rather than block the scheduler, the
		// same best-effort posture spec §6 gives debugMessages().
	}
}

// Dispose cancels the scheduler and releases resources; idempotent. After
// it, Evaluate and Run return a disposed error; SetGlobalFunction and
// ScheduleTask do not check for disposal.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.sched.Clear()
	close(e.exceptions)
	close(e.debug)
}
