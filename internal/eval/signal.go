package eval

import "github.com/cwbudde/ecmalite/internal/object"

// signal is a non-local control-flow completion (return/break/continue)
// threaded back up through Eval the way the teacher engine threads a
// runtime panic/recover pair through statement execution, except modeled
// as an explicit value: statement evaluators return (Value, *signal, error).
type signal struct {
	kind  signalKind
	value object.Value // payload for kind == signalReturn
	label string       // target label for kind == signalBreak/signalContinue
}

type signalKind int

const (
	signalNone signalKind = iota
	signalReturn
	signalBreak
	signalContinue
)

func (s *signal) isLoopExit(label string) bool {
	if s == nil {
		return false
	}
	if s.kind != signalBreak && s.kind != signalContinue {
		return false
	}
	return s.label == "" || s.label == label
}
