// Package errors formats engine-level errors with source context, matching
// the caret-pointer style of the host compiler's diagnostics.
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/ecmalite/pkg/token"
)

// Kind categorizes an engine error for programmatic handling by an embedder.
type Kind string

const (
	KindSyntax   Kind = "syntax"
	KindRuntime  Kind = "runtime"
	KindInternal Kind = "internal"
	KindTimeout  Kind = "timeout"
	KindDisposed Kind = "disposed"
)

// EngineError is a single diagnostic with position and source context.
type EngineError struct {
	Kind    Kind
	Message string
	Source  string
	File    string
	Pos     token.Position
}

// New creates an EngineError.
func New(kind Kind, pos token.Position, message, source, file string) *EngineError {
	return &EngineError{Kind: kind, Message: message, Source: source, File: file, Pos: pos}
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	return e.Format(false)
}

// Format renders the error with a source-line excerpt and a caret pointing
// at the offending column. With color set, ANSI codes highlight the caret.
func (e *EngineError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "%s error in %s:%d:%d\n", e.Kind, e.File, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "%s error at line %d:%d\n", e.Kind, e.Pos.Line, e.Pos.Column)
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max(0, e.Pos.Column-1)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func (e *EngineError) sourceLine(n int) string {
	if e.Source == "" || n <= 0 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if n > len(lines) {
		return ""
	}
	return lines[n-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// List collects multiple diagnostics, used by the parser, which keeps
// going after a recoverable error instead of aborting on the first one.
type List struct {
	Errors []*EngineError
}

func (l *List) Add(e *EngineError) { l.Errors = append(l.Errors, e) }

func (l *List) HasErrors() bool { return len(l.Errors) > 0 }

func (l *List) Error() string {
	parts := make([]string, len(l.Errors))
	for i, e := range l.Errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n\n")
}
