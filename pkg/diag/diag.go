// Package diag defines the diagnostic kinds shared across lexing, parsing,
// semantic analysis and code generation (spec §7).
package diag

import (
	"fmt"
	"strings"

	"github.com/jackc-project/jackc/pkg/token"
)

// Kind classifies a diagnostic into one of the spec's four error families.
type Kind string

const (
	LexError      Kind = "lex error"
	ParseError    Kind = "parse error"
	SemanticError Kind = "semantic error"
	IOError       Kind = "io error"
)

// Error is a single, located diagnostic: (file, line, column, message).
type Error struct {
	Kind Kind
	Pos  token.Position
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Msg)
}

// New builds an *Error for the given kind/position, formatting Msg like
// fmt.Errorf.
func New(kind Kind, pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// List accumulates multiple diagnostics for a single file, used by the
// parser's panic-mode recovery (spec §4.2: "multiple errors may be
// reported per file").
type List struct {
	Errors []*Error
}

func (l *List) Add(e *Error) { l.Errors = append(l.Errors, e) }

func (l *List) HasErrors() bool { return len(l.Errors) > 0 }

func (l *List) Error() string {
	lines := make([]string, len(l.Errors))
	for i, e := range l.Errors {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}
