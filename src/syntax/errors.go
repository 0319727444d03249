package syntax

import (
	"fmt"
	"strings"

	"github.com/pingcap/errors"
)

// Errors caused by misusing the parser or by token sources breaking their
// contract.  These are never syntax errors.
var (
	// ErrInvalidToken is returned when a token source delivers a token whose
	// symbol is unknown, a nonterminal, or flagged as whitespace
	ErrInvalidToken = errors.New("invalid token delivered to the parser")

	// ErrContextFinished is returned when a token is pushed into a parse
	// context that has already accepted or failed
	ErrContextFinished = errors.New("parse context is already finished")
)

// SyntaxError is the only error a well-formed parse can end in: the current
// token has no action in the state on top of the stack.
type SyntaxError struct {
	Symbol int
	Name   string
	Span   Span

	// State is the state on top of the stack when the error occurred
	State int

	// Expected holds the symbols that have an entry in State
	Expected []int

	expectedNames []string
	eof           bool
}

// AtEOF indicates whether the error was caused by the end of the input
func (se *SyntaxError) AtEOF() bool {
	return se.eof
}

// ExpectedNames returns the names of the expected symbols
func (se *SyntaxError) ExpectedNames() []string {
	return se.expectedNames
}

func (se *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %d (state %d)%s", se.what(), se.Span.Start, se.State, se.expecting())
}

// Message describes the error without its position, for reports that locate
// the error on their own
func (se *SyntaxError) Message() string {
	return se.what() + se.expecting()
}

func (se *SyntaxError) what() string {
	if se.eof {
		return "unexpected end of input"
	}

	return fmt.Sprintf("unexpected token '%s'", se.Name)
}

func (se *SyntaxError) expecting() string {
	if len(se.expectedNames) == 0 {
		return ""
	}

	return ", expecting " + strings.Join(se.expectedNames, ", ")
}

// newSyntaxError creates a syntax error for the given token in the given state
func newSyntaxError(t *Tables, tok Token, state int) *SyntaxError {
	g := t.Grammar

	se := &SyntaxError{
		Symbol:   tok.Symbol,
		Name:     g.SymbolName(tok.Symbol),
		Span:     tok.Span,
		State:    state,
		Expected: t.Table.Expected(state),
		eof:      tok.Symbol == g.EOF,
	}

	for _, sym := range se.Expected {
		// gotos on nonterminals are not something the user can "type"
		if g.HasSymbol(sym) && !g.Symbols[sym].Terminal {
			continue
		}

		se.expectedNames = append(se.expectedNames, g.SymbolName(sym))
	}

	return se
}

// TableFault is raised (as a panic) whenever the tables turn out to be
// inconsistent with themselves: a goto that does not shift, an id that is out
// of range, a reduce longer than the stack.  These are bugs in whatever built
// the tables and not something a parse can recover from.
type TableFault struct {
	Message string
}

func (tf *TableFault) Error() string {
	return "table fault: " + tf.Message
}

func newTableFault(format string, args ...interface{}) *TableFault {
	return &TableFault{Message: fmt.Sprintf(format, args...)}
}
