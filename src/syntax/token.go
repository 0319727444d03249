package syntax

import "io"

// Span is the byte range [Start, End) of the source text covered by a token
// or a node
type Span struct {
	Start, End int
}

// NoSpan is the span of frames and nodes that cover no input (eg. the bottom
// of the stack or a reduce of an empty production)
var NoSpan = Span{Start: -1, End: -1}

// IsEmpty checks whether the span covers no input at all
func (s Span) IsEmpty() bool {
	return s.Start < 0
}

// Cover returns the smallest span covering both spans.  Empty spans are
// ignored so that empty productions do not distort their parents' spans.
func (s Span) Cover(other Span) Span {
	if s.IsEmpty() {
		return other
	}

	if other.IsEmpty() {
		return s
	}

	if other.Start < s.Start {
		s.Start = other.Start
	}

	if other.End > s.End {
		s.End = other.End
	}

	return s
}

// Token is a classified piece of input as delivered by a token source.  Text
// is optional; it is only kept by the parser if the symbol is a lexem.
type Token struct {
	Symbol int
	Span   Span
	Text   string
}

// TokenSource is a pull-based supplier of tokens.  It returns io.EOF once the
// input is exhausted (which the parser turns into the grammar's end-of-input
// symbol) and must never return a token for a whitespace symbol.
type TokenSource interface {
	Next() (Token, error)
}

// SliceSource is a token source over a slice of already classified tokens
type SliceSource struct {
	tokens []Token
	pos    int
}

// NewSliceSource creates a new token source reading from the given tokens
func NewSliceSource(tokens ...Token) *SliceSource {
	return &SliceSource{tokens: tokens}
}

// Next returns the next token of the slice or io.EOF once all tokens have been
// read
func (ss *SliceSource) Next() (Token, error) {
	if ss.pos >= len(ss.tokens) {
		return Token{}, io.EOF
	}

	tok := ss.tokens[ss.pos]
	ss.pos++
	return tok, nil
}
