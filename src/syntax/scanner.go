package syntax

import (
	"io"
	"regexp"
	"unicode/utf8"

	"github.com/pingcap/errors"
)

// ErrMalformedToken is the cause of the errors returned by a scanner that
// cannot match any terminal at its current position
var ErrMalformedToken = errors.New("malformed token")

// Lexicon holds the compiled patterns of all the terminals of a grammar that
// have one.  It is built once per set of tables and shared by all scanners.
type Lexicon struct {
	g     *Grammar
	rules []lexRule
}

type lexRule struct {
	symbol int
	re     *regexp.Regexp
}

// NewLexicon compiles the patterns of the grammar's terminals.  Terminals
// without a pattern (such as the end-of-input symbol) are never scanned.
func NewLexicon(g *Grammar) (*Lexicon, error) {
	lex := &Lexicon{g: g}

	for _, sym := range g.Symbols {
		if !sym.Terminal || sym.Pattern == "" {
			continue
		}

		// anchor every pattern so that it can only match at the scan position
		re, err := regexp.Compile(`\A(?:` + sym.Pattern + `)`)
		if err != nil {
			return nil, errors.Annotatef(err, "pattern of terminal '%s'", g.SymbolName(sym.ID))
		}

		// alternatives inside a pattern follow the longest match as well
		re.Longest()

		lex.rules = append(lex.rules, lexRule{symbol: sym.ID, re: re})
	}

	if len(lex.rules) == 0 {
		return nil, errors.New("grammar has no terminal with a pattern")
	}

	return lex, nil
}

// Scanner is a token source over a piece of source text.  Terminals are
// matched by their patterns: the longest match wins and ties go to the
// terminal with the lower id.  Matches of whitespace terminals are skipped.
type Scanner struct {
	lex *Lexicon
	src []byte
	pos int

	line int
	col  int
}

// NewScanner creates a scanner over the given source text
func NewScanner(lex *Lexicon, src []byte) *Scanner {
	s := &Scanner{lex: lex, src: src, line: 1}

	// skip a leading byte order mark
	if r, n := utf8.DecodeRune(src); r == '\uFEFF' {
		s.pos = n
	}

	return s
}

// Next reads the next non-whitespace token from the source text
func (s *Scanner) Next() (Token, error) {
	for s.pos < len(s.src) {
		rest := s.src[s.pos:]

		best, bestLen := NoSymbol, 0
		for _, rule := range s.lex.rules {
			loc := rule.re.FindIndex(rest)

			// empty matches would never advance the scanner
			if loc == nil || loc[1] <= bestLen {
				continue
			}

			best, bestLen = rule.symbol, loc[1]
		}

		if best == NoSymbol {
			_, n := utf8.DecodeRune(rest)
			return Token{}, errors.Annotatef(ErrMalformedToken, "'%s' at %d:%d", rest[:n], s.line, s.col+1)
		}

		tok := Token{
			Symbol: best,
			Span:   Span{Start: s.pos, End: s.pos + bestLen},
			Text:   string(rest[:bestLen]),
		}

		s.advance(bestLen)

		if s.lex.g.Symbols[best].Whitespace {
			continue
		}

		return tok, nil
	}

	return Token{}, io.EOF
}

// Position returns the line and column (both starting at 1) the scanner is at
func (s *Scanner) Position() (int, int) {
	return s.line, s.col + 1
}

// advance moves the scanner forward by n bytes doing line and column counting
func (s *Scanner) advance(n int) {
	for _, r := range string(s.src[s.pos : s.pos+n]) {
		if r == '\n' {
			s.line++
			s.col = 0
		} else {
			s.col++
		}
	}

	s.pos += n
}
