package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// symbol ids of the addition grammar
const (
	addEOF = iota
	addNUM
	addPLUS
	addWS
	addExpr
	addS
)

// addGrammar is the grammar
//
//	S    -> Expr
//	Expr -> Expr PLUS NUM   (emit "add")
//	Expr -> NUM
func addGrammar() *Grammar {
	return &Grammar{
		Symbols: []*Symbol{
			{ID: addEOF, Name: "EOF", Terminal: true},
			{ID: addNUM, Name: "NUM", Emit: "num", Terminal: true, Lexem: true, Pattern: `[0-9]+`},
			{ID: addPLUS, Name: "PLUS", Terminal: true, Pattern: `\+`},
			{ID: addWS, Name: "WS", Terminal: true, Whitespace: true, Pattern: `[ \t\r\n]+`},
			{ID: addExpr, Name: "Expr"},
			{ID: addS, Name: "S"},
		},
		Productions: []*Production{
			{ID: 0, LHS: addS, RHS: []int{addExpr}},
			{ID: 1, LHS: addExpr, Emit: "add", RHS: []int{addExpr, addPLUS, addNUM}},
			{ID: 2, LHS: addExpr, RHS: []int{addNUM}},
		},
		Goal: addS,
		EOF:  addEOF,
	}
}

func row(defaultReduce int, actions map[int]Action) *State {
	if actions == nil {
		actions = map[int]Action{}
	}

	return &State{Actions: actions, DefaultReduce: defaultReduce}
}

func shift(state int) Action { return Action{Kind: AKShift, Operand: state} }
func reduce(prod int) Action { return Action{Kind: AKReduce, Operand: prod} }
func shiftRed(prod int) Action { return Action{Kind: AKShiftReduce, Operand: prod} }

// addTables are the compact SLR tables of the addition grammar: states 1 and
// 4 only hold a default reduce
func addTables() *Tables {
	return NewTables(addGrammar(), &ParsingTable{States: []*State{
		row(NoProduction, map[int]Action{addNUM: shift(1), addExpr: shift(2)}),
		row(2, nil),
		row(NoProduction, map[int]Action{addEOF: reduce(0), addPLUS: shift(3)}),
		row(NoProduction, map[int]Action{addNUM: shift(4)}),
		row(1, nil),
	}})
}

// addTablesExplicit is addTables with every default reduce spelled out
func addTablesExplicit() *Tables {
	return NewTables(addGrammar(), &ParsingTable{States: []*State{
		row(NoProduction, map[int]Action{addNUM: shift(1), addExpr: shift(2)}),
		row(NoProduction, map[int]Action{addEOF: reduce(2), addPLUS: reduce(2)}),
		row(NoProduction, map[int]Action{addEOF: reduce(0), addPLUS: shift(3)}),
		row(NoProduction, map[int]Action{addNUM: shift(4)}),
		row(NoProduction, map[int]Action{addEOF: reduce(1), addPLUS: reduce(1)}),
	}})
}

// addTablesFused replaces the shift into state 4 with a shift-reduce
func addTablesFused() *Tables {
	return NewTables(addGrammar(), &ParsingTable{States: []*State{
		row(NoProduction, map[int]Action{addNUM: shift(1), addExpr: shift(2)}),
		row(2, nil),
		row(NoProduction, map[int]Action{addEOF: reduce(0), addPLUS: shift(3)}),
		row(NoProduction, map[int]Action{addNUM: shiftRed(1)}),
	}})
}

// addTablesAccept accepts on the end of input with an explicit accept entry
// instead of reducing the goal
func addTablesAccept() *Tables {
	return NewTables(addGrammar(), &ParsingTable{States: []*State{
		row(NoProduction, map[int]Action{addNUM: shift(1), addExpr: shift(2)}),
		row(2, nil),
		row(NoProduction, map[int]Action{addEOF: {Kind: AKAccept}, addPLUS: shift(3)}),
		row(NoProduction, map[int]Action{addNUM: shift(4)}),
		row(1, nil),
	}})
}

// symbol ids of the pair grammar
const (
	pairEOF = iota
	pairA
	pairB
	pairPair
	pairX
	pairY
	pairS
)

// pairTables are the tables of the grammar
//
//	S    -> Pair
//	Pair -> X Y   (emit "pair")
//	X    -> A     (A emits "a")
//	Y    -> B     (B emits "b")
//
// If `fusedGoto` is set, the goto on Pair from state 0 is a shift-reduce by
// S -> Pair instead of a shift into state 2.
func pairTables(fusedGoto bool) *Tables {
	g := &Grammar{
		Symbols: []*Symbol{
			{ID: pairEOF, Name: "EOF", Terminal: true},
			{ID: pairA, Name: "A", Emit: "a", Terminal: true, Pattern: `a`},
			{ID: pairB, Name: "B", Emit: "b", Terminal: true, Pattern: `b`},
			{ID: pairPair, Name: "Pair"},
			{ID: pairX, Name: "X"},
			{ID: pairY, Name: "Y"},
			{ID: pairS, Name: "S"},
		},
		Productions: []*Production{
			{ID: 0, LHS: pairS, RHS: []int{pairPair}},
			{ID: 1, LHS: pairPair, Emit: "pair", RHS: []int{pairX, pairY}},
			{ID: 2, LHS: pairX, RHS: []int{pairA}},
			{ID: 3, LHS: pairY, RHS: []int{pairB}},
		},
		Goal: pairS,
		EOF:  pairEOF,
	}

	pairGoto := shift(2)
	if fusedGoto {
		pairGoto = shiftRed(0)
	}

	return NewTables(g, &ParsingTable{States: []*State{
		row(NoProduction, map[int]Action{pairA: shift(1), pairPair: pairGoto, pairX: shift(3)}),
		row(2, nil),
		row(0, nil),
		row(NoProduction, map[int]Action{pairB: shift(4), pairY: shift(5)}),
		row(3, nil),
		row(1, nil),
	}})
}

// toks builds a token stream of single byte tokens laid out back to back
func toks(symbols ...int) []Token {
	tokens := make([]Token, len(symbols))
	for i, sym := range symbols {
		tokens[i] = Token{Symbol: sym, Span: Span{Start: i, End: i + 1}}
	}

	return tokens
}

// shape renders a tree as a compact string such as "add(num num)"
func shape(roots []*Node) string {
	s := ""
	for i, n := range roots {
		if i > 0 {
			s += " "
		}

		s += n.Emit
		if len(n.Children) > 0 {
			s += "(" + shape(n.Children) + ")"
		}
	}

	return s
}

func parse(t *testing.T, tables *Tables, tokens []Token, opts ...Option) []*Node {
	roots, err := NewParser(tables, opts...).Parse(NewSliceSource(tokens...))
	require.NoError(t, err)
	return roots
}

func parseErr(t *testing.T, tables *Tables, tokens []Token) *SyntaxError {
	roots, err := NewParser(tables).Parse(NewSliceSource(tokens...))
	require.Nil(t, roots)
	require.Error(t, err)

	se, ok := err.(*SyntaxError)
	require.True(t, ok, "expected a syntax error, got %v", err)
	return se
}

// requireFault runs fn and checks that it panics with a table fault
func requireFault(t *testing.T, fn func()) *TableFault {
	var fault *TableFault

	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected a table fault")

			tf, ok := r.(*TableFault)
			require.True(t, ok, "expected a table fault, got %v", r)
			fault = tf
		}()

		fn()
	}()

	return fault
}

// recorder collects every event reported by the parser
type recorder struct {
	shifts  []ShiftEvent
	reduces []ReduceEvent
	accepts int
	rejects []*SyntaxError
}

func (r *recorder) Shift(ev ShiftEvent) { r.shifts = append(r.shifts, ev) }
func (r *recorder) Reduce(ev ReduceEvent) { r.reduces = append(r.reduces, ev) }
func (r *recorder) Accept([]*Node) { r.accepts++ }
func (r *recorder) Reject(err *SyntaxError) { r.rejects = append(r.rejects, err) }
