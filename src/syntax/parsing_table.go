package syntax

import "sort"

// ActionKind enumerates the different kinds of actions the parser can take.
// The zero value is AKError so that a missing action is always an error.
type ActionKind int

// Valid action kinds
const (
	AKError ActionKind = iota
	AKShift
	AKReduce
	AKShiftReduce // shift the symbol then immediately reduce by a production
	AKAccept      // stores no data
)

func (ak ActionKind) String() string {
	switch ak {
	case AKShift:
		return "shift"
	case AKReduce:
		return "reduce"
	case AKShiftReduce:
		return "shift&reduce"
	case AKAccept:
		return "accept"
	default:
		return "error"
	}
}

// NoProduction marks the absence of a production (no default reduce, leaf
// nodes that were not created by a reduce)
const NoProduction = -1

// Action is a single entry in the parsing table.  Operand is the state to shift
// to for shift actions and the production to reduce by for reduce and
// shift-reduce actions.  Accept and error actions store no data.
type Action struct {
	Kind    ActionKind
	Operand int
}

// Shift-class actions are the only actions a goto may resolve to
func (a Action) isShift() bool {
	return a.Kind == AKShift || a.Kind == AKShiftReduce
}

// State is a single row of the parsing table.  Actions only holds entries for
// the symbols that are valid in this state (lookaheads and the nonterminals
// that can be reduced into it).  DefaultReduce is used for every lookahead that
// has no entry; it is NoProduction if the state has no default.
type State struct {
	Actions       map[int]Action
	DefaultReduce int
}

// NewState creates an empty state with no default reduce
func NewState() *State {
	return &State{Actions: make(map[int]Action), DefaultReduce: NoProduction}
}

// ParsingTable is the action-goto table of the parser.  Gotos are stored as
// shift-class actions on nonterminals in the same rows as the actions.
type ParsingTable struct {
	States []*State
}

// State returns the row for a given state id (faults if there is none)
func (pt *ParsingTable) State(id int) *State {
	if id < 0 || id >= len(pt.States) {
		panic(newTableFault("state %d out of range [0, %d)", id, len(pt.States)))
	}

	return pt.States[id]
}

// Lookup determines the action for a given state and lookahead symbol.  An
// explicit entry always takes precedence; the default reduce of the state is
// only consulted when there is none.  If neither exists, the action is an
// error.
func (pt *ParsingTable) Lookup(state, symbol int) Action {
	row := pt.State(state)

	if act, ok := row.Actions[symbol]; ok {
		return act
	}

	if row.DefaultReduce != NoProduction {
		return Action{Kind: AKReduce, Operand: row.DefaultReduce}
	}

	return Action{Kind: AKError}
}

// Goto looks up the transition taken on a nonterminal after a reduce.  Only
// explicit entries are considered: a default reduce is a lookahead fallback
// and never answers a goto.
func (pt *ParsingTable) Goto(state, nonterminal int) Action {
	return pt.State(state).Actions[nonterminal]
}

// Expected returns the sorted list of symbols that have an explicit entry in
// the given state (used to build syntax error messages)
func (pt *ParsingTable) Expected(state int) []int {
	row := pt.State(state)

	expected := make([]int, 0, len(row.Actions))
	for sym := range row.Actions {
		expected = append(expected, sym)
	}

	sort.Ints(expected)
	return expected
}

// Tables bundles the grammar and the parsing table built for it.  Tables are
// never modified once loaded and may be shared by any number of concurrent
// parses.
type Tables struct {
	Grammar *Grammar
	Table   *ParsingTable
}

// NewTables bundles a grammar and a table and builds the grammar's name index
func NewTables(g *Grammar, pt *ParsingTable) *Tables {
	g.Index()
	return &Tables{Grammar: g, Table: pt}
}

// TableStats summarizes the contents of a set of tables
type TableStats struct {
	Symbols, Terminals  int
	Productions, States int
	Actions             int
	DefaultReduces      int
	ShiftReduces        int
}

// Stats counts the entries of the tables (used by the check command)
func (t *Tables) Stats() TableStats {
	ts := TableStats{
		Symbols:     len(t.Grammar.Symbols),
		Productions: len(t.Grammar.Productions),
		States:      len(t.Table.States),
	}

	for _, sym := range t.Grammar.Symbols {
		if sym.Terminal {
			ts.Terminals++
		}
	}

	for _, row := range t.Table.States {
		ts.Actions += len(row.Actions)

		if row.DefaultReduce != NoProduction {
			ts.DefaultReduces++
		}

		for _, act := range row.Actions {
			if act.Kind == AKShiftReduce {
				ts.ShiftReduces++
			}
		}
	}

	return ts
}
