package syntax

import "strconv"

// NoSymbol is used wherever a symbol id is absent (eg. name lookups that fail)
const NoSymbol = -1

// Symbol represents a single terminal or nonterminal of the grammar.  The ID of
// a symbol is its offset into `Grammar.Symbols` and into every action row.
type Symbol struct {
	ID   int
	Name string // only used for diagnostics

	// Emit is the tag of the leaf node created when this symbol is shifted.
	// It is only meaningful for terminals (an empty string means no leaf).
	Emit string

	Terminal bool

	// Whitespace symbols are consumed by the scanner and must never be
	// delivered to the parser
	Whitespace bool

	// Lexem indicates that the text of the token should be kept in the leaf
	// node created for it
	Lexem bool

	// Pattern is the regular expression used by the scanner to match this
	// symbol.  The parser never looks at it.
	Pattern string
}

// Production represents a single grammar rule.  Only the left-hand side, the
// emit tag, and the arity matter at parse time (the table has already checked
// the contents of the rule by the time it is reduced) but the full right-hand
// side is kept for diagnostics and table validation.
type Production struct {
	ID  int
	LHS int

	// Emit is the tag of the node wrapping the children collected by a reduce
	// of this production.  Productions without an emit tag are transparent:
	// their children are spliced directly into the enclosing frame.
	Emit string

	RHS []int
}

// Arity is the number of stack frames popped by a reduce of the production
func (p *Production) Arity() int {
	return len(p.RHS)
}

// Grammar is the set of symbols and productions the parsing table was built
// for along with the goal symbol and the symbol standing for end-of-input.
type Grammar struct {
	Symbols     []*Symbol
	Productions []*Production

	Goal int
	EOF  int

	// names maps symbol names to symbol ids (built by Index)
	names map[string]int
}

// Symbol returns the symbol with the given id.  Asking for a symbol that does
// not exist means the tables are inconsistent and results in a fault.
func (g *Grammar) Symbol(id int) *Symbol {
	if id < 0 || id >= len(g.Symbols) {
		panic(newTableFault("symbol %d out of range [0, %d)", id, len(g.Symbols)))
	}

	return g.Symbols[id]
}

// Production returns the production with the given id (faults if there is no
// such production)
func (g *Grammar) Production(id int) *Production {
	if id < 0 || id >= len(g.Productions) {
		panic(newTableFault("production %d out of range [0, %d)", id, len(g.Productions)))
	}

	return g.Productions[id]
}

// HasSymbol checks whether a symbol id is valid without faulting
func (g *Grammar) HasSymbol(id int) bool {
	return id >= 0 && id < len(g.Symbols)
}

// Index builds the symbol name index.  It must be called before the grammar is
// shared between goroutines since the grammar is read-only afterwards.  The
// table loaders and NewTables call it.
func (g *Grammar) Index() {
	g.names = make(map[string]int, len(g.Symbols))

	for i, sym := range g.Symbols {
		// the first symbol with a given name wins (names are diagnostic only
		// and the compiler is not required to keep them unique)
		if _, ok := g.names[sym.Name]; !ok {
			g.names[sym.Name] = i
		}
	}
}

// SymbolByName looks up a symbol id by name.  It returns NoSymbol if no symbol
// of that name exists.
func (g *Grammar) SymbolByName(name string) int {
	if g.names == nil {
		for i, sym := range g.Symbols {
			if sym.Name == name {
				return i
			}
		}

		return NoSymbol
	}

	if id, ok := g.names[name]; ok {
		return id
	}

	return NoSymbol
}

// SymbolName returns a printable name for a symbol id (even invalid ones)
func (g *Grammar) SymbolName(id int) string {
	if g.HasSymbol(id) && g.Symbols[id].Name != "" {
		return g.Symbols[id].Name
	}

	return "#" + strconv.Itoa(id)
}
