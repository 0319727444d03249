package syntax

import (
	"fmt"

	"github.com/pingcap/errors"
	"go.uber.org/multierr"
)

// ErrInvalidTables is the cause of every error reported by Tables.Validate
var ErrInvalidTables = errors.New("invalid parsing tables")

// Validate checks the tables for internal consistency: every id the tables
// refer to must exist, gotos must be shift-class actions and the goal and
// end-of-input symbols must be what they claim to be.  All problems found are
// reported at once.  Tables that pass never cause a TableFault except through
// a goto entry that is missing altogether (which only shows up while parsing).
func (t *Tables) Validate() error {
	if t.Grammar == nil || t.Table == nil {
		return errors.Annotate(ErrInvalidTables, "missing grammar or parsing table")
	}

	v := validator{g: t.Grammar, pt: t.Table}
	v.checkSymbols()
	v.checkProductions()
	v.checkStates()

	return v.err
}

type validator struct {
	g   *Grammar
	pt  *ParsingTable
	err error
}

func (v *validator) errorf(format string, args ...interface{}) {
	v.err = multierr.Append(v.err, errors.Annotate(ErrInvalidTables, fmt.Sprintf(format, args...)))
}

func (v *validator) checkSymbols() {
	g := v.g

	if len(g.Symbols) == 0 {
		v.errorf("grammar has no symbols")
		return
	}

	for i, sym := range g.Symbols {
		if sym == nil {
			v.errorf("symbol %d is missing", i)
			continue
		}

		if sym.ID != i {
			v.errorf("symbol %d is stored at offset %d", sym.ID, i)
		}

		if !sym.Terminal && (sym.Whitespace || sym.Lexem) {
			v.errorf("nonterminal '%s' has terminal flags", g.SymbolName(i))
		}
	}

	if !v.symbolOK(g.Goal) || g.Symbols[g.Goal].Terminal {
		v.errorf("goal %s is not a nonterminal", g.SymbolName(g.Goal))
	}

	if !v.symbolOK(g.EOF) || !g.Symbols[g.EOF].Terminal || g.Symbols[g.EOF].Whitespace {
		v.errorf("end-of-input %s is not a regular terminal", g.SymbolName(g.EOF))
	}
}

func (v *validator) checkProductions() {
	g := v.g

	for i, prod := range g.Productions {
		if prod == nil {
			v.errorf("production %d is missing", i)
			continue
		}

		if prod.ID != i {
			v.errorf("production %d is stored at offset %d", prod.ID, i)
		}

		if !v.symbolOK(prod.LHS) || g.Symbols[prod.LHS].Terminal {
			v.errorf("production %d has a left-hand side (%s) that is not a nonterminal", i, g.SymbolName(prod.LHS))
		}

		for _, sym := range prod.RHS {
			if !v.symbolOK(sym) {
				v.errorf("production %d refers to unknown symbol %d", i, sym)
			} else if g.Symbols[sym].Whitespace {
				v.errorf("production %d refers to whitespace symbol '%s'", i, g.SymbolName(sym))
			}
		}
	}
}

func (v *validator) checkStates() {
	g, pt := v.g, v.pt

	if len(pt.States) == 0 {
		v.errorf("parsing table has no states")
		return
	}

	for i, row := range pt.States {
		if row == nil {
			v.errorf("state %d is missing", i)
			continue
		}

		if row.DefaultReduce != NoProduction && !v.productionOK(row.DefaultReduce) {
			v.errorf("state %d reduces by unknown production %d by default", i, row.DefaultReduce)
		}

		for sym, act := range row.Actions {
			if !v.symbolOK(sym) {
				v.errorf("state %d has an action on unknown symbol %d", i, sym)
				continue
			}

			terminal := g.Symbols[sym].Terminal
			if !terminal && !act.isShift() {
				v.errorf("goto on '%s' in state %d is %s", g.SymbolName(sym), i, act.Kind)
			}

			switch act.Kind {
			case AKShift:
				if act.Operand < 0 || act.Operand >= len(pt.States) {
					v.errorf("state %d shifts '%s' to unknown state %d", i, g.SymbolName(sym), act.Operand)
				}
			case AKReduce, AKShiftReduce:
				if !v.productionOK(act.Operand) {
					v.errorf("state %d reduces on '%s' by unknown production %d", i, g.SymbolName(sym), act.Operand)
				} else if act.Kind == AKShiftReduce && g.Productions[act.Operand].Arity() == 0 {
					v.errorf("state %d shifts '%s' into empty production %d", i, g.SymbolName(sym), act.Operand)
				}
			}
		}
	}
}

func (v *validator) symbolOK(id int) bool {
	return v.g.HasSymbol(id) && v.g.Symbols[id] != nil
}

func (v *validator) productionOK(id int) bool {
	return id >= 0 && id < len(v.g.Productions) && v.g.Productions[id] != nil
}
