package syntax

import (
	"io"

	"github.com/pingcap/errors"
)

// Parser is meant to be created once per set of tables and then used for any
// number of parses.  It holds no per-parse state: every parse runs in its own
// Context so a single parser may be used from several goroutines at once.
type Parser struct {
	tables   *Tables
	observer Observer
}

// Option configures a parser
type Option func(*Parser)

// WithObserver makes the parser report every step to the given observer
func WithObserver(o Observer) Option {
	return func(p *Parser) {
		p.observer = o
	}
}

// NewParser creates a new parser for the given tables.  The tables are not
// validated here (see Tables.Validate): inconsistencies discovered while
// parsing are raised as TableFaults.
func NewParser(t *Tables, opts ...Option) *Parser {
	p := &Parser{tables: t, observer: NopObserver{}}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Tables returns the tables the parser runs on
func (p *Parser) Tables() *Tables {
	return p.tables
}

// Parse runs a complete parse over the tokens of a token source.  The end of
// the token stream (io.EOF) is delivered to the parser as a single token of the
// grammar's EOF symbol.  On success, the root nodes of the tree are returned
// (usually exactly one).  If the input is not a sentence of the grammar, a
// *SyntaxError is returned and no tree is produced.
func (p *Parser) Parse(src TokenSource) ([]*Node, error) {
	c := p.NewContext()
	g := p.tables.Grammar

	lastEnd, eofShifts := 0, 0
	for {
		tok, err := src.Next()
		if err == io.EOF {
			tok = Token{Symbol: g.EOF, Span: Span{Start: lastEnd, End: lastEnd}}
		} else if err != nil {
			return nil, errors.Trace(err)
		}

		status, err := c.Next(tok)
		if err != nil {
			return nil, err
		}

		// once the end of the input is reached, it is delivered again for as
		// long as the tables shift it
		for tok.Symbol == g.EOF && status == StatusNext {
			// each state can shift the end of the input at most once, anything
			// beyond that is a cycle
			if eofShifts++; eofShifts > len(p.tables.Table.States) {
				return nil, c.fail(newSyntaxError(p.tables, tok, c.stack.Top().State))
			}

			if status, err = c.Next(tok); err != nil {
				return nil, err
			}
		}

		if status == StatusDone && tok.Symbol == g.EOF {
			return c.Result(), nil
		}

		if status == StatusDone {
			// the goal was reduced on a lookahead that is not the end of the
			// input: that lookahead is extraneous
			se := newSyntaxError(p.tables, tok, 0)
			se.Expected = []int{g.EOF}
			se.expectedNames = []string{g.SymbolName(g.EOF)}
			p.observer.Reject(se)
			return nil, se
		}

		lastEnd = tok.Span.End
	}
}

// Status is the state of a parse context
type Status int

// Enumeration of the parse context statuses
const (
	StatusInitial Status = iota // no token was pushed yet
	StatusNext                  // waiting for the next token
	StatusDone                  // the input was accepted
	StatusError                 // a syntax error occurred
)

func (s Status) String() string {
	switch s {
	case StatusInitial:
		return "initial"
	case StatusNext:
		return "next"
	case StatusDone:
		return "done"
	default:
		return "error"
	}
}

// pendingReduce is the reduce of a shift-reduce action that is still waiting for
// the next token
type pendingReduce struct {
	prod  int
	carry Frame
	valid bool
}

// Context holds the state of a single parse.  Tokens are pushed into it one at a
// time (push-parsing).  A context must not be used by more than one goroutine
// at a time.
type Context struct {
	parser *Parser
	tables *Tables
	stack  *Stack
	status Status

	// pending holds the deferred reduce of the last shift-reduce action.  The
	// shifted symbol's fragment lives in here instead of on the stack.
	pending pendingReduce

	result []*Node
	err    *SyntaxError
}

// NewContext creates a new parse context in its initial state
func (p *Parser) NewContext() *Context {
	return &Context{parser: p, tables: p.tables, stack: NewStack()}
}

// Status returns the current status of the context
func (c *Context) Status() Status {
	return c.status
}

// Result returns the root nodes of the tree once the input has been accepted
func (c *Context) Result() []*Node {
	return c.result
}

// Err returns the syntax error that ended the parse (if any)
func (c *Context) Err() *SyntaxError {
	return c.err
}

// Depth returns the number of frames on the parse stack (including the bottom)
func (c *Context) Depth() int {
	return c.stack.Len()
}

// Reset puts the context back into its initial state so it can be reused
func (c *Context) Reset() {
	c.stack.Reset()
	c.status = StatusInitial
	c.pending = pendingReduce{}
	c.result = nil
	c.err = nil
}

// NextByName pushes a token identified by the name of its symbol
func (c *Context) NextByName(name string, span Span, text string) (Status, error) {
	id := c.tables.Grammar.SymbolByName(name)
	if id == NoSymbol {
		return c.status, errors.Annotatef(ErrInvalidToken, "no symbol named '%s'", name)
	}

	return c.Next(Token{Symbol: id, Span: span, Text: text})
}

// Next lets the parser run on the next token.  All reduces the token triggers
// are performed until the token is either shifted (StatusNext: the next token
// is wanted), the goal symbol is reduced (StatusDone: the result is available
// and the token was NOT consumed) or no action exists for the token
// (StatusError: the *SyntaxError is returned).
func (c *Context) Next(tok Token) (Status, error) {
	switch c.status {
	case StatusDone, StatusError:
		return c.status, errors.Trace(ErrContextFinished)
	case StatusInitial:
		c.stack.Reset()
		c.status = StatusNext
	}

	g := c.tables.Grammar

	if !g.HasSymbol(tok.Symbol) {
		return c.status, errors.Annotatef(ErrInvalidToken, "unknown symbol %d", tok.Symbol)
	}

	sym := g.Symbols[tok.Symbol]
	if !sym.Terminal {
		return c.status, errors.Annotatef(ErrInvalidToken, "'%s' is a nonterminal", g.SymbolName(tok.Symbol))
	}

	if sym.Whitespace {
		return c.status, errors.Annotatef(ErrInvalidToken, "'%s' is a whitespace symbol", g.SymbolName(tok.Symbol))
	}

	// the last token was shifted by a shift-reduce action: its reduce has to
	// happen before anything else
	if c.pending.valid {
		prod, carry := c.pending.prod, c.pending.carry
		c.pending = pendingReduce{}

		if c.reduce(prod, &carry) {
			return c.status, nil
		}
	}

	// reduce until a shift occurs (or the parse ends)
	for {
		state := c.stack.Top().State
		act := c.tables.Table.Lookup(state, tok.Symbol)

		switch act.Kind {
		case AKShift:
			c.parser.observer.Shift(ShiftEvent{State: state, Symbol: tok.Symbol, Target: act.Operand, Production: NoProduction})
			c.stack.Push(Frame{State: act.Operand, Nodes: newLeaf(sym, tok), Span: tok.Span})
			return c.status, nil
		case AKShiftReduce:
			c.parser.observer.Shift(ShiftEvent{State: state, Symbol: tok.Symbol, Target: NoState, Fused: true, Production: act.Operand})
			carry := Frame{State: NoState, Nodes: newLeaf(sym, tok), Span: tok.Span}

			// nothing can follow the end of the input so there is no point in
			// waiting for another token
			if tok.Symbol == g.EOF {
				c.reduce(act.Operand, &carry)
				return c.status, nil
			}

			c.pending = pendingReduce{prod: act.Operand, carry: carry, valid: true}
			return c.status, nil
		case AKReduce:
			if c.reduce(act.Operand, nil) {
				return c.status, nil
			}
		case AKAccept:
			nodes, _ := c.stack.Pop(c.stack.Len()-1, nil)
			c.accept(nodes)
			return c.status, nil
		default:
			se := c.fail(newSyntaxError(c.tables, tok, state))
			return StatusError, se
		}
	}
}

// reduce performs a reduce by the given production and every reduce that its
// goto chains into (gotos resolving to a shift-reduce).  If `carry` is not nil,
// it is the ephemeral frame of the symbol shifted by a shift-reduce action.
// It returns true if the goal symbol was reduced and the input accepted.
func (c *Context) reduce(prod int, carry *Frame) bool {
	g, pt := c.tables.Grammar, c.tables.Table

	for {
		p := g.Production(prod)

		depth := c.stack.Len()
		if carry != nil {
			if p.Arity() == 0 {
				panic(newTableFault("shift-reduce by empty production %d", prod))
			}

			depth++
		}

		nodes, span := c.stack.Pop(p.Arity(), carry)
		carry = nil

		ev := ReduceEvent{Production: prod, LHS: p.LHS, Arity: p.Arity(), DepthBefore: depth}

		if p.Emit != "" {
			nodes = []*Node{{Emit: p.Emit, Symbol: p.LHS, Production: prod, Span: span, Children: nodes}}
			ev.Emitted = true
		}

		// goal symbol reduced with nothing but the bottom left on the stack
		if p.LHS == g.Goal && c.stack.Len() == 1 {
			ev.DepthAfter, ev.Goto, ev.Accepted = 1, NoState, true
			c.parser.observer.Reduce(ev)
			c.accept(nodes)
			return true
		}

		top := c.stack.Top().State
		act := pt.Goto(top, p.LHS)
		if !act.isShift() {
			panic(newTableFault("goto on '%s' in state %d is %s", g.SymbolName(p.LHS), top, act.Kind))
		}

		if act.Kind == AKShift {
			c.stack.Push(Frame{State: act.Operand, Nodes: nodes, Span: span})
			ev.DepthAfter, ev.Goto = c.stack.Len(), act.Operand
			c.parser.observer.Reduce(ev)
			return false
		}

		// the goto leads into an elided state that can only reduce: the new
		// frame is carried straight into the next reduce
		ev.DepthAfter, ev.Goto = c.stack.Len()+1, NoState
		c.parser.observer.Reduce(ev)

		carry = &Frame{State: NoState, Nodes: nodes, Span: span}
		prod = act.Operand
	}
}

// accept ends the parse successfully with the given root nodes
func (c *Context) accept(roots []*Node) {
	c.result = roots
	c.status = StatusDone
	c.stack.Reset()
	c.parser.observer.Accept(roots)
}

// fail ends the parse with a syntax error and returns it
func (c *Context) fail(se *SyntaxError) *SyntaxError {
	c.err = se
	c.status = StatusError
	c.pending = pendingReduce{}
	c.stack.Reset()
	c.parser.observer.Reject(se)
	return se
}
