package syntax

import "go.uber.org/zap"

// ShiftEvent describes a shift performed by the parser.  Fused is set for
// shift-reduce actions in which case Target is NoState and Production is the
// production the shifted symbol will be reduced by.
type ShiftEvent struct {
	State, Symbol int
	Target        int
	Fused         bool
	Production    int
}

// ReduceEvent describes a single reduce.  Depths count the frames on the stack
// before the pop (including the ephemeral frame of a shift-reduce) and after
// the goto frame was pushed.  For the reduce that accepts the input, the goto
// is never taken and DepthAfter is the depth of the remaining stack.
type ReduceEvent struct {
	Production int
	LHS        int
	Arity      int

	DepthBefore, DepthAfter int

	// Goto is the state reached after the reduce (NoState if the goto was
	// itself a shift-reduce or if the reduce accepted)
	Goto int

	Emitted  bool
	Accepted bool
}

// Observer is notified of every step the parser takes.  Observers are shared
// by all the contexts of a parser and must therefore be safe for concurrent
// use if the parser is.
type Observer interface {
	Shift(ev ShiftEvent)
	Reduce(ev ReduceEvent)
	Accept(roots []*Node)
	Reject(err *SyntaxError)
}

// NopObserver ignores everything
type NopObserver struct{}

func (NopObserver) Shift(ShiftEvent)    {}
func (NopObserver) Reduce(ReduceEvent)  {}
func (NopObserver) Accept([]*Node)      {}
func (NopObserver) Reject(*SyntaxError) {}

// MultiObserver forwards every event to all of its observers in order
type MultiObserver []Observer

func (mo MultiObserver) Shift(ev ShiftEvent) {
	for _, o := range mo {
		o.Shift(ev)
	}
}

func (mo MultiObserver) Reduce(ev ReduceEvent) {
	for _, o := range mo {
		o.Reduce(ev)
	}
}

func (mo MultiObserver) Accept(roots []*Node) {
	for _, o := range mo {
		o.Accept(roots)
	}
}

func (mo MultiObserver) Reject(err *SyntaxError) {
	for _, o := range mo {
		o.Reject(err)
	}
}

// TraceObserver writes every parser step to a logger at debug level
type TraceObserver struct {
	g   *Grammar
	log *zap.Logger
}

// NewTraceObserver creates a trace observer naming symbols with the grammar
func NewTraceObserver(g *Grammar, log *zap.Logger) *TraceObserver {
	return &TraceObserver{g: g, log: log}
}

func (to *TraceObserver) Shift(ev ShiftEvent) {
	if ev.Fused {
		to.log.Debug("shift and reduce",
			zap.Int("state", ev.State),
			zap.String("symbol", to.g.SymbolName(ev.Symbol)),
			zap.Int("production", ev.Production))
		return
	}

	to.log.Debug("shift",
		zap.Int("state", ev.State),
		zap.String("symbol", to.g.SymbolName(ev.Symbol)),
		zap.Int("target", ev.Target))
}

func (to *TraceObserver) Reduce(ev ReduceEvent) {
	to.log.Debug("reduce",
		zap.Int("production", ev.Production),
		zap.String("lhs", to.g.SymbolName(ev.LHS)),
		zap.Int("popped", ev.Arity),
		zap.Int("goto", ev.Goto),
		zap.Int("depth", ev.DepthAfter))
}

func (to *TraceObserver) Accept(roots []*Node) {
	to.log.Debug("accept", zap.Int("roots", len(roots)))
}

func (to *TraceObserver) Reject(err *SyntaxError) {
	to.log.Debug("reject",
		zap.String("symbol", err.Name),
		zap.Int("state", err.State),
		zap.Int("offset", err.Span.Start))
}
