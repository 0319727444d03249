package metrics

import "github.com/ComedicChimera/shiftreduce/src/syntax"

// Observer feeds the parser metrics from the parser's events.  It holds no
// state and is safe for concurrent use.
type Observer struct{}

func (Observer) Shift(ev syntax.ShiftEvent) {
	if ev.Fused {
		actionsCounter.WithLabelValues(syntax.AKShiftReduce.String()).Inc()
	} else {
		actionsCounter.WithLabelValues(syntax.AKShift.String()).Inc()
	}
}

func (Observer) Reduce(ev syntax.ReduceEvent) {
	actionsCounter.WithLabelValues(syntax.AKReduce.String()).Inc()
	reduceArityHistogram.Observe(float64(ev.Arity))
}

func (Observer) Accept([]*syntax.Node) {
	actionsCounter.WithLabelValues(syntax.AKAccept.String()).Inc()
}

func (Observer) Reject(*syntax.SyntaxError) {
	actionsCounter.WithLabelValues(syntax.AKError.String()).Inc()
}
