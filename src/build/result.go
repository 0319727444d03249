package build

import (
	"io"

	"github.com/ComedicChimera/shiftreduce/src/config"
	"github.com/ComedicChimera/shiftreduce/src/logging"
	"github.com/ComedicChimera/shiftreduce/src/metrics"
	"github.com/ComedicChimera/shiftreduce/src/syntax"
)

// Result is the outcome of parsing a single input
type Result struct {
	Path string
	Src  []byte

	// Roots holds the tree if the input was accepted
	Roots []*syntax.Node

	// Err is set if the input was rejected (syntax error, malformed token) or
	// could not be read
	Err error

	// Fault is set if the tables turned out to be inconsistent while parsing
	// this input
	Fault *syntax.TableFault
}

// OK indicates whether the input was accepted
func (res *Result) OK() bool {
	return res.Err == nil && res.Fault == nil
}

// Outcome classifies the result for the metrics
func (res *Result) Outcome() string {
	if res.Fault != nil {
		return metrics.ResultFault
	}

	if res.Err == nil {
		return metrics.ResultOK
	}

	if _, ok := res.Err.(*syntax.SyntaxError); ok {
		return metrics.ResultSyntaxError
	}

	return metrics.ResultError
}

// Write writes the result to `w` in the given output format: the tree if the
// input was accepted and an error report otherwise
func (res *Result) Write(w io.Writer, output string) error {
	switch {
	case res.Fault != nil:
		logging.DisplayError(w, logging.KindTableFault, res.Path, res.Fault.Error(), nil, -1, -1)
		return nil
	case res.Err != nil:
		if se, ok := res.Err.(*syntax.SyntaxError); ok {
			logging.DisplayError(w, logging.KindSyntaxError, res.Path, se.Message(), res.Src, se.Span.Start, se.Span.End)
		} else {
			logging.DisplayError(w, logging.KindInputError, res.Path, res.Err.Error(), nil, -1, -1)
		}

		return nil
	}

	switch output {
	case config.OutputJSON:
		return syntax.DumpJSON(w, res.Roots)
	case config.OutputShort:
		return syntax.DumpShort(w, res.Roots)
	}

	return nil
}
