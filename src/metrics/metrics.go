package metrics

import (
	"io"
	"math"

	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Parse results
const (
	ResultOK          = "ok"
	ResultSyntaxError = "syntax_error"
	ResultFault       = "fault"
	ResultError       = "error"
)

var (
	parsesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shiftreduce",
			Subsystem: "parser",
			Name:      "parses_total",
			Help:      "Counter of finished parses by result",
		}, []string{"result"})
	actionsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shiftreduce",
			Subsystem: "parser",
			Name:      "actions_total",
			Help:      "Counter of parser actions by kind",
		}, []string{"kind"})
	reduceArityHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shiftreduce",
			Subsystem: "parser",
			Name:      "reduce_arity",
			Help:      "Bucketed histogram of the number of frames popped by a reduce",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		})
	parseDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shiftreduce",
			Subsystem: "parser",
			Name:      "parse_duration_seconds",
			Help:      "Bucketed histogram of the time (s) taken to parse one input",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 20),
		}, []string{"result"})
)

// RegisterMetrics registers the parser metrics
func RegisterMetrics(registry prometheus.Registerer) {
	registry.MustRegister(parsesCounter)
	registry.MustRegister(actionsCounter)
	registry.MustRegister(reduceArityHistogram)
	registry.MustRegister(parseDurationHistogram)
}

// ObserveParse records a finished parse
func ObserveParse(result string, seconds float64) {
	parsesCounter.WithLabelValues(result).Inc()
	parseDurationHistogram.WithLabelValues(result).Observe(seconds)
}

// ParsesCounter returns the parse counter for a result
func ParsesCounter(result string) prometheus.Counter {
	return parsesCounter.WithLabelValues(result)
}

// ActionsCounter returns the action counter for an action kind
func ActionsCounter(kind string) prometheus.Counter {
	return actionsCounter.WithLabelValues(kind)
}

// ReadCounter reports the current value of the counter.
func ReadCounter(counter prometheus.Counter) float64 {
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		return math.NaN()
	}
	return metric.Counter.GetValue()
}

// WriteText writes every metric family gathered in the text exposition format
func WriteText(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return errors.Trace(err)
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Trace(err)
		}
	}

	return nil
}
