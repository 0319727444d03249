package build

import (
	"context"
	"os"
	"time"

	"github.com/pingcap/errors"
	"golang.org/x/sync/errgroup"

	"github.com/ComedicChimera/shiftreduce/src/config"
	"github.com/ComedicChimera/shiftreduce/src/logging"
	"github.com/ComedicChimera/shiftreduce/src/metrics"
	"github.com/ComedicChimera/shiftreduce/src/syntax"
)

// Runner is meant to be created once per run and store all the state shared by
// the parses of that run: main mechanism of parsing inputs
type Runner struct {
	conf *config.Config

	// parser is the shared reference to a `Parser` used for every input (the
	// tables are read-only so all parses may run concurrently)
	parser  *syntax.Parser
	lexicon *syntax.Lexicon
}

// NewRunner loads the tables named by the configuration and creates a runner
// for them
func NewRunner(conf *config.Config) (*Runner, error) {
	if conf.Table.Path == "" {
		return nil, errors.New("no parsing table given")
	}

	logging.LogStateChange("Loading")

	tables, err := syntax.LoadTables(conf.Table.Path, conf.TableFormat())
	if err != nil {
		return nil, err
	}

	return NewRunnerWithTables(conf, tables)
}

// NewRunnerWithTables creates a runner for already loaded tables
func NewRunnerWithTables(conf *config.Config, tables *syntax.Tables) (*Runner, error) {
	lexicon, err := syntax.NewLexicon(tables.Grammar)
	if err != nil {
		return nil, err
	}

	var observers syntax.MultiObserver
	if conf.Metrics.Enabled {
		observers = append(observers, metrics.Observer{})
	}

	if conf.Parse.Trace {
		observers = append(observers, syntax.NewTraceObserver(tables.Grammar, logging.L()))
	}

	var opts []syntax.Option
	if len(observers) > 0 {
		opts = append(opts, syntax.WithObserver(observers))
	}

	return &Runner{
		conf:    conf,
		parser:  syntax.NewParser(tables, opts...),
		lexicon: lexicon,
	}, nil
}

// Tables returns the tables the runner parses with
func (r *Runner) Tables() *syntax.Tables {
	return r.parser.Tables()
}

// ParseFiles parses all of the given files concurrently (at most as many at a
// time as there are workers configured).  The results are returned in the order
// of the paths.  A file that fails to parse does not stop the others: the
// error is only returned if the context was cancelled.
func (r *Runner) ParseFiles(ctx context.Context, paths []string) ([]*Result, error) {
	logging.LogStateChange("Parsing")

	results := make([]*Result, len(paths))

	workers := r.conf.Parse.Workers
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return errors.Trace(err)
			}

			results[i] = r.ParseFile(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// ParseFile parses a single file.  File level problems are logged and stored
// in the result.
func (r *Runner) ParseFile(path string) *Result {
	src, err := os.ReadFile(path)
	if err != nil {
		res := &Result{Path: path, Err: errors.Trace(err)}
		r.finish(res, 0)
		return res
	}

	return r.ParseSource(path, src)
}

// ParseSource parses source text read from somewhere else.  `path` only names
// the source in logs and results.
func (r *Runner) ParseSource(path string, src []byte) *Result {
	res := &Result{Path: path, Src: src}

	start := time.Now()
	res.Roots, res.Fault, res.Err = r.parse(src)
	r.finish(res, time.Since(start).Seconds())

	return res
}

// parse runs the parser over the source text and turns a table fault into an
// error value so that one broken input never takes down the whole run
func (r *Runner) parse(src []byte) (roots []*syntax.Node, fault *syntax.TableFault, err error) {
	defer func() {
		if x := recover(); x != nil {
			tf, ok := x.(*syntax.TableFault)
			if !ok {
				panic(x)
			}

			roots, fault, err = nil, tf, nil
		}
	}()

	roots, err = r.parser.Parse(syntax.NewScanner(r.lexicon, src))
	return
}

// finish logs the outcome of a parse and records its metrics
func (r *Runner) finish(res *Result, seconds float64) {
	switch {
	case res.Fault != nil:
		logging.LogFault(res.Path, res.Fault)
	case res.Err != nil:
		logging.LogError(res.Path, res.Err)
	}

	if r.conf.Metrics.Enabled {
		metrics.ObserveParse(res.Outcome(), seconds)
	}
}
