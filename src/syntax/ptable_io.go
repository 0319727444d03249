package syntax

import (
	"bufio"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pingcap/errors"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format is a serialization format for parsing tables
type Format string

// Supported table formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatGob  Format = "gob" // binary cache format (.ptable)
)

// FormatFromPath determines the table format from the extension of a path
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".ptable", ".gob":
		return FormatGob, nil
	}

	return "", errors.Errorf("unable to determine table format of '%s'", path)
}

// ParseFormat converts a format name into a Format
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatYAML, FormatGob:
		return f, nil
	}

	return "", errors.Errorf("unknown table format '%s'", name)
}

// the JSON and YAML form of the tables: the layout follows the JSON dump the
// table compiler produces (symbols, productions, then one entry per state)
type tableFile struct {
	Grammar grammarFile `json:"grammar" yaml:"grammar"`
	States  []stateFile `json:"states" yaml:"states"`
}

type grammarFile struct {
	Goal        int              `json:"goal" yaml:"goal"`
	EOF         int              `json:"eof" yaml:"eof"`
	Symbols     []symbolFile     `json:"symbols" yaml:"symbols"`
	Productions []productionFile `json:"productions" yaml:"productions"`
}

type symbolFile struct {
	ID     int      `json:"id" yaml:"id"`
	Type   string   `json:"type" yaml:"type"`
	Name   string   `json:"name,omitempty" yaml:"name,omitempty"`
	Emit   string   `json:"emit,omitempty" yaml:"emit,omitempty"`
	Regexp string   `json:"regexp,omitempty" yaml:"regexp,omitempty"`
	Flags  []string `json:"flags,omitempty" yaml:"flags,omitempty"`
}

type productionFile struct {
	ID   int    `json:"id" yaml:"id"`
	LHS  int    `json:"lhs" yaml:"lhs"`
	Emit string `json:"emit,omitempty" yaml:"emit,omitempty"`
	RHS  []int  `json:"rhs" yaml:"rhs"`
}

type stateFile struct {
	DefaultReduce *int         `json:"reduce-default" yaml:"reduce-default"`
	Actions       []actionFile `json:"actions" yaml:"actions"`
}

type actionFile struct {
	Symbol     int    `json:"symbol" yaml:"symbol"`
	Action     string `json:"action" yaml:"action"`
	State      *int   `json:"state,omitempty" yaml:"state,omitempty"`
	Production *int   `json:"production,omitempty" yaml:"production,omitempty"`
}

// symbol types and flags as they appear in the serialized tables
const (
	symTerminal    = "terminal"
	symNonterminal = "non-terminal"

	flagWhitespace = "whitespace"
	flagLexem      = "lexem"
)

// LoadTables loads and validates the tables stored at the given path.  If
// `format` is empty, it is determined from the file extension.
func LoadTables(path string, format Format) (*Tables, error) {
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return nil, err
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}

	defer file.Close()

	t, err := DecodeTables(bufio.NewReader(file), format)
	if err != nil {
		return nil, errors.Annotatef(err, "loading tables from '%s'", path)
	}

	return t, nil
}

// SaveTables writes the tables to the given path in the given format (or the
// format implied by the file extension).  An existing file is truncated.
func SaveTables(path string, format Format, t *Tables) error {
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}

	defer file.Close()
	w := bufio.NewWriter(file)

	if err := EncodeTables(w, format, t); err != nil {
		return err
	}

	return errors.Trace(w.Flush())
}

// DecodeTables reads tables in the given format and validates them
func DecodeTables(r io.Reader, format Format) (*Tables, error) {
	var t *Tables

	switch format {
	case FormatJSON, FormatYAML:
		var tf tableFile

		var err error
		if format == FormatJSON {
			err = json.NewDecoder(r).Decode(&tf)
		} else {
			err = yaml.NewDecoder(r).Decode(&tf)
		}

		if err != nil {
			return nil, errors.Trace(err)
		}

		if t, err = tf.toTables(); err != nil {
			return nil, err
		}
	case FormatGob:
		// the cache holds the tables exactly as they are laid out in memory
		t = &Tables{}
		if err := gob.NewDecoder(r).Decode(t); err != nil {
			return nil, errors.Trace(err)
		}
	default:
		return nil, errors.Errorf("unknown table format '%s'", format)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	t.Grammar.Index()
	return t, nil
}

// EncodeTables writes the tables in the given format
func EncodeTables(w io.Writer, format Format, t *Tables) error {
	var err error

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(fromTables(t))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(fromTables(t)); err == nil {
			err = enc.Close()
		}
	case FormatGob:
		err = gob.NewEncoder(w).Encode(t)
	default:
		return errors.Errorf("unknown table format '%s'", format)
	}

	return errors.Trace(err)
}

// toTables converts the serialized form into the in-memory tables.  Only the
// structure is checked here; consistency is left to Validate.
func (tf *tableFile) toTables() (*Tables, error) {
	g := &Grammar{
		Goal:        tf.Grammar.Goal,
		EOF:         tf.Grammar.EOF,
		Symbols:     make([]*Symbol, len(tf.Grammar.Symbols)),
		Productions: make([]*Production, len(tf.Grammar.Productions)),
	}

	for i, sf := range tf.Grammar.Symbols {
		sym := &Symbol{ID: sf.ID, Name: sf.Name, Emit: sf.Emit, Pattern: sf.Regexp}

		switch sf.Type {
		case symTerminal:
			sym.Terminal = true
		case symNonterminal:
		default:
			return nil, errors.Errorf("symbol %d has unknown type '%s'", i, sf.Type)
		}

		for _, flag := range sf.Flags {
			switch flag {
			case flagWhitespace:
				sym.Whitespace = true
			case flagLexem:
				sym.Lexem = true
			default:
				return nil, errors.Errorf("symbol %d has unknown flag '%s'", i, flag)
			}
		}

		g.Symbols[i] = sym
	}

	for i, pf := range tf.Grammar.Productions {
		prod := &Production{ID: pf.ID, LHS: pf.LHS, Emit: pf.Emit, RHS: pf.RHS}

		// a nonterminal with an emit tag lends it to all of its productions
		// that do not name their own
		if prod.Emit == "" && g.HasSymbol(prod.LHS) {
			prod.Emit = g.Symbols[prod.LHS].Emit
		}

		g.Productions[i] = prod
	}

	pt := &ParsingTable{States: make([]*State, len(tf.States))}

	for i, sf := range tf.States {
		row := NewState()
		if sf.DefaultReduce != nil {
			row.DefaultReduce = *sf.DefaultReduce
		}

		for _, af := range sf.Actions {
			if _, ok := row.Actions[af.Symbol]; ok {
				return nil, errors.Errorf("state %d has more than one action on symbol %d", i, af.Symbol)
			}

			act, err := af.toAction()
			if err != nil {
				return nil, errors.Annotatef(err, "state %d", i)
			}

			row.Actions[af.Symbol] = act
		}

		pt.States[i] = row
	}

	return &Tables{Grammar: g, Table: pt}, nil
}

func (af *actionFile) toAction() (Action, error) {
	operand := func(field *int, name string) (int, error) {
		if field == nil {
			return 0, errors.Errorf("%s action on symbol %d has no %s", af.Action, af.Symbol, name)
		}

		return *field, nil
	}

	var err error
	act := Action{}

	switch af.Action {
	case "shift":
		act.Kind = AKShift
		act.Operand, err = operand(af.State, "state")
	case "reduce":
		act.Kind = AKReduce
		act.Operand, err = operand(af.Production, "production")
	case "shift&reduce":
		act.Kind = AKShiftReduce
		act.Operand, err = operand(af.Production, "production")
	case "accept":
		act.Kind = AKAccept
	case "error":
		act.Kind = AKError
	default:
		err = errors.Errorf("unknown action '%s' on symbol %d", af.Action, af.Symbol)
	}

	return act, err
}

// fromTables converts the tables into their serialized form
func fromTables(t *Tables) *tableFile {
	g := t.Grammar

	tf := &tableFile{
		Grammar: grammarFile{
			Goal:        g.Goal,
			EOF:         g.EOF,
			Symbols:     make([]symbolFile, len(g.Symbols)),
			Productions: make([]productionFile, len(g.Productions)),
		},
		States: make([]stateFile, len(t.Table.States)),
	}

	for i, sym := range g.Symbols {
		sf := symbolFile{ID: sym.ID, Type: symNonterminal, Name: sym.Name, Emit: sym.Emit, Regexp: sym.Pattern}
		if sym.Terminal {
			sf.Type = symTerminal
		}

		if sym.Whitespace {
			sf.Flags = append(sf.Flags, flagWhitespace)
		}

		if sym.Lexem {
			sf.Flags = append(sf.Flags, flagLexem)
		}

		tf.Grammar.Symbols[i] = sf
	}

	for i, prod := range g.Productions {
		tf.Grammar.Productions[i] = productionFile{ID: prod.ID, LHS: prod.LHS, Emit: prod.Emit, RHS: prod.RHS}
	}

	for i, row := range t.Table.States {
		sf := stateFile{}
		if row.DefaultReduce != NoProduction {
			dr := row.DefaultReduce
			sf.DefaultReduce = &dr
		}

		// actions are written ordered by symbol so dumps are stable
		for _, sym := range t.Table.Expected(i) {
			act := row.Actions[sym]
			operand := act.Operand

			af := actionFile{Symbol: sym, Action: act.Kind.String()}
			switch act.Kind {
			case AKShift:
				af.State = &operand
			case AKReduce, AKShiftReduce:
				af.Production = &operand
			}

			sf.Actions = append(sf.Actions, af)
		}

		tf.States[i] = sf
	}

	return tf
}
