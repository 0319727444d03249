package logging

import (
	"time"

	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the logging section of the configuration file
type Config struct {
	// One of "debug", "info", "warn", "error"
	Level string `toml:"level" json:"level"`

	// Either "text" or "json"
	Format string `toml:"format" json:"format"`

	// Log file, leave empty to log to stdout
	File string `toml:"file" json:"file"`
}

// the global logger shared by every package (created with the runner, but
// separated for general usage)
var (
	appLogger = zap.NewNop()
	appLevel  = zap.NewAtomicLevel()

	// errorCount is the number of inputs that failed since the last call to
	// Initialize (or Reset)
	errorCount atomic.Int64

	// prevUpdate is the time of the last state change
	prevUpdate atomic.Time
)

// Initialize sets up the global logger from the configuration
func Initialize(cfg *Config) error {
	lg, props, err := log.InitLogger(&log.Config{
		Level:  cfg.Level,
		Format: cfg.Format,
		File:   log.FileLogConfig{Filename: cfg.File},
	})
	if err != nil {
		return errors.Trace(err)
	}

	log.ReplaceGlobals(lg, props)
	appLogger = lg
	appLevel = props.Level

	Reset()
	return nil
}

// SetLogger replaces the global logger (mostly used by tests).  The logger is
// wrapped with a fresh level that starts at debug so that SetLevel can still
// raise it.
func SetLogger(lg *zap.Logger) {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)

	appLogger = lg.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &levelCore{Core: core, level: level}
	}))
	appLevel = level
	Reset()
}

// levelCore filters the entries of a core it does not own the level of
type levelCore struct {
	zapcore.Core
	level zap.AtomicLevel
}

func (c *levelCore) Enabled(lvl zapcore.Level) bool {
	return c.level.Enabled(lvl) && c.Core.Enabled(lvl)
}

func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), level: c.level}
}

func (c *levelCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.level.Enabled(ent.Level) {
		return ce
	}

	return c.Core.Check(ent, ce)
}

// SetLevel changes the level of the global logger
func SetLevel(level zapcore.Level) {
	appLevel.SetLevel(level)
}

// L returns the global logger
func L() *zap.Logger {
	return appLogger
}

// Reset clears the error count and the state timer
func Reset() {
	errorCount.Store(0)
	prevUpdate.Store(time.Time{})
}
