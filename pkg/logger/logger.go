// Package logger owns the process logger. main calls Init once; code that is
// not handed a zerolog.Logger by its constructor uses Get or Component.
package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options is read once, by the first Init.
type Options struct {
	// Level: trace, debug, info, warn or error. Anything else means info.
	Level string
	// Pretty selects zerolog's console writer. Production keeps JSON lines.
	Pretty bool
	// Service, when set, is stamped on every entry.
	Service string
	// Output defaults to os.Stdout.
	Output io.Writer
}

var current atomic.Pointer[zerolog.Logger]

// Init builds the process logger. Later calls return the existing one.
func Init(opts Options) zerolog.Logger {
	if l := current.Load(); l != nil {
		return *l
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	lvl := ParseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	c := zerolog.New(out).Level(lvl).With().Timestamp()
	if opts.Service != "" {
		c = c.Str("service", opts.Service)
	}
	l := c.Logger()

	if !current.CompareAndSwap(nil, &l) {
		return *current.Load()
	}
	return l
}

// Get returns the process logger and panics before Init.
func Get() zerolog.Logger {
	l := current.Load()
	if l == nil {
		panic("logger: Get() called before Init()")
	}
	return *l
}

// Component tags the process logger with a component name.
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Reset forgets the process logger. Tests only.
func Reset() {
	current.Store(nil)
}

// ParseLevel maps a level name, in any case, to a zerolog level.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}
