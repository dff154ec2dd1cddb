// Package clilog configures the process-wide leveled logger used by
// cmd/acmi-compress: a verbosity count maps to a log level, and output
// color is either forced or auto-detected from the destination's
// terminal-ness.
package clilog

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Color selects whether log output is ANSI-colored.
type Color int

const (
	ColorAuto Color = iota
	ColorAlways
	ColorNever
)

// ParseColor validates a --color flag value.
func ParseColor(s string) (Color, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, &invalidColorError{s}
	}
}

type invalidColorError struct{ value string }

func (e *invalidColorError) Error() string {
	return "invalid --color value " + "\"" + e.value + "\"" + ", want one of: auto, always, never"
}

// New builds a *logrus.Logger writing to w. verbosity follows spec.md's
// -v/--verbose count: 0 is Warn, 1 is Info, 2 is Debug, 3+ is Trace.
func New(w io.Writer, verbosity int, color Color) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(levelFor(verbosity))
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: !shouldColor(w, color),
		FullTimestamp: true,
	})
	return log
}

func levelFor(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.WarnLevel
	case verbosity == 1:
		return logrus.InfoLevel
	case verbosity == 2:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

func shouldColor(w io.Writer, color Color) bool {
	switch color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		f, ok := w.(*os.File)
		return ok && isatty.IsTerminal(f.Fd())
	}
}
