package logging

import (
	"io"

	nested "github.com/antonfisher/nested-logrus-formatter"
	log "github.com/sirupsen/logrus"
)

// Options select the verbosity of diagnostic output
type Options struct {
	Verbose bool
	Debug   bool
	NoColor bool
}

// Level maps the CLI flags onto a logrus level. Debug implies verbose.
func Level(opts Options) log.Level {
	switch {
	case opts.Debug:
		return log.DebugLevel
	case opts.Verbose:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}

// Setup configures the standard logger. Diagnostics go to w (stderr in
// practice) so they never mix with command output.
func Setup(w io.Writer, opts Options) {
	log.SetOutput(w)
	log.SetLevel(Level(opts))
	log.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		FieldsOrder:     []string{"module", "profile"},
		TimestampFormat: "15:04:05.000",
		NoColors:        opts.NoColor,
	})
}
