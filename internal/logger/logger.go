package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var Log = newLogger(os.Stderr)

func newLogger(out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      true,
		DisableTimestamp: true,
	})
	log.SetLevel(levelFromEnv())
	return log
}

func levelFromEnv() logrus.Level {
	if os.Getenv("DEBUG") == "1" {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

// Configure applies the CLI verbosity on top of the DEBUG env switch.
// quiet wins over level, DEBUG=1 wins over both.
func Configure(level string, quiet bool) error {
	if os.Getenv("DEBUG") == "1" {
		Log.SetLevel(logrus.DebugLevel)
		return nil
	}
	if quiet {
		Log.SetLevel(logrus.WarnLevel)
		return nil
	}
	if level == "" {
		Log.SetLevel(logrus.InfoLevel)
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Log.SetLevel(lvl)
	return nil
}

// Scope returns an entry tagged with the component name.
func Scope(name string) *logrus.Entry {
	return Log.WithField("scope", name)
}
