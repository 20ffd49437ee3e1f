package logger

import (
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Logger interface is used to allow tests to inject custom loggers.
type Logger interface {
	Fatalf(string, ...interface{})
	Debugf(string, ...interface{})
	Errorf(string, ...interface{})
	Infof(string, ...interface{})
	Warnf(string, ...interface{})
	Debug(...interface{})
	Warn(...interface{})
	Info(...interface{})
	Fatal(...interface{})
	Prefix(string)
	Writer() io.Writer
	SetWriter(io.Writer)
}

type logger struct {
	*log.Logger
	prefix *prefixFormatter
}

// prefixFormatter prepends a fixed string to every message.
type prefixFormatter struct {
	prefix string
	next   log.Formatter
}

func (f *prefixFormatter) Format(e *log.Entry) ([]byte, error) {
	if f.prefix != "" && !strings.HasPrefix(e.Message, f.prefix) {
		e.Message = f.prefix + e.Message
	}
	return f.next.Format(e)
}

// NewLogger returns a new Logger instance backed by Logrus. Output goes to
// stderr so that it never mixes with recovered plaintexts on stdout.
func NewLogger(level uint32) Logger {
	l := log.New()
	l.SetLevel(log.Level(level))
	l.SetOutput(os.Stderr)
	prefix := &prefixFormatter{
		next: &log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		},
	}
	l.Formatter = prefix
	return &logger{Logger: l, prefix: prefix}
}

// Prefix sets a string written in front of every message. An empty string
// clears it.
func (l *logger) Prefix(prefix string) {
	l.prefix.prefix = prefix
}

func (l *logger) Writer() io.Writer {
	return l.Out
}

func (l *logger) SetWriter(writer io.Writer) {
	l.Out = writer
}
