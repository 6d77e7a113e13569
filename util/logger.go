package util

import (
	"io"
	"os"
	"runtime/debug"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("util")

const logFormat = `%{time:15:04:05.000} %{level:.4s} %{module}: %{message}`

type PanicSafeLogger struct {
	f  *os.File
	mw io.Writer
}

var std *PanicSafeLogger

// NewPanicSafeLogger tees log output to f and stderr. The file handle is kept
// so a panic handler can flush it before the process dies.
func NewPanicSafeLogger(f *os.File) *PanicSafeLogger {
	std = &PanicSafeLogger{
		f:  f,
		mw: io.MultiWriter(f, os.Stderr),
	}
	return std
}

func (l *PanicSafeLogger) Write(p []byte) (n int, err error) {
	return l.mw.Write(p)
}

func (l *PanicSafeLogger) Flush() error {
	return l.f.Sync()
}

func FlushLogger() error {
	if std == nil {
		return nil
	}
	return std.Flush()
}

func LogPanic(err any) {
	log.Criticalf("paniced with %v\n%s", err, string(debug.Stack()))
	_ = FlushLogger()
}

// SetupLogging installs the leveled backend writing to w. The daemon passes
// the PanicSafeLogger; tests pass their own sink.
func SetupLogging(w io.Writer, level logging.Level) {
	backend := logging.NewLogBackend(w, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(logFormat))
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}
