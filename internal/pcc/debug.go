package pcc

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// LogWriters holds the io.Writers for each logging stream.
type LogWriters struct {
	Ops   io.Writer
	Diag  io.Writer
	Trace io.Writer
}

type stream int

const (
	opsStream stream = iota
	diagStream
	traceStream
	numStreams
)

var (
	mu      sync.RWMutex
	loggers [numStreams]*log.Logger
)

// SetLogWriters configures all three logging streams at once.
// Pass nil for any writer to disable that stream.
func SetLogWriters(w LogWriters) {
	mu.Lock()
	defer mu.Unlock()
	loggers[opsStream] = newLogger("[pcc] ", w.Ops)
	loggers[diagStream] = newLogger("[pcc] ", w.Diag)
	loggers[traceStream] = newLogger("[pcc] ", w.Trace)
}

// newLogger creates a *log.Logger for a given writer, or returns nil if w is nil.
func newLogger(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)
}

func logf(s stream, format string, args ...interface{}) {
	mu.RLock()
	l := loggers[s]
	mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}

// Opsf logs to the ops stream (protocol failures, skipped payloads, lifecycle).
func Opsf(format string, args ...interface{}) { logf(opsStream, format, args...) }

// Diagf logs to the diag stream (per brick and per frame summaries).
func Diagf(format string, args ...interface{}) { logf(diagStream, format, args...) }

// Tracef logs to the trace stream (per payload telemetry).
func Tracef(format string, args ...interface{}) { logf(traceStream, format, args...) }

// SliceLog tags log lines with the frame and slice a brick belongs to, so
// that lines from interleaved geometry and attribute bricks can be matched.
type SliceLog struct {
	Frame int64
	Slice uint32
}

func (s SliceLog) String() string {
	return fmt.Sprintf("frame=%d slice=%d", s.Frame, s.Slice)
}

func (s SliceLog) logf(st stream, format string, args ...interface{}) {
	logf(st, "%v: %s", s, fmt.Sprintf(format, args...))
}

// Diagf logs to the diag stream with the slice prefix.
func (s SliceLog) Diagf(format string, args ...interface{}) { s.logf(diagStream, format, args...) }

// Tracef logs to the trace stream with the slice prefix.
func (s SliceLog) Tracef(format string, args ...interface{}) { s.logf(traceStream, format, args...) }
