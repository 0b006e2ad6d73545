package report

import (
	"fmt"
	"io"
)

// ProgressSink receives human-readable status updates as the pipeline works
// through a report. Implementations must not block for long; updates are
// emitted from the hot path of the researcher.
type ProgressSink interface {
	Progress(format string, args ...interface{})
}

// NopSink discards all progress updates.
type NopSink struct{}

func (NopSink) Progress(string, ...interface{}) {}

// WriterSink writes progress updates line by line to w.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Progress(format string, args ...interface{}) {
	fmt.Fprintf(s.W, format+"\n", args...)
}
