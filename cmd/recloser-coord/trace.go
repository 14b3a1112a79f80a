package main

import (
	"fmt"
	"io"

	"github.com/sgostarter/i/l"
)

// writerRecorder sends log lines to the command's output instead of os.Stdout.
type writerRecorder struct {
	w io.Writer
}

func (r *writerRecorder) Log(_ l.Level, a ...interface{}) {
	_, _ = fmt.Fprintln(r.w, a...)
}

func (r *writerRecorder) Logf(_ l.Level, format string, a ...interface{}) {
	_, _ = fmt.Fprintf(r.w, format+"\n", a...)
}

// newLogger records at debug level, where the per-point margins and pass/fail
// lines are logged. Without --trace or --trace-file nothing is recorded.
func newLogger(cfg Config, out io.Writer) (l.Wrapper, error) {
	var recorders []l.Recorder

	if cfg.Trace {
		recorders = append(recorders, &writerRecorder{w: out})
	}

	if cfg.TraceFile != "" {
		fileRecorder := l.NewFileRecorder(cfg.TraceFile)
		if fileRecorder == nil {
			return nil, fmt.Errorf("can not open trace file %s", cfg.TraceFile)
		}

		recorders = append(recorders, fileRecorder)
	}

	if len(recorders) == 0 {
		return l.NewNopLoggerWrapper(), nil
	}

	logger := l.NewCommLogger(recorders...)
	logger.SetLevel(l.LevelDebug)

	return l.NewWrapper(logger), nil
}
