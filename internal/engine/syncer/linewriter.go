package syncer

import (
	"bytes"
	"sync"

	"go.trai.ch/assemble/internal/core/ports"
)

// lineWriter forwards complete lines of process output to the logger.
// Stdout and stderr of one process may write concurrently.
type lineWriter struct {
	logger ports.Logger
	path   string

	mu  sync.Mutex
	buf bytes.Buffer
}

func newLineWriter(logger ports.Logger, path string) *lineWriter {
	return &lineWriter{logger: logger, path: path}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(bytes.TrimRight(w.buf.Next(i+1), "\r\n"))
		w.emit(line)
	}
	return len(p), nil
}

// Flush emits a trailing line that was not newline-terminated.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *lineWriter) emit(line string) {
	if line == "" {
		return
	}
	w.logger.Debug(line, "path", w.path)
}
