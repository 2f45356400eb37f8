package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileWriter is the io.Writer behind a file sink.
// The file is opened in append mode and never truncated or rotated.
type FileWriter struct {
	path string

	mu            sync.Mutex
	file          *os.File
	immediateSync bool // Sync after each write so tailing readers see lines at once
}

// NewFileWriter opens path for appending, creating the file if absent.
// The parent directory must already exist.
func NewFileWriter(path string) (*FileWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}

	return &FileWriter{
		path:          path,
		file:          f,
		immediateSync: true,
	}, nil
}

// Path returns the file the writer appends to.
func (w *FileWriter) Path() string {
	return w.path
}

// SetImmediateSync enables or disables syncing after each write.
func (w *FileWriter) SetImmediateSync(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.immediateSync = enabled
}

// Write appends p to the file. Writes after Close return os.ErrClosed.
func (w *FileWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}

	n, err = w.file.Write(p)
	if w.immediateSync && err == nil {
		_ = w.file.Sync()
	}

	return n, err
}

// Sync flushes the file to disk.
func (w *FileWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Sync()
	}
	return nil
}

// Close closes the underlying file. Calling Close twice is a no-op.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil
	return err
}

// LogPath returns the file used by the file sink of the named instance.
func LogPath(dir, name string) string {
	return filepath.Join(dir, name+".log")
}
