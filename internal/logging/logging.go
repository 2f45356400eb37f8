package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Aman-CERP/namedlog/internal/ui"
)

// Options configures a Registry.
type Options struct {
	// Dir is the directory holding <name>.log files (default: logging/logs).
	Dir string
	// Debug is the initial default debug mode for instances set up without
	// an explicit override.
	Debug bool
	// Console receives the console sink output (default: os.Stderr).
	Console io.Writer
	// Color controls colouring of level names on the console (default: auto).
	Color ui.ColorMode
	// BufferedFile disables syncing the log file after every line.
	BufferedFile bool
}

// Registry owns the named logging instances of an application.
// All methods are safe for concurrent use; Setup calls are serialized.
type Registry struct {
	dir      string
	console  io.Writer
	buffered bool

	consoleMu    sync.Mutex // serializes lines from all instances on the console
	consoleStyle func(string) string

	mu      sync.Mutex
	debug   bool
	loggers map[string]*Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	r := &Registry{
		dir:      opts.Dir,
		console:  opts.Console,
		buffered: opts.BufferedFile,
		debug:    opts.Debug,
		loggers:  make(map[string]*Logger),
	}
	if r.dir == "" {
		r.dir = DefaultLogDir()
	}
	if r.console == nil {
		r.console = os.Stderr
	}
	if styles, colored := ui.GetStyles(r.console, opts.Color); colored {
		r.consoleStyle = styles.RenderLevel
	}

	return r
}

// Dir returns the directory file sinks are created in.
func (r *Registry) Dir() string {
	return r.dir
}

// SetDebugMode sets the default debug mode. Only instances set up after the
// call are affected; existing instances keep their threshold.
func (r *Registry) SetDebugMode(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.debug = enabled
}

// DebugMode returns the current default debug mode.
func (r *Registry) DebugMode() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.debug
}

// SetupOption customizes a single Setup call.
type SetupOption func(*setupOptions)

type setupOptions struct {
	debug *bool
}

// WithDebug overrides the registry default debug mode for one Setup call.
func WithDebug(enabled bool) SetupOption {
	return func(o *setupOptions) {
		o.debug = &enabled
	}
}

// Setup configures the instance called name and returns it.
//
// The log directory is created if needed, the file sink <dir>/<name>.log is
// opened for appending and a console sink is attached. Any sinks from an
// earlier Setup of the same name are replaced, so repeated calls never
// duplicate output. Both sinks use the debug threshold when debug mode is
// on (WithDebug, or the registry default when absent) and info otherwise.
//
// Filesystem errors are returned as is (wrapped with context). When the file
// cannot be opened an existing instance keeps its previous sinks.
func (r *Registry) Setup(name string, opts ...SetupOption) (*Logger, error) {
	var so setupOptions
	for _, opt := range opts {
		opt(&so)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := EnsureLogDir(r.dir); err != nil {
		return nil, err
	}

	debug := r.debug
	if so.debug != nil {
		debug = *so.debug
	}
	level := thresholdFor(debug)

	file, err := NewFileWriter(LogPath(r.dir, name))
	if err != nil {
		return nil, err
	}
	file.SetImmediateSync(!r.buffered)

	fileSink := newTextHandler(file, name, level, fileFormat)
	consoleSink := newTextHandler(r.console, name, level, consoleFormat)
	consoleSink.mu = &r.consoleMu
	consoleSink.style = r.consoleStyle

	logger, ok := r.loggers[name]
	if !ok {
		logger = newLogger(name)
		r.loggers[name] = logger
	}

	previous := logger.state.Swap(&sinkSet{
		handler: fanoutHandler{fileSink, consoleSink},
		level:   level,
		file:    file,
	})
	if previous != nil {
		previous.retire()
	}

	logger.Info(fmt.Sprintf("Logging initialized for %s. Debug mode: %t", name, debug))
	if debug {
		logger.Debug("Debug logging is enabled.")
	}

	return logger, nil
}

// Lookup returns the instance called name if it has been set up.
func (r *Registry) Lookup(name string) (*Logger, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.loggers[name]
	return l, ok
}

// Names returns the names of all instances, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every file sink. Instances stay usable but only the console
// sink keeps producing output until they are set up again.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, l := range r.loggers {
		if state := l.state.Load(); state != nil {
			if err := state.file.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", state.file.Path(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// sinkSet is the configuration attached to a Logger by one Setup call.
type sinkSet struct {
	handler slog.Handler
	level   slog.Level
	file    *FileWriter

	mu      sync.RWMutex // held for reading while a record is written
	retired bool
}

// retire marks the set as replaced and closes its file once in-flight
// records have been written.
func (s *sinkSet) retire() {
	s.mu.Lock()
	s.retired = true
	s.mu.Unlock()
	_ = s.file.Close()
}

// Logger is a named logging instance. It is created by Registry.Setup and
// follows every later Setup of the same name.
type Logger struct {
	name  string
	state atomic.Pointer[sinkSet]
	log   *slog.Logger
}

func newLogger(name string) *Logger {
	l := &Logger{name: name}
	l.log = slog.New(&swapHandler{logger: l})
	return l
}

// Name returns the instance name.
func (l *Logger) Name() string {
	return l.name
}

// Level returns the minimum level records need to be emitted.
func (l *Logger) Level() slog.Level {
	if state := l.state.Load(); state != nil {
		return state.level
	}
	return slog.LevelInfo
}

// DebugEnabled reports whether debug records are emitted.
func (l *Logger) DebugEnabled() bool {
	return l.Level() <= slog.LevelDebug
}

// Slog returns a *slog.Logger writing through this instance.
func (l *Logger) Slog() *slog.Logger {
	return l.log
}

// Debug logs msg at debug level. Optional args are key/value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

// Info logs msg at info level.
func (l *Logger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

// Warn logs msg at warning level.
func (l *Logger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}

// Error logs msg at error level.
func (l *Logger) Error(msg string, args ...any) {
	l.log.Error(msg, args...)
}

// Debug forwards message to l at debug level. It is dropped when l runs at
// info level.
func Debug(l *Logger, message string) {
	l.Debug(message)
}
