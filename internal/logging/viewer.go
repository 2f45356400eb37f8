package logging

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/namedlog/internal/ui"
)

// pollInterval is used by Follow when filesystem notifications are unavailable.
const pollInterval = 100 * time.Millisecond

// lineRE matches a file sink line. The name is matched lazily so names
// containing " - " still parse as long as the level field follows.
var lineRE = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3}) - (.*?) - (DEBUG|INFO|WARNING|ERROR) - (.*)$`)

// LogEntry represents a parsed file sink line.
type LogEntry struct {
	Time    time.Time
	Name    string
	Level   string
	Msg     string
	Raw     string // Original line
	IsValid bool   // Whether the line matched the file template
}

// ViewerConfig configures the log viewer.
type ViewerConfig struct {
	Level    string         // Minimum level (debug, info, warning, error)
	Pattern  *regexp.Regexp // Filter by pattern over the raw line
	NoColor  bool           // Disable colors
	Color    ui.ColorMode   // auto, always or never; empty means auto
	ShowName bool           // Show the instance name in output
}

// Viewer provides log viewing and filtering capabilities.
type Viewer struct {
	config ViewerConfig
	styles ui.Styles
	out    io.Writer
}

// NewViewer creates a new log viewer.
func NewViewer(cfg ViewerConfig, out io.Writer) *Viewer {
	styles := ui.NoColorStyles()
	if !cfg.NoColor {
		styles, _ = ui.GetStyles(out, cfg.Color)
	}

	return &Viewer{
		config: cfg,
		styles: styles,
		out:    out,
	}
}

// ParseLine parses a file sink line. Lines that do not match the template
// are returned with IsValid set to false and the text kept in Raw.
func ParseLine(line string) LogEntry {
	entry := LogEntry{Raw: line}

	m := lineRE.FindStringSubmatch(line)
	if m == nil {
		return entry
	}

	t, err := time.ParseInLocation(TimestampLayout, m[1], time.Local)
	if err != nil {
		return entry
	}

	entry.Time = t
	entry.Name = m[2]
	entry.Level = m[3]
	entry.Msg = m[4]
	entry.IsValid = true
	return entry
}

// Tail reads the last n lines from a log file and returns matching entries.
func (v *Viewer) Tail(path string, n int) ([]LogEntry, error) {
	tailed, err := v.tail(path, n)
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	for _, te := range tailed {
		entries = append(entries, te.LogEntry)
	}
	return entries, nil
}

// TailMultiple reads the last n lines of every file and returns the last n
// matching entries of the merged timeline. Files that cannot be read are
// skipped. A line without a timestamp stays after the record it continues.
func (v *Viewer) TailMultiple(paths []string, n int) ([]LogEntry, error) {
	var all []tailEntry

	for _, path := range paths {
		tailed, err := v.tail(path, n)
		if err != nil {
			continue
		}
		all = append(all, tailed...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].at.Before(all[j].at)
	})

	if len(all) > n {
		all = all[len(all)-n:]
	}

	entries := make([]LogEntry, 0, len(all))
	for _, te := range all {
		entries = append(entries, te.LogEntry)
	}
	return entries, nil
}

// tailEntry is a matching entry with the time it is ordered by: its own
// timestamp, or that of the closest record above it in the same file.
type tailEntry struct {
	LogEntry
	at time.Time
}

func (v *Viewer) tail(path string, n int) ([]tailEntry, error) {
	lines, err := readLastLines(path, n)
	if err != nil {
		return nil, err
	}

	var (
		out  []tailEntry
		last time.Time
	)
	for _, line := range lines {
		entry := ParseLine(line)
		if entry.IsValid {
			last = entry.Time
		}
		if v.matchesFilter(entry) {
			out = append(out, tailEntry{LogEntry: entry, at: last})
		}
	}
	return out, nil
}

// readLastLines returns up to n trailing lines of path.
func readLastLines(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	// Increase buffer size for long log lines
	const maxCapacity = 1024 * 1024 // 1MB
	scanner.Buffer(make([]byte, maxCapacity), maxCapacity)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	return lines, nil
}

// Follow watches a log file for new entries and sends them to the channel.
// Blocks until ctx is cancelled.
func (v *Viewer) Follow(ctx context.Context, path string, entries chan<- LogEntry) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	tail := &lineTail{reader: bufio.NewReader(file)}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return v.poll(ctx, tail, entries)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(path); err != nil {
		return v.poll(ctx, tail, entries)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) {
				if !v.drain(ctx, tail, entries) {
					return nil
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
}

// FollowMultiple follows every path until ctx is cancelled. Entries are
// delivered in the order they are read.
func (v *Viewer) FollowMultiple(ctx context.Context, paths []string, entries chan<- LogEntry) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		g.Go(func() error {
			return v.Follow(gctx, path, entries)
		})
	}
	return g.Wait()
}

// poll is the ticker based fallback of Follow.
func (v *Viewer) poll(ctx context.Context, tail *lineTail, entries chan<- LogEntry) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !v.drain(ctx, tail, entries) {
				return nil
			}
		}
	}
}

// drain sends every complete line available in tail. It returns false when
// ctx was cancelled while sending.
func (v *Viewer) drain(ctx context.Context, tail *lineTail, entries chan<- LogEntry) bool {
	for {
		line, ok := tail.next()
		if !ok {
			return true
		}
		if line == "" {
			continue
		}

		entry := ParseLine(line)
		if !v.matchesFilter(entry) {
			continue
		}

		select {
		case entries <- entry:
		case <-ctx.Done():
			return false
		}
	}
}

// lineTail reads complete lines, holding back a trailing partial line until
// its newline arrives.
type lineTail struct {
	reader  *bufio.Reader
	pending string
}

func (t *lineTail) next() (string, bool) {
	chunk, err := t.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			t.pending += chunk
		}
		return "", false
	}

	line := t.pending + chunk
	t.pending = ""
	return strings.TrimRight(line, "\r\n"), true
}

// FormatEntry formats a log entry for display.
func (v *Viewer) FormatEntry(entry LogEntry) string {
	if !entry.IsValid {
		// Return raw line for unparseable entries
		return entry.Raw
	}

	timestamp := entry.Time.Format("15:04:05.000")
	level := v.styles.Level(entry.Level).Render(fmt.Sprintf("%-7s", entry.Level))

	name := ""
	if v.config.ShowName && entry.Name != "" {
		name = v.styles.Name.Render("["+entry.Name+"]") + " "
	}

	return fmt.Sprintf("%s %s %s%s", timestamp, level, name, entry.Msg)
}

// Print prints entries to the output.
func (v *Viewer) Print(entries []LogEntry) {
	for _, entry := range entries {
		_, _ = fmt.Fprintln(v.out, v.FormatEntry(entry))
	}
}

// matchesFilter checks if an entry matches the configured filters.
func (v *Viewer) matchesFilter(entry LogEntry) bool {
	if v.config.Level != "" && entry.IsValid {
		if LevelFromString(entry.Level) < LevelFromString(v.config.Level) {
			return false
		}
	}

	if v.config.Pattern != nil && !v.config.Pattern.MatchString(entry.Raw) {
		return false
	}

	return true
}
