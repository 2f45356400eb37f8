package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// lastEntryWindow is how many trailing lines ListInstances searches for the
// most recent parseable record.
const lastEntryWindow = 20

// DefaultLogDir returns the directory file sinks write to when no other
// directory is configured. It is relative to the working directory.
func DefaultLogDir() string {
	return filepath.Join("logging", "logs")
}

// EnsureLogDir creates dir and any missing parents.
// It succeeds if the directory already exists.
func EnsureLogDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory %s: %w", dir, err)
	}
	return nil
}

// NameFromPath returns the instance name encoded in a file sink path.
func NameFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".log")
}

// FindLogFiles resolves the log files to view.
// Priority:
// 1. Explicit path (if provided)
// 2. <dir>/<name>.log for every requested name
// 3. every *.log file in dir
//
// Returns an error if no log file is found.
func FindLogFiles(dir string, names []string, explicit string) ([]string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("log file not found: %s", explicit)
		}
		return []string{explicit}, nil
	}

	var paths, checked []string
	if len(names) > 0 {
		for _, name := range names {
			p := LogPath(dir, name)
			checked = append(checked, p)
			if _, err := os.Stat(p); err == nil {
				paths = append(paths, p)
			}
		}
	} else {
		matches, err := filepath.Glob(filepath.Join(dir, "*.log"))
		if err != nil {
			return nil, fmt.Errorf("list log files in %s: %w", dir, err)
		}
		sort.Strings(matches)
		paths = matches
		checked = append(checked, filepath.Join(dir, "*.log"))
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("no log files found.\nChecked: %s\n\nTo generate logs:\n  namedlog emit <name> <message>",
			strings.Join(checked, ", "))
	}

	return paths, nil
}

// InstanceFile describes one file sink found in a log directory.
type InstanceFile struct {
	Name     string
	Path     string
	Size     int64
	Modified time.Time
	// Last is the most recent parseable record. Its IsValid is false when
	// none was found near the end of the file.
	Last LogEntry
}

// ListInstances returns every <name>.log file in dir, sorted by name.
// A missing directory yields an empty list.
func ListInstances(dir string) ([]InstanceFile, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list log files in %s: %w", dir, err)
	}

	var files []InstanceFile
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".log" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue // removed since ReadDir
		}

		path := filepath.Join(dir, de.Name())
		f := InstanceFile{
			Name:     NameFromPath(path),
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
		}

		lines, err := readLastLines(path, lastEntryWindow)
		if err != nil {
			return nil, err
		}
		for i := len(lines) - 1; i >= 0; i-- {
			if entry := ParseLine(lines[i]); entry.IsValid {
				f.Last = entry
				break
			}
		}

		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
