package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// DirStatus describes the instances found in a log directory.
type DirStatus struct {
	Dir       string           `json:"dir"`
	Instances []InstanceStatus `json:"instances"`
	TotalSize int64            `json:"total_size"`
}

// InstanceStatus describes one instance log file.
type InstanceStatus struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`

	// Last record, empty when the file holds none.
	LastLevel   string     `json:"last_level,omitempty"`
	LastTime    *time.Time `json:"last_time,omitempty"`
	LastMessage string     `json:"last_message,omitempty"`
}

// StatusRenderer displays log directory status.
type StatusRenderer struct {
	out    io.Writer
	styles Styles
	now    func() time.Time
}

// NewStatusRenderer creates a status renderer.
func NewStatusRenderer(out io.Writer, mode ColorMode) *StatusRenderer {
	styles, _ := GetStyles(out, mode)
	return &StatusRenderer{
		out:    out,
		styles: styles,
		now:    time.Now,
	}
}

// Render displays status info to terminal.
func (r *StatusRenderer) Render(status DirStatus) error {
	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Name.Render("Log directory: "+status.Dir))

	if len(status.Instances) == 0 {
		_, _ = fmt.Fprintln(r.out, "  No log files yet.")
		_, _ = fmt.Fprintln(r.out, "  Create one with: namedlog emit <name> <message>")
		return nil
	}

	width := 0
	for _, inst := range status.Instances {
		width = max(width, len(inst.Name))
	}

	for _, inst := range status.Instances {
		_, _ = fmt.Fprintf(r.out, "  %-*s  %9s  %s\n",
			width, inst.Name, FormatBytes(inst.Size),
			r.styles.Dim.Render("updated "+formatTime(inst.Modified, r.now())))
		if inst.LastLevel != "" {
			_, _ = fmt.Fprintf(r.out, "  %-*s  last: %s %s\n",
				width, "", r.styles.RenderLevel(inst.LastLevel), inst.LastMessage)
		}
	}

	_, _ = fmt.Fprintln(r.out)
	noun := "instances"
	if len(status.Instances) == 1 {
		noun = "instance"
	}
	_, _ = fmt.Fprintf(r.out, "  Total: %d %s, %s\n", len(status.Instances), noun, FormatBytes(status.TotalSize))

	return nil
}

// RenderJSON outputs status as JSON.
func (r *StatusRenderer) RenderJSON(status DirStatus) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(status)
}

// formatTime formats t relative to now.
func formatTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02 15:04")
	}
}

// FormatBytes formats bytes to human-readable format.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
