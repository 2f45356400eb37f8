package errors

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// FormatForCLI formats an error for terminal output. Errors without a
// structured code are classified first.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	e := Classify(err)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", e.Message)

	if e.Suggestion != "" {
		fmt.Fprintf(&sb, "  Hint: %s\n", e.Suggestion)
	}

	fmt.Fprintf(&sb, "  Code: %s\n", e.Code)

	return sb.String()
}

// LogAttrs returns slog attributes describing err, for logging a failure
// through a named logger.
func LogAttrs(err error) []any {
	if err == nil {
		return nil
	}

	e := Classify(err)
	attrs := []any{
		slog.String("error_code", e.Code),
		slog.String("category", string(e.Category)),
	}

	if e.Cause != nil {
		attrs = append(attrs, slog.String("cause", e.Cause.Error()))
	}

	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.String("detail_"+k, e.Details[k]))
	}

	return attrs
}
