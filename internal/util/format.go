// Package util holds small formatting and argument-parsing helpers shared by
// the command layer.
package util

import (
	"fmt"
	"strings"
	"time"
)

// FormatDuration renders a duration the way the log and report views expect:
// "1h 02m 03s", dropping leading units that would be zero for the whole
// value, with a '-' prefix for negative durations.
func FormatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	neg := seconds < 0
	if neg {
		seconds = -seconds
	}
	total := seconds

	var stems []string
	if total >= 3600 {
		hours := seconds / 3600
		stems = append(stems, fmt.Sprintf("%dh", hours))
		seconds -= hours * 3600
	}
	if total >= 60 {
		mins := seconds / 60
		stems = append(stems, fmt.Sprintf("%02dm", mins))
		seconds -= mins * 60
	}
	stems = append(stems, fmt.Sprintf("%02ds", seconds))

	out := strings.Join(stems, " ")
	if neg {
		out = "-" + out
	}
	return out
}

// ShortID abbreviates a frame id for display.
func ShortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}

// ParseTags extracts tags from trailing command arguments. A tag starts with
// a '+' and extends over the following words up to the next '+', so
// "+work stuff +billable" yields ["work stuff", "billable"].
func ParseTags(args []string) []string {
	var tags []string
	for i, word := range args {
		if !strings.HasPrefix(word, "+") {
			continue
		}
		parts := []string{word[1:]}
		for _, next := range args[i+1:] {
			if strings.HasPrefix(next, "+") {
				break
			}
			parts = append(parts, next)
		}
		if tag := strings.TrimSpace(strings.Join(parts, " ")); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ParseProject joins the leading words of the arguments, up to the first tag,
// into the project name.
func ParseProject(args []string) string {
	var words []string
	for _, word := range args {
		if strings.HasPrefix(word, "+") {
			break
		}
		words = append(words, word)
	}
	return strings.Join(words, " ")
}
