// Package formatter renders reports, logs and frame listings for the
// terminal in plain (colored), JSON and CSV forms.
package formatter

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/davidag/xtimetracker/internal/util"
)

// Output format names accepted by the --output flag.
const (
	FormatPlain = "plain"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// ValidFormat reports whether name is a known output format.
func ValidFormat(name string) bool {
	switch name {
	case FormatPlain, FormatJSON, FormatCSV:
		return true
	}
	return false
}

var (
	styleProject = color.New(color.FgMagenta).SprintFunc()
	styleTag     = color.New(color.FgBlue).SprintFunc()
	styleTime    = color.New(color.FgGreen).SprintFunc()
	styleDate    = color.New(color.FgCyan).SprintFunc()
	styleID      = color.New(color.FgWhite).SprintFunc()
)

// Project styles a project name for terminal output.
func Project(name string) string {
	return styleProject(name)
}

// Tag styles a tag name for terminal output.
func Tag(name string) string {
	return styleTag(name)
}

// Duration styles a formatted duration for terminal output.
func Duration(d time.Duration) string {
	return styleTime(util.FormatDuration(d))
}

// Date styles a formatted date for terminal output.
func Date(s string) string {
	return styleDate(s)
}

// ShortID styles an abbreviated frame id for terminal output.
func ShortID(id string) string {
	return styleID(util.ShortID(id))
}

// TagList renders a tag list as " [a, b]" with each tag colored, or an empty
// string for no tags. The leading space makes it concatenation-friendly.
func TagList(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	styled := make([]string, len(tags))
	for i, tag := range tags {
		styled[i] = styleTag(tag)
	}
	return fmt.Sprintf(" [%s]", strings.Join(styled, ", "))
}

// termWidth returns the terminal width, or a conservative default when
// stdout is not a terminal.
func termWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
