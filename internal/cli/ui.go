package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/julicq/is-deprecated-or-not/pkg/collector"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleDanger for deprecated package names.
	StyleDanger = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCarried = lipgloss.NewStyle().Foreground(colorYellow)
	styleFresh   = lipgloss.NewStyle().Foreground(colorGreen)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCarried = "carried over"
	iconFresh   = "fresh"
	iconSkipped = "skipped"
)

// =============================================================================
// Terminal Detection
// =============================================================================

// writerIsTTY reports whether w is a file attached to a terminal. Plain
// writers such as *bytes.Buffer are never terminals.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// animationsEnabled reports whether spinners may redraw lines on w.
func animationsEnabled(w io.Writer) bool {
	return os.Getenv("NO_COLOR") == "" && writerIsTTY(w)
}

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(16)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Knowledge Base Output
// =============================================================================

// printRecord prints one deprecated package with its alternatives.
func printRecord(w io.Writer, rec kb.Record) {
	fmt.Fprintln(w, StyleDanger.Render(rec.Name)+" "+StyleDim.Render("deprecated since "+rec.DeprecatedSince))
	printKeyValue(w, "  reason", rec.Reason)
	if rec.Source != "" {
		printKeyValue(w, "  source", rec.Source)
	}
	for _, alt := range rec.Alternatives {
		line := "  " + StyleDim.Render(iconArrow) + " " + StyleSuccess.Render(alt.Name)
		if alt.Reason != "" {
			line += StyleDim.Render(" · " + alt.Reason)
		}
		fmt.Fprintln(w, line)
		if alt.MigrationGuide != "" {
			fmt.Fprintln(w, "    "+StyleLink.Render(alt.MigrationGuide))
		}
	}
}

// printSourceResult prints one source's share of a collection on a
// single line.
func printSourceResult(w io.Writer, r collector.SourceResult) {
	parts := []string{fmt.Sprintf("%d packages", r.Count)}
	if r.Duration > 0 {
		parts = append(parts, r.Duration.Round(time.Millisecond).String())
	}

	icon := styleIconSuccess.Render(iconSuccess)
	status := styleFresh.Render(iconFresh)
	switch {
	case r.Skipped:
		icon = styleIconInfo.Render(iconInfo)
		status = StyleDim.Render(iconSkipped)
		parts[0] = fmt.Sprintf("%d packages", r.CarriedOver)
	case r.Failed():
		icon = styleIconError.Render(iconError)
		status = styleCarried.Render(fmt.Sprintf("%s (%d)", iconCarried, r.CarriedOver))
	}
	parts = append(parts, status)

	line := icon + " " + lipgloss.NewStyle().Width(10).Render(r.Name)
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(w, line)
	if r.Failed() {
		printDetail(w, "%v", r.Err)
	}
}

// =============================================================================
// Helpers
// =============================================================================

// formatRelativeTime renders t relative to now, switching to a date after
// a week.
func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return "in " + formatDuration(-diff)
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return strings.TrimSuffix(d.Round(time.Hour).String(), "0m0s")
	}
}
