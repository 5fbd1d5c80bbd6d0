package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/compcheck/pkg/finding"
	"github.com/matzehuels/compcheck/pkg/report"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
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

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleLocation = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)

	// Declaration problems are errors in the rules themselves; composition
	// problems are errors in how the rules are used.
	styleKindDeclaration = lipgloss.NewStyle().Foreground(colorRed)
	styleKindComposition = lipgloss.NewStyle().Foreground(colorYellow)
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
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Findings
// =============================================================================

func kindStyle(k finding.Kind) lipgloss.Style {
	switch k {
	case finding.MissingDependency, finding.ConflictingComponent, finding.UnsatisfiableQuery:
		return styleKindComposition
	}
	return styleKindDeclaration
}

// printReport writes the styled findings followed by a summary line.
func printReport(w io.Writer, r report.Report) {
	for _, e := range r.Findings {
		fmt.Fprintf(w, "%s %s %s\n",
			styleLocation.Render(e.Location()),
			kindStyle(e.Kind).Render(string(e.Kind)),
			e.Message)
	}
	for _, f := range r.Failed {
		fmt.Fprintf(w, "%s %s %s\n",
			styleIconWarning.Render(iconWarning),
			StyleValue.Render(f.File),
			StyleDim.Render("skipped: "+f.Error))
	}
	if len(r.Findings) > 0 || len(r.Failed) > 0 {
		fmt.Fprintln(w)
	}

	icon := styleIconSuccess.Render(iconSuccess)
	if r.Total() > 0 {
		icon = styleIconError.Render(iconError)
	}
	fmt.Fprintln(w, icon+" "+report.Summary(r))
}

// printStats prints run statistics on a single line.
func printStats(r report.Report) {
	parts := []string{
		fmt.Sprintf("%d files", r.Stats.Files),
		fmt.Sprintf("%d components", r.Stats.Components),
		fmt.Sprintf("snapshot %d", r.Snapshot),
		fmt.Sprintf("%dms", r.Stats.DurationMS),
	}
	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}
