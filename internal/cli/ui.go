package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/subwayviz/spiderglyph/pkg/glyph"
	"github.com/subwayviz/spiderglyph/pkg/network"
	"github.com/subwayviz/spiderglyph/pkg/pipeline"
)

// stdout receives all human-readable status output. Tests swap it out.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("37")
	colorOK     = lipgloss.Color("71")
	colorWarn   = lipgloss.Color("214")
	colorFail   = lipgloss.Color("160")
	colorCmd    = lipgloss.Color("111")
	colorValue  = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("246")
	colorMuted  = lipgloss.Color("241")
)

var (
	// StyleTitle renders headings such as the frame caption.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleHighlight renders addresses and other values worth noticing.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)

	StyleDim     = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue   = lipgloss.NewStyle().Foreground(colorValue)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorCmd)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

// statusIcon pairs a leading glyph with its color.
type statusIcon struct {
	mark  string
	style lipgloss.Style
}

var (
	iconOK   = statusIcon{"✓", lipgloss.NewStyle().Foreground(colorOK)}
	iconFail = statusIcon{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	iconWarn = statusIcon{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	iconNote = statusIcon{"›", lipgloss.NewStyle().Foreground(colorLabel)}
)

func (i statusIcon) line(msg string) {
	fmt.Fprintln(stdout, i.style.Render(i.mark)+" "+msg)
}

// =============================================================================
// Status lines
// =============================================================================

func printSuccess(format string, args ...any) { iconOK.line(fmt.Sprintf(format, args...)) }

func printError(format string, args ...any) { iconFail.line(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	iconWarn.line(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) { iconNote.line(fmt.Sprintf(format, args...)) }

// printDetail prints an indented, muted line under the previous status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a file that was written.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printStats summarizes a frame as "N stations · M segments · cached".
func printStats(stats pipeline.Stats, cached bool) {
	origin := StyleDim.Render("fresh")
	if cached {
		origin = iconOK.style.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(stdout, "  "+strings.Join([]string{
		StyleDim.Render(fmt.Sprintf("%d stations", stats.StationCount)),
		StyleDim.Render(fmt.Sprintf("%d segments", stats.SegmentCount)),
		origin,
	}, sep))
}

// =============================================================================
// Transit styling
// =============================================================================

// lineSwatch renders a short bar in the line's color followed by its name.
func lineSwatch(l network.LineID) string {
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(l.Color())).Render("━━")
	return bar + " " + l.String()
}

// speedStyle colors a speed ratio with the glyph's own delay scale.
func speedStyle(speed float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(glyph.DelayColor(speed)))
}
