package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/texgraph/pkg/pipeline"
)

// statusOut receives status lines. Markup goes to stdout, so status goes
// to stderr and `-o -` output stays clean.
var statusOut io.Writer = os.Stderr

// Palette
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleHighlight for names the user typed or can type (styles, objects).
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue for paths and TikZ options.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// status prints one line with a coloured marker.
func status(marker string, color lipgloss.Color, msg string) {
	fmt.Fprintln(statusOut, lipgloss.NewStyle().Foreground(color).Render(marker)+" "+msg)
}

func printSuccess(format string, args ...any) {
	status("✓", colorGreen, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status("!", colorYellow, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status("›", colorGray, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a written output file.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printStats summarises a render: picture size, timings and whether the
// artifacts came from the cache.
func printStats(result *pipeline.Result) {
	var parts []string
	if n := result.Stats.Vertices; n > 0 {
		parts = append(parts, fmt.Sprintf("%d nodes", n))
	}
	if n := result.Stats.Edges; n > 0 {
		parts = append(parts, fmt.Sprintf("%d edges", n))
	}
	if result.CacheInfo.RenderHit {
		parts = append(parts, lipgloss.NewStyle().Foreground(colorGreen).Render("cached"))
	} else {
		took := result.Stats.BuildTime + result.Stats.RenderTime
		parts = append(parts, "built in "+took.Round(time.Millisecond).String())
	}

	styled := make([]string, len(parts))
	for i, p := range parts {
		styled[i] = StyleDim.Render(p)
	}
	fmt.Fprintln(statusOut, "  "+strings.Join(styled, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
