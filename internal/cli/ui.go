package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/katalvlaran/sos1/sos1"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey   = lipgloss.NewStyle().Foreground(colorGray)

	styleGood = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarn = lipgloss.NewStyle().Foreground(colorYellow)
	styleBad  = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	iconStep  = "›"
	iconArrow = "→"
)

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, styleTitle.Render(title))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(fmt.Sprintf("%-16s", key))+" "+styleValue.Render(value))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// printResult prints one lifecycle step, coloured by outcome.
func printResult(w io.Writer, step string, res sos1.Result, extra ...string) {
	var style lipgloss.Style
	switch res {
	case sos1.Feasible, sos1.ReducedDomain, sos1.Separated, sos1.Branched:
		style = styleGood
	case sos1.Cutoff, sos1.Infeasible:
		style = styleBad
	default:
		style = styleWarn
	}
	line := styleDim.Render(iconStep) + " " + styleKey.Render(fmt.Sprintf("%-10s", step)) + " " + style.Render(res.String())
	if len(extra) > 0 {
		line += " " + styleDim.Render(strings.Join(extra, " · "))
	}
	fmt.Fprintln(w, line)
}
