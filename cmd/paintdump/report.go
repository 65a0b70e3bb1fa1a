package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
)

// writeReport prints one block per result. Styled output is used only
// when color is true.
func writeReport(out io.Writer, results []Result, color bool) {
	for _, r := range results {
		if color {
			fmt.Fprintln(out, boxStyle.Render(styledResult(r)))
		} else {
			fmt.Fprintln(out, plainResult(r))
		}
	}
}

func plainResult(r Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scene %s: %d steps, %d flushes, %d px flushed\n", r.Scene, r.Steps, r.Flushes, r.FlushedArea)
	for _, p := range r.Paints {
		fmt.Fprintf(&b, "  %-16s %4d paints %8d px\n", p.Name, p.Count, p.Area)
	}
	if len(r.Order) > 0 {
		fmt.Fprintf(&b, "  last step painted: %s\n", strings.Join(r.Order, " > "))
	}
	if r.Output != "" {
		fmt.Fprintf(&b, "  wrote %s\n", r.Output)
	}
	return strings.TrimRight(b.String(), "\n")
}

func styledResult(r Result) string {
	lines := []string{
		titleStyle.Render(r.Scene) + labelStyle.Render(fmt.Sprintf("  %d steps, %d flushes, %d px flushed", r.Steps, r.Flushes, r.FlushedArea)),
	}
	for _, p := range r.Paints {
		count := countStyle.Render(fmt.Sprintf("%4d", p.Count))
		if p.Count == 0 {
			count = idleStyle.Render(fmt.Sprintf("%4d", p.Count))
		}
		lines = append(lines, fmt.Sprintf("%-16s %s %s", p.Name, count, labelStyle.Render(fmt.Sprintf("paints %8d px", p.Area))))
	}
	if len(r.Order) > 0 {
		lines = append(lines, labelStyle.Render("last step: ")+strings.Join(r.Order, " > "))
	}
	if r.Output != "" {
		lines = append(lines, labelStyle.Render("wrote ")+r.Output)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
