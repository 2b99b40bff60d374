package cmd

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Report colors
var (
	titleColor  = color.New(color.FgHiCyan, color.Bold)
	subtleColor = color.New(color.FgHiBlack)
	warnColor   = color.New(color.FgYellow)
	goodColor   = color.New(color.FgGreen)
	badColor    = color.New(color.FgRed)
)

func okIcon() string   { return goodColor.Sprint("✓") }
func failIcon() string { return badColor.Sprint("✗") }
func warnIcon() string { return warnColor.Sprint("⚠") }

// writeTable prints an aligned table with a dimmed header
func writeTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	var header, sep strings.Builder
	for i, h := range headers {
		header.WriteString(pad(h, widths[i]))
		sep.WriteString(strings.Repeat("─", widths[i]))
		if i < len(headers)-1 {
			header.WriteString("  ")
			sep.WriteString("  ")
		}
	}
	subtleColor.Fprintln(w, header.String())
	subtleColor.Fprintln(w, sep.String())

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			line.WriteString(pad(cell, widths[i]))
			if i < len(row)-1 && i < len(widths)-1 {
				line.WriteString("  ")
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
