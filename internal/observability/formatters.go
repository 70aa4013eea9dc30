// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/pratham/resumeats/internal/scoring"
)

// boxWidth is the default width for formatted output boxes
const boxWidth = 60

// Printer handles formatted output for the score command
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintBreakdown outputs a human-readable summary of a score breakdown.
func (p *Printer) PrintBreakdown(b scoring.Breakdown, withJob bool) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Format:   %5.1f\n", b.FormatScore))
	sb.WriteString(fmt.Sprintf("Keywords: %5.1f\n", b.KeywordScore))
	sb.WriteString(fmt.Sprintf("Content:  %5.1f\n", b.ContentScore))
	if withJob {
		sb.WriteString(fmt.Sprintf("Job match:%5.1f\n", b.MatchScore))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("ATS Compatibility Score: %.1f/100", b.TotalScore))

	p.printBox("Score Breakdown", sb.String())
}

// PrintComponents outputs the normalized per-category view.
func (p *Printer) PrintComponents(c scoring.Components) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Resume Structure:  %s %5.1f\n", bar(c.Structure), c.Structure))
	sb.WriteString(fmt.Sprintf("Content Quality:   %s %5.1f\n", bar(c.ContentQuality), c.ContentQuality))
	sb.WriteString(fmt.Sprintf("Keyword Match:     %s %5.1f", bar(c.KeywordMatch), c.KeywordMatch))
	if c.HasJobMatch {
		sb.WriteString(fmt.Sprintf("\nJob Match:         %s %5.1f", bar(c.JobMatch), c.JobMatch))
	}

	p.printBox("Score Components", sb.String())
}

// bar renders a 0-100 value as a ten-segment gauge.
func bar(value float64) string {
	filled := int(value / 10)
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}
