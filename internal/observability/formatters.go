// Package observability provides formatted output utilities for the CLI's --pretty mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for pretty mode
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
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && utf8.RuneCountInString(line.String())+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// PrintInterview outputs a summary of an interview and its questions.
func (p *Printer) PrintInterview(interview *types.Interview) {
	if interview == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:     %s\n", interview.ID))
	sb.WriteString(fmt.Sprintf("Role:   %s (%s)\n", interview.Role, interview.Level))
	sb.WriteString(fmt.Sprintf("Type:   %s\n", interview.Type))
	if len(interview.Techstack) > 0 {
		sb.WriteString(fmt.Sprintf("Stack:  %s\n", strings.Join(interview.Techstack, ", ")))
	}

	if len(interview.Questions) > 0 {
		sb.WriteString("\nQuestions:\n")
		for i, q := range interview.Questions {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, q))
		}
	}

	p.printBox("INTERVIEW", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFeedbackView outputs the scores and commentary of a feedback view. Placeholder
// feedback is labelled so it is not mistaken for a real assessment.
func (p *Printer) PrintFeedbackView(view *types.FeedbackView) {
	if view == nil || view.Feedback == nil {
		return
	}
	fb := view.Feedback

	title := "FEEDBACK"
	if view.IsPlaceholder() {
		title = "FEEDBACK (placeholder: no assessment yet)"
	}
	if view.Interview != nil && view.Interview.Role != "" {
		title += " · " + view.Interview.Role
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:  %s\n", scoreBar(fb.TotalScore)))

	if len(fb.CategoryScores) > 0 {
		sb.WriteString("\nCategories:\n")
		for _, c := range fb.CategoryScores {
			sb.WriteString(fmt.Sprintf("  %-26s %5.1f\n", truncate(c.Name, 26), c.Score))
		}
	}

	writeList(&sb, "Strengths", fb.Strengths)
	writeList(&sb, "Areas for improvement", fb.AreasForImprovement)

	if fb.FinalAssessment != "" {
		sb.WriteString("\nFinal assessment:\n")
		for _, line := range wrap(fb.FinalAssessment, boxWidth-4) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(fmt.Sprintf("\n%s:\n", heading))
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
}

// scoreBar renders a 0..100 score as a 20-cell bar followed by the number.
func scoreBar(score float64) string {
	filled := int(score / 5)
	filled = max(0, min(filled, 20))
	return fmt.Sprintf("[%s%s] %.0f/100", strings.Repeat("█", filled), strings.Repeat("░", 20-filled), score)
}
