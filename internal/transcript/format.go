// Package transcript renders interview conversations into prompt-ready text.
package transcript

import (
	"strings"

	"github.com/jonathan/interview-coach/internal/types"
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Format renders each turn as "- <role>: <content>" on its own line, in input order.
// Line breaks inside a turn are folded into spaces so every turn stays on one line.
// An empty transcript yields an empty string.
func Format(turns []types.TranscriptTurn) string {
	var sb strings.Builder
	for _, turn := range turns {
		sb.WriteString("- ")
		sb.WriteString(lineBreaks.Replace(turn.Role))
		sb.WriteString(": ")
		sb.WriteString(lineBreaks.Replace(turn.Content))
		sb.WriteString("\n")
	}
	return sb.String()
}
