package chat

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumberedInline renders options as a numbered list, since WhatsApp has no inline keyboard.
func FormatNumberedInline(text string, buttons []InlineButton) string {
	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n\n")

	for i, btn := range buttons {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, btn.Text))
	}
	sb.WriteString("\nBalas dengan angka pilihan anda.")
	return sb.String()
}

// MatchNumberToInline converts an exact number string to the corresponding button data.
// Returns empty string if no match.
func MatchNumberToInline(text string, buttons []InlineButton) string {
	text = strings.TrimSpace(text)
	num, err := strconv.Atoi(text)
	if err != nil || num < 1 || num > len(buttons) {
		return ""
	}
	return buttons[num-1].Data
}

// SplitFirst returns the first whitespace-separated token and the trimmed rest.
func SplitFirst(text string) (string, string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", ""
	}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), fields[0]))
	return fields[0], rest
}
