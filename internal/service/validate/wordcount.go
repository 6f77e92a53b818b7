package validate

import (
	"strings"
	"unicode"
)

// countWords counts words in markdown lesson content, stripping syntax first
// so formatting-heavy lessons are not over-counted.
func countWords(markdown string) int {
	text := stripMarkdown(markdown)

	count := 0
	for _, word := range strings.FieldsFunc(text, unicode.IsSpace) {
		if strings.TrimSpace(word) != "" {
			count++
		}
	}
	return count
}

func stripMarkdown(markdown string) string {
	text := stripCodeBlocks(markdown)

	// Inline code and emphasis markers
	for _, marker := range []string{"`", "**", "*", "__", "_", "~~", "#"} {
		text = strings.ReplaceAll(text, marker, "")
	}

	// List markers
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		// Numbered list markers ("1. ", "2. ")
		if len(line) > 2 && unicode.IsDigit(rune(line[0])) && line[1] == '.' {
			line = line[2:]
		}
		lines[i] = line
	}
	text = strings.Join(lines, " ")

	// Blockquotes and horizontal rules
	text = strings.ReplaceAll(text, ">", "")
	text = strings.ReplaceAll(text, "---", "")
	text = strings.ReplaceAll(text, "***", "")

	return text
}

func stripCodeBlocks(text string) string {
	for {
		start := strings.Index(text, "```")
		if start == -1 {
			break
		}
		end := strings.Index(text[start+3:], "```")
		if end == -1 {
			break
		}
		text = text[:start] + text[start+end+6:]
	}
	return text
}
