// Package render converts raw document text into an ordered sequence of
// bounded-size, HTML-styled presentation segments. Downstream delivery relies
// on every segment fitting under the transport message-size limit.
package render

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"
)

const (
	// SegmentCap bounds composed text segments.
	SegmentCap = 3000
	// TransportCap is the hard message-size ceiling at the transport boundary.
	TransportCap = 4000
	// CodeBlockCap bounds the content of a single fenced code block.
	CodeBlockCap = 2000
)

// TruncatedMarker is appended to code blocks cut at CodeBlockCap.
const TruncatedMarker = "… [truncated]"

const codeFence = "```"

// Heading indicators by depth: level 1, level 2, level 3 and deeper.
var headingIndicators = []string{"🔴", "🟡", "🟢"}

// Segments renders text into HTML-styled segments, each at most SegmentCap
// runes, except code blocks which each occupy their own segment bounded by
// CodeBlockCap plus the truncation marker. Empty input yields no segments.
func Segments(text string) []string {
	if text == "" {
		return nil
	}

	var segments []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			segments = append(segments, current.String())
			current.Reset()
			currentLen = 0
		}
	}
	appendLine := func(line string) {
		// Oversized single lines are split hard so the cap always holds.
		for utf8.RuneCountInString(line) > SegmentCap {
			flush()
			head, tail := splitAt(line, SegmentCap)
			segments = append(segments, head)
			line = tail
		}
		lineLen := utf8.RuneCountInString(line)
		extra := lineLen
		if currentLen > 0 {
			extra++ // joining newline
		}
		if currentLen+extra > SegmentCap {
			flush()
			extra = lineLen
		}
		if currentLen > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
		currentLen += extra
	}

	inCode := false
	var code []string

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), codeFence) {
			if inCode {
				// Code blocks always occupy their own segment.
				flush()
				segments = append(segments, codeSegment(strings.Join(code, "\n")))
				code = nil
			}
			inCode = !inCode
			continue
		}
		if inCode {
			code = append(code, line)
			continue
		}
		appendLine(styleLine(line))
	}

	// An unterminated fence still emits its accumulated block.
	if inCode && len(code) > 0 {
		flush()
		segments = append(segments, codeSegment(strings.Join(code, "\n")))
	}
	flush()

	return segments
}

// styleLine classifies a single non-code line.
func styleLine(line string) string {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		return ""
	case strings.HasPrefix(trimmed, "#"):
		depth := 0
		for depth < len(trimmed) && trimmed[depth] == '#' {
			depth++
		}
		title := strings.TrimSpace(trimmed[depth:])
		if title == "" {
			return ""
		}
		indicator := headingIndicators[min(depth, len(headingIndicators))-1]
		return fmt.Sprintf("<b>%s %s</b>", indicator, html.EscapeString(title))
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		return "• " + html.EscapeString(strings.TrimSpace(trimmed[2:]))
	default:
		return html.EscapeString(trimmed)
	}
}

func codeSegment(code string) string {
	if utf8.RuneCountInString(code) > CodeBlockCap {
		head, _ := splitAt(code, CodeBlockCap)
		code = head + TruncatedMarker
	}
	return "<pre>" + html.EscapeString(code) + "</pre>"
}

// SplitPlain slices raw text into chunks of at most capRunes runes, with no
// styling. Used as the unstyled fallback at the transport boundary.
func SplitPlain(text string, capRunes int) []string {
	if text == "" || capRunes <= 0 {
		return nil
	}
	var parts []string
	for utf8.RuneCountInString(text) > capRunes {
		head, tail := splitAt(text, capRunes)
		parts = append(parts, head)
		text = tail
	}
	return append(parts, text)
}

// ProgressBar renders a ten-cell bar for a percentage in [0, 100].
func ProgressBar(percent float64) string {
	filled := int(percent / 10)
	if filled > 10 {
		filled = 10
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("🟩", filled) + strings.Repeat("⬜", 10-filled)
}

// splitAt splits s after n runes.
func splitAt(s string, n int) (string, string) {
	count := 0
	for i := range s {
		if count == n {
			return s[:i], s[i:]
		}
		count++
	}
	return s, ""
}
