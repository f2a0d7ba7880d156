package chat

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxTitleLen   = 60
	fallbackTitle = "Thread"
)

var (
	headingRe    = regexp.MustCompile(`^#+\s*`)
	urlRe        = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://\S+`)
	promptPrefix = regexp.MustCompile(`(?i)^\s*(please\s+)?(write|explain|describe|create|implement|how\s+(do|to)|what\s+is|can\s+you|help\s+me|summarize|draft|generate|build|show\s+me|give\s+me)\b[:,-]?\s*`)
	leadDecorRe  = regexp.MustCompile(`^[-–•\s]+`)
	trailPunctRe = regexp.MustCompile(`[\s:;,-]+$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// SummarizeTitle derives a short human-readable thread title from the first
// user message. It is total: it never panics and always returns a non-empty
// string of at most 60 characters.
func SummarizeTitle(input string) (title string) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return fallbackTitle
	}

	defer func() {
		if r := recover(); r != nil {
			title = truncateTitle(raw)
		}
	}()

	text := raw

	// first line only
	if idx := strings.IndexAny(text, "\r\n"); idx >= 0 {
		text = text[:idx]
	}

	text = headingRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "`", "")
	text = urlRe.ReplaceAllString(text, "")
	text = promptPrefix.ReplaceAllString(text, "")

	// keep a clean first sentence, but never truncate within the first
	// few characters where a terminator is likely an abbreviation
	if idx := strings.IndexAny(text, ".!?"); idx >= 0 {
		if utf8.RuneCountInString(text[:idx]) > 8 {
			text = text[:idx+len(".")]
		}
	}

	text = whitespaceRe.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	text = leadDecorRe.ReplaceAllString(text, "")
	text = trailPunctRe.ReplaceAllString(text, "")

	if text == "" {
		return fallbackTitle
	}

	first, size := utf8.DecodeRuneInString(text)
	text = string(unicode.ToUpper(first)) + text[size:]

	return truncateTitle(text)
}

// truncateTitle caps a title at maxTitleLen characters including the
// ellipsis, without splitting a multibyte character.
func truncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= maxTitleLen {
		return s
	}
	return string(runes[:maxTitleLen-3]) + "..."
}
