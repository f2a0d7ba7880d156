package chat

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "prompt prefix stripped",
			input: "Please explain how async functions work in depth",
			want:  "How async functions work in depth",
		},
		{
			name:  "heading and first line only",
			input: "# Write a poem about the sea.\nSecond line ignored",
			want:  "A poem about the sea.",
		},
		{
			name:  "urls removed",
			input: "Check this out: https://example.com/foo this is cool",
			want:  "Check this out: this is cool",
		},
		{
			name:  "backticks removed",
			input: "what is `context.Context` for",
			want:  "Context.Context for",
		},
		{
			name:  "empty input",
			input: "",
			want:  "Thread",
		},
		{
			name:  "whitespace only",
			input: "   \n\t ",
			want:  "Thread",
		},
		{
			name:  "reduced to nothing",
			input: "https://example.com/only-a-link",
			want:  "Thread",
		},
		{
			name:  "early terminator kept",
			input: "E.g. what does this error mean exactly",
			want:  "E.g. what does this error mean exactly",
		},
		{
			name:  "trailing punctuation trimmed",
			input: "deployment checklist: ",
			want:  "Deployment checklist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SummarizeTitle(tt.input))
		})
	}
}

func TestSummarizeTitle_Truncation(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := SummarizeTitle(long)

	assert.LessOrEqual(t, utf8.RuneCountInString(got), 60)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestSummarizeTitle_TruncationIsRuneSafe(t *testing.T) {
	long := strings.Repeat("ありがとうございます ", 15)
	got := SummarizeTitle(long)

	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 60)
}

func TestSummarizeTitle_NeverEmpty(t *testing.T) {
	inputs := []string{
		"", " ", "```", "### ", "- - -", "http://x.io", "?!.",
		strings.Repeat("a", 10000),
		"\x00\xff invalid bytes \xfe",
	}

	for _, in := range inputs {
		got := SummarizeTitle(in)
		assert.NotEmpty(t, got)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), 60)
	}
}

func TestSummarizeTitle_IdempotentOnCleanInput(t *testing.T) {
	clean := SummarizeTitle("The sky is blue today.")
	assert.Equal(t, clean, SummarizeTitle(clean))
}

func TestSummarizeTitle_Deterministic(t *testing.T) {
	in := "Please write a short story about a lighthouse keeper."
	first := SummarizeTitle(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, SummarizeTitle(in))
	}
}
