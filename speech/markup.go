package speech

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSentences is returned when markup is requested for empty input.
var ErrNoSentences = errors.New("speech: no sentences to mark up")

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// BuildMarkup wraps sentences in an SSML document with one sequentially
// numbered mark per sentence (sentence1, sentence2, ...), in input order.
// The synthesis service reports a timepoint for each mark.
func BuildMarkup(sentences []string) (string, error) {
	if len(sentences) == 0 {
		return "", ErrNoSentences
	}
	var b strings.Builder
	b.WriteString("<speak>")
	for i, s := range sentences {
		fmt.Fprintf(&b, `<mark name="sentence%d"/>`, i+1)
		b.WriteString("<s>")
		b.WriteString(xmlEscaper.Replace(s))
		b.WriteString("</s>")
	}
	b.WriteString("</speak>")
	return b.String(), nil
}

// SplitSentences breaks article content into sentences. Terminators stay
// attached to their sentence; blank lines act as hard breaks.
func SplitSentences(content string) []string {
	var out []string
	var cur strings.Builder

	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}

	for _, r := range content {
		switch r {
		case '.', '!', '?':
			cur.WriteRune(r)
			flush()
		case '\n':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
