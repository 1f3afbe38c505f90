package speech_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"readleaf/speech"
)

func TestBuildMarkupSentenceCount(t *testing.T) {
	// every non-empty input of N sentences yields exactly N ordered marks
	for n := 1; n <= 30; n++ {
		sentences := make([]string, n)
		for i := range sentences {
			sentences[i] = fmt.Sprintf("Sentence number %d.", i+1)
		}
		markup, err := speech.BuildMarkup(sentences)
		assert.NoError(t, err)
		assert.Equal(t, n, strings.Count(markup, "<mark name="))

		prev := -1
		for i := 1; i <= n; i++ {
			idx := strings.Index(markup, fmt.Sprintf(`<mark name="sentence%d"/>`, i))
			assert.Greater(t, idx, prev, "mark sentence%d out of order", i)
			prev = idx
		}
	}
}

func TestBuildMarkupWrapsDocument(t *testing.T) {
	markup, err := speech.BuildMarkup([]string{"Hello there.", "Good morning."})
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(markup, "<speak>"))
	assert.True(t, strings.HasSuffix(markup, "</speak>"))
	assert.Contains(t, markup, "<s>Hello there.</s>")
	assert.Contains(t, markup, "<s>Good morning.</s>")
}

func TestBuildMarkupEscapesText(t *testing.T) {
	markup, err := speech.BuildMarkup([]string{`Tom & Jerry said "run" <fast>.`})
	assert.NoError(t, err)
	assert.Contains(t, markup, "Tom &amp; Jerry said &quot;run&quot; &lt;fast&gt;.")
	assert.NotContains(t, markup, "<fast>")
}

func TestBuildMarkupEmptyInput(t *testing.T) {
	_, err := speech.BuildMarkup(nil)
	assert.ErrorIs(t, err, speech.ErrNoSentences)
}

func TestSplitSentences(t *testing.T) {
	got := speech.SplitSentences("The fox ran. Did it jump? Yes!\nA new paragraph without a stop")
	assert.Equal(t, []string{
		"The fox ran.",
		"Did it jump?",
		"Yes!",
		"A new paragraph without a stop",
	}, got)
}

func TestSplitSentencesEmpty(t *testing.T) {
	assert.Empty(t, speech.SplitSentences("   \n  "))
}
