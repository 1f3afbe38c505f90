// Package speech turns article text into narrated audio with per-sentence
// timing metadata.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"

	gax "github.com/googleapis/gax-go/v2"
	texttospeechpb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1beta1"

	"readleaf/models"
	"readleaf/storage"
)

// AudioError wraps any failure while synthesizing or storing narration.
type AudioError struct {
	ArticleID string
	Err       error
}

func (e *AudioError) Error() string {
	return fmt.Sprintf("audio synthesis for %s: %v", e.ArticleID, e.Err)
}

func (e *AudioError) Unwrap() error { return e.Err }

// TTSClient is the slice of the text-to-speech API the synthesizer uses.
// *texttospeech.Client satisfies it.
type TTSClient interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
}

// ObjectStore is the slice of the storage bucket the synthesizer uses.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader) error
	MakePublic(ctx context.Context, key string) error
}

// TimepointStore persists sentence timepoints onto the article record.
type TimepointStore interface {
	UpdateTimepoints(ctx context.Context, id string, tps []models.Timepoint) error
}

// Synthesizer narrates article content and stores the result.
type Synthesizer struct {
	tts          TTSClient
	store        ObjectStore
	articles     TimepointStore
	languageCode string
	voices       []string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSynthesizer builds a Synthesizer on a text-to-speech client.
// The voice pool is fixed; one voice is drawn uniformly per synthesis for
// variety only.
func NewSynthesizer(client TTSClient, store ObjectStore, articles TimepointStore, languageCode string, voices []string, seed int64) *Synthesizer {
	if languageCode == "" {
		languageCode = "en-US"
	}
	if len(voices) == 0 {
		voices = []string{
			"en-US-Neural2-C",
			"en-US-Neural2-D",
			"en-US-Neural2-F",
			"en-US-Neural2-J",
		}
	}
	return &Synthesizer{
		tts:          client,
		store:        store,
		articles:     articles,
		languageCode: languageCode,
		voices:       voices,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Synthesize narrates content, uploads the MP3 at the article's audio key and
// records the returned per-sentence timepoints on the article.
func (s *Synthesizer) Synthesize(ctx context.Context, content, articleID string) error {
	sentences := SplitSentences(content)
	markup, err := BuildMarkup(sentences)
	if err != nil {
		return &AudioError{ArticleID: articleID, Err: err}
	}

	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Ssml{Ssml: markup},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: s.languageCode,
			Name:         s.pickVoice(),
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
		EnableTimePointing: []texttospeechpb.SynthesizeSpeechRequest_TimepointType{
			texttospeechpb.SynthesizeSpeechRequest_SSML_MARK,
		},
	}

	resp, err := s.tts.SynthesizeSpeech(ctx, req)
	if err != nil {
		return &AudioError{ArticleID: articleID, Err: err}
	}

	key := storage.AudioKey(articleID)
	if err := s.store.Upload(ctx, key, bytes.NewReader(resp.AudioContent)); err != nil {
		return &AudioError{ArticleID: articleID, Err: err}
	}
	if err := s.store.MakePublic(ctx, key); err != nil {
		return &AudioError{ArticleID: articleID, Err: err}
	}

	tps := make([]models.Timepoint, 0, len(resp.Timepoints))
	for _, tp := range resp.Timepoints {
		tps = append(tps, models.Timepoint{MarkName: tp.MarkName, Seconds: tp.TimeSeconds})
	}
	if err := s.articles.UpdateTimepoints(ctx, articleID, tps); err != nil {
		return &AudioError{ArticleID: articleID, Err: err}
	}
	return nil
}

func (s *Synthesizer) pickVoice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voices[s.rng.Intn(len(s.voices))]
}
