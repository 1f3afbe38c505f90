// Package imagegen produces one illustration per article from the image
// description yielded by the narrative protocol's terminal stage.
package imagegen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go"

	"readleaf/storage"
)

// ImageError wraps any failure while generating or storing an illustration.
type ImageError struct {
	ArticleID string
	Err       error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image synthesis for %s: %v", e.ArticleID, e.Err)
}

func (e *ImageError) Unwrap() error { return e.Err }

// ObjectStore is the slice of the storage bucket the synthesizer uses.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader) error
	MakePublic(ctx context.Context, key string) error
}

// Synthesizer calls the external image service once per article, downloads
// the result and stores it at the article's image key. It never retries
// internally; retry policy belongs to the caller.
type Synthesizer struct {
	client openai.Client
	store  ObjectStore
	model  string
	size   string
	httpc  *http.Client
}

func NewSynthesizer(client openai.Client, store ObjectStore, model, size string) *Synthesizer {
	if model == "" {
		model = string(openai.ImageModelDallE3)
	}
	if size == "" {
		size = "1024x1024"
	}
	return &Synthesizer{
		client: client,
		store:  store,
		model:  model,
		size:   size,
		httpc:  &http.Client{Timeout: 2 * time.Minute},
	}
}

// Synthesize generates an image for description and uploads it at the
// article's image key.
func (s *Synthesizer) Synthesize(ctx context.Context, description, articleID string) error {
	resp, err := s.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: description,
		Model:  openai.ImageModel(s.model),
		Size:   openai.ImageGenerateParamsSize(s.size),
		N:      openai.Int(1),
	})
	if err != nil {
		return &ImageError{ArticleID: articleID, Err: err}
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return &ImageError{ArticleID: articleID, Err: fmt.Errorf("image service returned no result")}
	}

	body, err := s.download(ctx, resp.Data[0].URL)
	if err != nil {
		return &ImageError{ArticleID: articleID, Err: err}
	}
	defer body.Close()

	key := storage.ImageKey(articleID)
	if err := s.store.Upload(ctx, key, body); err != nil {
		return &ImageError{ArticleID: articleID, Err: err}
	}
	if err := s.store.MakePublic(ctx, key); err != nil {
		return &ImageError{ArticleID: articleID, Err: err}
	}
	return nil
}

func (s *Synthesizer) download(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
