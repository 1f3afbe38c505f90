// Package storage wraps the object-storage bucket holding generated media.
// Keys are deterministic in the article id so artifacts can be located
// without extra bookkeeping.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
)

// ImageKey returns the storage key of an article's illustration.
func ImageKey(articleID string) string {
	return "images/" + articleID + ".png"
}

// AudioKey returns the storage key of an article's narration track.
func AudioKey(articleID string) string {
	return "audio/" + articleID + ".mp3"
}

// LegacyAudioKey is the pre-extension audio key convention. Historical
// records may still live there, so existence checks probe it as a fallback.
func LegacyAudioKey(articleID string) string {
	return "audio/" + articleID
}

type Bucket struct {
	client    *gcs.Client
	name      string
	cdnDomain string
}

func NewBucket(ctx context.Context, name, cdnDomain string) (*Bucket, error) {
	if name == "" {
		return nil, errors.New("storage: bucket name is required")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: create client: %w", err)
	}
	return &Bucket{client: client, name: name, cdnDomain: cdnDomain}, nil
}

// Upload writes the object at key, replacing any previous content.
func (b *Bucket) Upload(ctx context.Context, key string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := b.client.Bucket(b.name).Object(key).NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("storage: close writer for %s: %w", key, err)
	}
	return nil
}

// Exists reports whether an object is present at key.
func (b *Bucket) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.Bucket(b.name).Object(key).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("storage: stat %s: %w", key, err)
}

// MakePublic grants all-users read access to the object.
func (b *Bucket) MakePublic(ctx context.Context, key string) error {
	acl := b.client.Bucket(b.name).Object(key).ACL()
	if err := acl.Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return fmt.Errorf("storage: make %s public: %w", key, err)
	}
	return nil
}

// PublicURL returns the browsable URL of an object.
func (b *Bucket) PublicURL(key string) string {
	if b.cdnDomain != "" {
		return "https://" + b.cdnDomain + "/" + key
	}
	return "https://storage.googleapis.com/" + b.name + "/" + key
}

func contentTypeForKey(key string) string {
	switch {
	case strings.HasSuffix(key, ".png"):
		return "image/png"
	case strings.HasSuffix(key, ".jpg"), strings.HasSuffix(key, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(key, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(key, ".json"):
		return "application/json"
	default:
		return ""
	}
}
