package dto

import (
	"time"

	"readleaf/models"
)

// ArticleDTO is the read-side shape of one article, with media keys
// resolved to public URLs.
type ArticleDTO struct {
	ID             string    `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	Type           string    `json:"type"`
	Genre          string    `json:"genre"`
	SubGenre       string    `json:"sub_genre"`
	Topic          string    `json:"topic"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Summary        string    `json:"summary"`
	DifficultyTier string    `json:"difficulty_tier"`
	NumericLevel   float64   `json:"numeric_level"`
	AverageRating  float64   `json:"average_rating"`
	ReadCount      int64     `json:"read_count"`

	ImageURL string `json:"image_url"`
	AudioURL string `json:"audio_url"`

	SentenceTimepoints []models.Timepoint `json:"sentence_timepoints"`
}

// NewArticleDTO maps an article record; imageURL and audioURL are
// resolved by the service from the storage key convention.
func NewArticleDTO(a *models.Article, imageURL, audioURL string) ArticleDTO {
	return ArticleDTO{
		ID:                 a.ID.Hex(),
		CreatedAt:          a.CreatedAt,
		Type:               string(a.Type),
		Genre:              a.Genre,
		SubGenre:           a.SubGenre,
		Topic:              a.Topic,
		Title:              a.Title,
		Content:            a.Content,
		Summary:            a.Summary,
		DifficultyTier:     a.DifficultyTier,
		NumericLevel:       a.NumericLevel,
		AverageRating:      a.AverageRating,
		ReadCount:          a.ReadCount,
		ImageURL:           imageURL,
		AudioURL:           audioURL,
		SentenceTimepoints: a.SentenceTimepoints,
	}
}
