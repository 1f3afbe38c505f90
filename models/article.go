package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ArticleType distinguishes fiction from non-fiction generations.
type ArticleType string

const (
	ArticleFiction    ArticleType = "fiction"
	ArticleNonFiction ArticleType = "non-fiction"
)

// Timepoint is one per-sentence timing marker returned by speech synthesis.
// MarkName matches the markup marker ("sentence1", "sentence2", ...).
type Timepoint struct {
	MarkName string  `bson:"mark_name" json:"mark_name"`
	Seconds  float64 `bson:"seconds" json:"seconds"`
}

// Article represents one generated leveled-reading article
// Collection: articles
type Article struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	// Classification seeded by the narrative protocol's "about" stage
	Type     ArticleType `bson:"type" json:"type"`
	Genre    string      `bson:"genre" json:"genre"`
	SubGenre string      `bson:"sub_genre" json:"sub_genre"`
	Topic    string      `bson:"topic" json:"topic"`

	Title            string `bson:"title" json:"title"`
	Content          string `bson:"content" json:"content"`
	Summary          string `bson:"summary" json:"summary"`
	ImageDescription string `bson:"image_description" json:"image_description"`

	// Derived from Content by the readability scorer at creation time.
	// Recomputing from identical content yields identical values.
	DifficultyTier string  `bson:"difficulty_tier" json:"difficulty_tier"`
	NumericLevel   float64 `bson:"numeric_level" json:"numeric_level"`

	// SessionID is the conversation session that produced this article.
	SessionID string `bson:"session_id" json:"session_id"`

	// Engagement fields are mutated outside the generation pipeline.
	AverageRating float64 `bson:"average_rating" json:"average_rating"`
	ReadCount     int64   `bson:"read_count" json:"read_count"`

	// Set by the audio synthesizer after synthesis.
	SentenceTimepoints []Timepoint `bson:"sentence_timepoints" json:"sentence_timepoints"`
}
