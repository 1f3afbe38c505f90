package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionKind selects one of the three question sub-collections.
type QuestionKind string

const (
	QuestionMultipleChoice QuestionKind = "mc"
	QuestionShortAnswer    QuestionKind = "sa"
	QuestionLongAnswer     QuestionKind = "la"
)

// MCQuestion is a multiple-choice comprehension question
// Collection: mc_questions
type MCQuestion struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ArticleID   primitive.ObjectID `bson:"article_id" json:"article_id"`
	Prompt      string             `bson:"prompt" json:"prompt"`
	Choices     []string           `bson:"choices" json:"choices"`
	AnswerIndex int                `bson:"answer_index" json:"answer_index"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// SAQuestion is a short-answer question
// Collection: sa_questions
type SAQuestion struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ArticleID primitive.ObjectID `bson:"article_id" json:"article_id"`
	Prompt    string             `bson:"prompt" json:"prompt"`
	Answer    string             `bson:"answer" json:"answer"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// LAQuestion is a long-answer (essay) question with a sample answer
// Collection: la_questions
type LAQuestion struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ArticleID    primitive.ObjectID `bson:"article_id" json:"article_id"`
	Prompt       string             `bson:"prompt" json:"prompt"`
	SampleAnswer string             `bson:"sample_answer" json:"sample_answer"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
