package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"readleaf/models"
)

// QuestionRepository spans the three question sub-collections. Each kind is
// an independent collection keyed by article_id.
type QuestionRepository struct {
	mc *mongo.Collection
	sa *mongo.Collection
	la *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{
		mc: db.Collection("mc_questions"),
		sa: db.Collection("sa_questions"),
		la: db.Collection("la_questions"),
	}
}

func (r *QuestionRepository) colFor(kind models.QuestionKind) (*mongo.Collection, error) {
	switch kind {
	case models.QuestionMultipleChoice:
		return r.mc, nil
	case models.QuestionShortAnswer:
		return r.sa, nil
	case models.QuestionLongAnswer:
		return r.la, nil
	default:
		return nil, fmt.Errorf("unknown question kind: %s", kind)
	}
}

// CountByArticle returns the number of questions of one kind for an article.
func (r *QuestionRepository) CountByArticle(ctx context.Context, kind models.QuestionKind, articleID string) (int64, error) {
	col, err := r.colFor(kind)
	if err != nil {
		return 0, err
	}
	oid, err := primitive.ObjectIDFromHex(articleID)
	if err != nil {
		return 0, err
	}
	return col.CountDocuments(ctx, bson.M{"article_id": oid})
}

// InsertMC stores a multiple-choice question set.
func (r *QuestionRepository) InsertMC(ctx context.Context, qs []models.MCQuestion) error {
	if len(qs) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(qs))
	now := time.Now()
	for i := range qs {
		qs[i].CreatedAt = now
		docs = append(docs, qs[i])
	}
	_, err := r.mc.InsertMany(ctx, docs)
	return err
}

// InsertSA stores a short-answer question set.
func (r *QuestionRepository) InsertSA(ctx context.Context, qs []models.SAQuestion) error {
	if len(qs) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(qs))
	now := time.Now()
	for i := range qs {
		qs[i].CreatedAt = now
		docs = append(docs, qs[i])
	}
	_, err := r.sa.InsertMany(ctx, docs)
	return err
}

// InsertLA stores a long-answer question set.
func (r *QuestionRepository) InsertLA(ctx context.Context, qs []models.LAQuestion) error {
	if len(qs) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(qs))
	now := time.Now()
	for i := range qs {
		qs[i].CreatedAt = now
		docs = append(docs, qs[i])
	}
	_, err := r.la.InsertMany(ctx, docs)
	return err
}
