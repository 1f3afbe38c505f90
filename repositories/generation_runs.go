package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"readleaf/models"
)

type GenerationRunRepository struct {
	col *mongo.Collection
}

func NewGenerationRunRepository(db *mongo.Database) *GenerationRunRepository {
	return &GenerationRunRepository{col: db.Collection("generation_runs")}
}

// Start creates the run document and returns its id.
func (r *GenerationRunRepository) Start(ctx context.Context, run *models.GenerationRun) (primitive.ObjectID, error) {
	now := time.Now()
	run.StartedAt = now
	run.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, run)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id := res.InsertedID.(primitive.ObjectID)
	run.ID = id
	return id, nil
}

// Save replaces the progress counters. Called after every processed row.
func (r *GenerationRunRepository) Save(ctx context.Context, run *models.GenerationRun) error {
	run.UpdatedAt = time.Now()
	_, err := r.col.UpdateByID(ctx, run.ID, bson.M{"$set": bson.M{
		"updated_at":  run.UpdatedAt,
		"rows_done":   run.RowsDone,
		"generated":   run.Generated,
		"errors":      run.Errors,
		"tier_counts": run.TierCounts,
	}})
	return err
}
