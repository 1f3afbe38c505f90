package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationRun records the progress of one bulk-generation batch.
// It is saved after every topic row so a crash loses at most one row.
// Collection: generation_runs
type GenerationRun struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StartedAt     time.Time          `bson:"started_at" json:"started_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
	RequestedRows int                `bson:"requested_rows" json:"requested_rows"`
	RowsDone      int                `bson:"rows_done" json:"rows_done"`
	Generated     int                `bson:"generated" json:"generated"`
	Errors        int                `bson:"errors" json:"errors"`
	// TierCounts tallies generated articles per difficulty tier.
	TierCounts map[string]int `bson:"tier_counts" json:"tier_counts"`
	// Warnings lists post-persist fan-out failures (media, questions,
	// notification). These articles exist but need the repair batch.
	Warnings []string `bson:"warnings,omitempty" json:"warnings,omitempty"`
}
