// File: database/repository/session/indexes.go
package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureSessionIndexes creates the indexes the conflict and listing queries rely on.
func (r *mongoSessionRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "providerId", Value: 1}, {Key: "sessionDate", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "seekerId", Value: 1}, {Key: "sessionDate", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("error creating session indexes: %w", err)
	}
	return nil
}
