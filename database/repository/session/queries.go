// File: database/repository/session/queries.go
package sessionRepo

import (
	"context"
	"fmt"
	"time"

	"servilink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoSessionRepo) findPaged(ctx context.Context, filter bson.M, page, limit int64) ([]models.Session, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting sessions: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "sessionDate", Value: -1}, {Key: "startTime", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, 0, fmt.Errorf("error decoding sessions: %w", err)
	}
	return sessions, total, nil
}

func (r *mongoSessionRepo) FindBySeeker(ctx context.Context, seekerID string, page, limit int64) ([]models.Session, int64, error) {
	return r.findPaged(ctx, bson.M{"seekerId": seekerID}, page, limit)
}

func (r *mongoSessionRepo) FindByProvider(ctx context.Context, providerID string, page, limit int64) ([]models.Session, int64, error) {
	return r.findPaged(ctx, bson.M{"providerId": providerID}, page, limit)
}

func (r *mongoSessionRepo) FindPendingAssignment(ctx context.Context, page, limit int64) ([]models.Session, int64, error) {
	return r.findPaged(ctx, bson.M{"status": models.StatusPendingAssignment}, page, limit)
}

func (r *mongoSessionRepo) CountByStatus(ctx context.Context, field, id string) (map[models.SessionStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{field: id}},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating session counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.SessionStatus `bson:"_id"`
		Count  int64                `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding session counts: %w", err)
	}

	counts := make(map[models.SessionStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
