// File: database/repository/session/crud.go
package sessionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servilink/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoSessionRepo) Create(ctx context.Context, session *models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

func (r *mongoSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.Session
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching session %s: %w", id, err)
	}
	return &session, nil
}

func (r *mongoSessionRepo) Update(ctx context.Context, session *models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	session.UpdatedAt = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": session.ID}, bson.M{"$set": session})
	if err != nil {
		return fmt.Errorf("error updating session %s: %w", session.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("session %s not found", session.ID)
	}
	return nil
}

func (r *mongoSessionRepo) FindActiveForProviderDate(ctx context.Context, providerID, date, excludeSessionID string) ([]models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"providerId":  providerID,
		"sessionDate": date,
		"status":      bson.M{"$in": models.ActiveStatuses()},
	}
	if excludeSessionID != "" {
		filter["id"] = bson.M{"$ne": excludeSessionID}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error querying provider sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []models.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("error decoding provider sessions: %w", err)
	}
	return sessions, nil
}
