// File: database/repository/user/interface.go
package userRepo

import (
	"context"

	"servilink/database"
	"servilink/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository is the identity/role directory consulted by authorization checks.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs a MongoDB-backed UserRepository.
func NewMongoUserRepo() UserRepository {
	return &mongoUserRepo{coll: database.DB().Collection("users")}
}
