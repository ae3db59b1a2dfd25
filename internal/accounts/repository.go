package accounts

import (
	"context"
	"regexp"
	"time"

	"github.com/sergio-tacza/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Repository interface {
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	SetPassword(ctx context.Context, userID, passwordHash string) error
	SaveToken(ctx context.Context, token models.RecoveryToken) error
	FindValidToken(ctx context.Context, token string, now time.Time) (models.RecoveryToken, error)
	MarkTokenUsed(ctx context.Context, id string) error
}

type MongoRepository struct {
	users  *mongo.Collection
	tokens *mongo.Collection
}

func NewRepository(users, tokens *mongo.Collection) *MongoRepository {
	return &MongoRepository{users: users, tokens: tokens}
}

func (r *MongoRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{
		"email": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(email) + "$", Options: "i"},
	}).Decode(&user)
	return user, err
}

func (r *MongoRepository) SetPassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"passwordHash": passwordHash}},
	)
	return err
}

func (r *MongoRepository) SaveToken(ctx context.Context, token models.RecoveryToken) error {
	_, err := r.tokens.InsertOne(ctx, token)
	return err
}

func (r *MongoRepository) FindValidToken(ctx context.Context, token string, now time.Time) (models.RecoveryToken, error) {
	var rt models.RecoveryToken
	err := r.tokens.FindOne(ctx, bson.M{
		"token":     token,
		"used":      false,
		"expiresAt": bson.M{"$gt": now},
	}).Decode(&rt)
	return rt, err
}

func (r *MongoRepository) MarkTokenUsed(ctx context.Context, id string) error {
	_, err := r.tokens.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"used": true}},
	)
	return err
}
