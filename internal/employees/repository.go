package employees

import (
	"context"

	"github.com/sergio-tacza/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, user models.User) error
	Update(ctx context.Context, id string, set bson.M) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context, filter ListFilter) ([]models.User, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, user models.User) error {
	_, err := r.col.InsertOne(ctx, user)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return models.User{}, err
	}
	return updated, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	return user, err
}

// List excludes admin accounts; only barbers are staff from the booking
// surface's point of view.
func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]models.User, error) {
	query := bson.M{"role": bson.M{"$ne": models.UserRoleAdmin}}
	if filter.OnlyActive {
		query["active"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.User, 0)
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		items = append(items, user)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
