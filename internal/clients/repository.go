package clients

import (
	"context"
	"regexp"

	"github.com/sergio-tacza/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Create(ctx context.Context, client models.Client) error
	Update(ctx context.Context, id string, set bson.M) (models.Client, error)
	FindByID(ctx context.Context, id string) (models.Client, error)
	List(ctx context.Context, filter ListFilter) ([]models.Client, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, client models.Client) error {
	_, err := r.col.InsertOne(ctx, client)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (models.Client, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Client
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return models.Client{}, err
	}
	return updated, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (models.Client, error) {
	var client models.Client
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	return client, err
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]models.Client, error) {
	query := bson.M{}
	if filter.OnlyActive {
		query["active"] = true
	}
	if filter.Query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"surname": pattern},
			bson.M{"email": pattern},
			bson.M{"phone": pattern},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Client, 0)
	for cursor.Next(ctx) {
		var client models.Client
		if err := cursor.Decode(&client); err != nil {
			return nil, err
		}
		items = append(items, client)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
