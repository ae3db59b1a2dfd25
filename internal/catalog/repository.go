package catalog

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
	Create(ctx context.Context, service models.Service) error
	Update(ctx context.Context, id string, set bson.M) (models.Service, error)
	FindByID(ctx context.Context, id string) (models.Service, error)
	List(ctx context.Context, filter ListFilter) ([]models.Service, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Create(ctx context.Context, service models.Service) error {
	_, err := r.col.InsertOne(ctx, service)
	return err
}

func (r *MongoRepository) Update(ctx context.Context, id string, set bson.M) (models.Service, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Service
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		return models.Service{}, err
	}
	return updated, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (models.Service, error) {
	var service models.Service
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&service)
	return service, err
}

func (r *MongoRepository) List(ctx context.Context, filter ListFilter) ([]models.Service, error) {
	query := bson.M{}
	if filter.OnlyActive {
		query["active"] = true
	}
	if filter.Query != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Service, 0)
	for cursor.Next(ctx) {
		var service models.Service
		if err := cursor.Decode(&service); err != nil {
			return nil, err
		}
		items = append(items, service)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
