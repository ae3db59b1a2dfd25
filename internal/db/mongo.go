package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Collections struct {
	Clients        *mongo.Collection
	Services       *mongo.Collection
	Users          *mongo.Collection
	Appointments   *mongo.Collection
	RecoveryTokens *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)

	cols := &Collections{
		Clients:        db.Collection("clients"),
		Services:       db.Collection("services"),
		Users:          db.Collection("users"),
		Appointments:   db.Collection("appointments"),
		RecoveryTokens: db.Collection("recovery_tokens"),
	}

	return client, cols, nil
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	indexTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := cols.Users.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.Appointments.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "start", Value: 1}},
		},
		{
			// Serves the reminder selection: unreminded appointments by start.
			Keys: bson.D{{Key: "reminderSent", Value: 1}, {Key: "start", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "barberId", Value: 1}, {Key: "start", Value: 1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = cols.RecoveryTokens.Indexes().CreateMany(indexTimeout, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
	if err != nil {
		return err
	}

	return nil
}
