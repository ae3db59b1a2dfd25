// Package directory resolves client, service and barber snapshots by id for
// code paths that hold non-owning references (appointments, reminders).
package directory

import (
	"context"

	"github.com/sergio-tacza/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Mongo struct {
	clients  *mongo.Collection
	services *mongo.Collection
	users    *mongo.Collection
}

func New(clients, services, users *mongo.Collection) *Mongo {
	return &Mongo{clients: clients, services: services, users: users}
}

func (d *Mongo) ClientByID(ctx context.Context, id string) (models.Client, error) {
	var c models.Client
	err := d.clients.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	return c, err
}

func (d *Mongo) ServiceByID(ctx context.Context, id string) (models.Service, error) {
	var s models.Service
	err := d.services.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	return s, err
}

func (d *Mongo) BarberByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := d.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	return u, err
}

func (d *Mongo) CountClients(ctx context.Context) (int64, error) {
	return d.clients.CountDocuments(ctx, bson.M{})
}

func (d *Mongo) CountServices(ctx context.Context) (int64, error) {
	return d.services.CountDocuments(ctx, bson.M{})
}
