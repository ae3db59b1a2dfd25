package appointments

import (
	"context"

	"github.com/sergio-tacza/api/internal/models"
	"github.com/sergio-tacza/api/internal/schedule"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Insert(ctx context.Context, appt models.Appointment) error
	FindByID(ctx context.Context, id string) (models.Appointment, error)
	List(ctx context.Context, window *schedule.Window, barberID string) ([]models.Appointment, error)
	FindDueReminders(ctx context.Context, window schedule.Window) ([]models.Appointment, error)
	SetStatus(ctx context.Context, id, status string) (bool, error)
	MarkReminderSent(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountInWindow(ctx context.Context, window schedule.Window) (int64, error)
}

type Directory interface {
	ClientByID(ctx context.Context, id string) (models.Client, error)
	ServiceByID(ctx context.Context, id string) (models.Service, error)
	BarberByID(ctx context.Context, id string) (models.User, error)
	CountClients(ctx context.Context) (int64, error)
	CountServices(ctx context.Context) (int64, error)
}

type MongoRepository struct {
	col *mongo.Collection
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, appt models.Appointment) error {
	_, err := r.col.InsertOne(ctx, appt)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (models.Appointment, error) {
	var appt models.Appointment
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&appt)
	return appt, err
}

// List applies an optional day window (upper bound exclusive) and an optional
// barber filter. The secondary _id sort keeps the order stable when several
// appointments share the same start.
func (r *MongoRepository) List(ctx context.Context, window *schedule.Window, barberID string) ([]models.Appointment, error) {
	query := bson.M{}
	if window != nil {
		query["start"] = bson.M{"$gte": window.From, "$lt": window.To}
	}
	if barberID != "" {
		query["barberId"] = barberID
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "start", Value: 1},
		{Key: "_id", Value: 1},
	})
	return r.findAll(ctx, query, opts)
}

// FindDueReminders selects unreminded appointments whose start falls inside
// the band, both edges inclusive.
func (r *MongoRepository) FindDueReminders(ctx context.Context, window schedule.Window) ([]models.Appointment, error) {
	query := bson.M{
		"start":        bson.M{"$gte": window.From, "$lte": window.To},
		"reminderSent": false,
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "start", Value: 1},
		{Key: "_id", Value: 1},
	})
	return r.findAll(ctx, query, opts)
}

func (r *MongoRepository) findAll(ctx context.Context, query bson.M, opts *options.FindOptions) ([]models.Appointment, error) {
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]models.Appointment, 0)
	for cursor.Next(ctx) {
		var appt models.Appointment
		if err := cursor.Decode(&appt); err != nil {
			return nil, err
		}
		items = append(items, appt)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *MongoRepository) SetStatus(ctx context.Context, id, status string) (bool, error) {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// MarkReminderSent flips the flag only when it is still false, so a racing
// writer cannot cause a second delivery to be recorded.
func (r *MongoRepository) MarkReminderSent(ctx context.Context, id string) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "reminderSent": false},
		bson.M{"$set": bson.M{"reminderSent": true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *MongoRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"status": status})
}

func (r *MongoRepository) CountInWindow(ctx context.Context, window schedule.Window) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"start": bson.M{"$gte": window.From, "$lt": window.To},
	})
}
