package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/sergio-tacza/api/internal/auth"
	"github.com/sergio-tacza/api/internal/config"
	"github.com/sergio-tacza/api/internal/db"
	"github.com/sergio-tacza/api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedService struct {
	Name        string
	DurationMin int
	PriceCents  int64
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	services := []seedService{
		{Name: "Corte de pelo", DurationMin: 30, PriceCents: 1500},
		{Name: "Corte + barba", DurationMin: 45, PriceCents: 2200},
		{Name: "Arreglo de barba", DurationMin: 20, PriceCents: 1000},
		{Name: "Afeitado clásico", DurationMin: 30, PriceCents: 1800},
		{Name: "Corte infantil", DurationMin: 25, PriceCents: 1200},
		{Name: "Tinte", DurationMin: 60, PriceCents: 3500},
	}

	for _, svc := range services {
		filter := bson.M{"name": svc.Name}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":         primitive.NewObjectID().Hex(),
				"name":        svc.Name,
				"durationMin": svc.DurationMin,
				"priceCents":  svc.PriceCents,
				"active":      true,
				"createdAt":   time.Now().In(cfg.Timezone),
			},
		}

		_, err := cols.Services.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		if err != nil {
			log.Fatalf("seed error for %s: %v", svc.Name, err)
		}
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Println("seed admin: ADMIN_EMAIL or ADMIN_PASSWORD missing, skipping")
	} else {
		if err := seedAdminUser(ctx, cols, adminEmail, adminPassword, cfg.Timezone); err != nil {
			log.Fatalf("seed admin error: %v", err)
		}
	}

	log.Println("seed completed")
}

func seedAdminUser(ctx context.Context, cols *db.Collections, email, password string, loc *time.Location) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID().Hex(),
			"name":         "Admin",
			"email":        email,
			"passwordHash": hash,
			"role":         models.UserRoleAdmin,
			"active":       true,
			"createdAt":    time.Now().In(loc),
		},
	}

	_, err = cols.Users.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
