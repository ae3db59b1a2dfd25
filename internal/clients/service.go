package clients

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sergio-tacza/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("client not found")

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (models.Client, error) {
	client := models.Client{
		ID:        primitive.NewObjectID().Hex(),
		Name:      strings.TrimSpace(req.Name),
		Surname:   strings.TrimSpace(req.Surname),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Notes:     strings.TrimSpace(req.Notes),
		Active:    true,
		CreatedAt: time.Now().In(s.location),
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return models.Client{}, err
	}
	return client, nil
}

// Update only overwrites name and phone when non-empty; surname, email and
// notes are always replaced, mirroring the booking frontend's edit form.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (models.Client, error) {
	set := bson.M{
		"surname": strings.TrimSpace(req.Surname),
		"email":   strings.TrimSpace(req.Email),
		"notes":   strings.TrimSpace(req.Notes),
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		set["name"] = name
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		set["phone"] = phone
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Client{}, ErrNotFound
		}
		return models.Client{}, err
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Client, error) {
	client, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Client{}, ErrNotFound
		}
		return models.Client{}, err
	}
	return client, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Client, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.List(ctx, filter)
}

// Deactivate soft-deletes: existing appointments keep their reference.
func (s *Service) Deactivate(ctx context.Context, id string) error {
	_, err := s.repo.Update(ctx, strings.TrimSpace(id), bson.M{"active": false})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
