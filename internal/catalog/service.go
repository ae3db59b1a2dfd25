package catalog

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

var ErrNotFound = errors.New("service not found")

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

func (s *Service) Create(ctx context.Context, req CreateRequest) (models.Service, error) {
	item := models.Service{
		ID:          primitive.NewObjectID().Hex(),
		Name:        strings.TrimSpace(req.Name),
		DurationMin: req.DurationMin,
		PriceCents:  req.PriceCents,
		Active:      true,
		CreatedAt:   time.Now().In(s.location),
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return models.Service{}, err
	}
	return item, nil
}

// Update ignores absent or non-positive duration/price instead of rejecting,
// so partial edits do not have to resend every field. Existing appointments
// keep the end they were created with.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (models.Service, error) {
	set := bson.M{}
	if name := strings.TrimSpace(req.Name); name != "" {
		set["name"] = name
	}
	if req.DurationMin > 0 {
		set["durationMin"] = req.DurationMin
	}
	if req.PriceCents > 0 {
		set["priceCents"] = req.PriceCents
	}
	if len(set) == 0 {
		return s.Get(ctx, id)
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Service{}, ErrNotFound
		}
		return models.Service{}, err
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.Service, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Service{}, ErrNotFound
		}
		return models.Service{}, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Service, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repo.List(ctx, filter)
}

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
