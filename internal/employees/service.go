package employees

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sergio-tacza/api/internal/auth"
	"github.com/sergio-tacza/api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound    = errors.New("employee not found")
	ErrEmailExists = errors.New("email already registered")
)

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

func (s *Service) Create(ctx context.Context, req CreateRequest) (models.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}

	role := req.Role
	if role == "" {
		role = models.UserRoleBarber
	}

	user := models.User{
		ID:           primitive.NewObjectID().Hex(),
		Name:         strings.TrimSpace(req.Name),
		Surname:      strings.TrimSpace(req.Surname),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now().In(s.location),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrEmailExists
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (models.User, error) {
	set := bson.M{
		"surname": strings.TrimSpace(req.Surname),
		"phone":   strings.TrimSpace(req.Phone),
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		set["name"] = name
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		set["email"] = strings.ToLower(email)
	}
	if req.Role != "" {
		set["role"] = req.Role
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrEmailExists
		}
		return models.User{}, err
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.User, error) {
	user, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.User, error) {
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
