package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sergio-tacza/api/internal/auth"
	"github.com/sergio-tacza/api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrBadCredentials = errors.New("invalid credentials")
	ErrUnknownEmail   = errors.New("email not registered")
	ErrBadToken       = errors.New("invalid or expired token")
)

const recoveryTokenTTL = time.Hour

// Mailer is the slice of the notification layer the recovery flow needs.
type Mailer interface {
	SendPasswordRecovery(ctx context.Context, toEmail, toName, resetLink string) (string, error)
}

type Service struct {
	repo         Repository
	jwt          *auth.Manager
	mailer       Mailer
	resetURLBase string
	log          *slog.Logger
}

func NewService(repo Repository, jwtManager *auth.Manager, mailer Mailer, resetURLBase string, log *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		jwt:          jwtManager,
		mailer:       mailer,
		resetURLBase: resetURLBase,
		log:          log,
	}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	user, err := s.repo.FindUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return LoginResponse{}, ErrBadCredentials
		}
		return LoginResponse{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return LoginResponse{}, ErrBadCredentials
	}

	if s.jwt == nil {
		return LoginResponse{}, errors.New("jwt signing not configured")
	}
	token, err := s.jwt.NewAccessToken(user.ID, user.Role)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		UserID:      user.ID,
		Email:       user.Email,
		Role:        user.Role,
		AccessToken: token,
	}, nil
}

// RequestRecovery stores a one-hour token and mails the reset link. A mail
// delivery failure is logged but does not fail the request: the token is
// already persisted and the operator can resend.
func (s *Service) RequestRecovery(ctx context.Context, email string) error {
	user, err := s.repo.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUnknownEmail
		}
		return err
	}

	now := time.Now()
	token := models.RecoveryToken{
		ID:        primitive.NewObjectID().Hex(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(recoveryTokenTTL),
		Used:      false,
		CreatedAt: now,
	}
	if err := s.repo.SaveToken(ctx, token); err != nil {
		return err
	}

	if s.mailer == nil {
		s.log.Warn("recovery: mailer disabled, token stored only",
			slog.String("user_id", user.ID),
		)
		return nil
	}

	link := fmt.Sprintf("%s?token=%s", s.resetURLBase, token.Token)
	if _, err := s.mailer.SendPasswordRecovery(ctx, user.Email, user.Name, link); err != nil {
		s.log.Warn("recovery: email send failed",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, req ResetRequest) error {
	token, err := s.repo.FindValidToken(ctx, strings.TrimSpace(req.Token), time.Now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrBadToken
		}
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}
	if err := s.repo.SetPassword(ctx, token.UserID, hash); err != nil {
		return err
	}
	return s.repo.MarkTokenUsed(ctx, token.ID)
}
