package user

import (
	"context"
	"errors"

	"kantin-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Authenticate(ctx context.Context, token string) (*Session, error)
	Logout(ctx context.Context, token string) error
	// EnsureAdmin creates the account if the email is not registered yet.
	EnsureAdmin(ctx context.Context, email, password string) error
}

type service struct {
	repo   Repository
	tokens *Tokens
}

func NewService(repo Repository, tokens *Tokens) Service {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	log := logger.Op(ctx, "service", "Login", zap.String("email", email))

	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			log.Warn("email not found")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up admin", zap.Error(err))
		return nil, err
	}

	if !CheckPasswordHash(password, a.PasswordHash) {
		log.Warn("password not match")
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Generate(a.AdminUser)
	if err != nil {
		log.Error("failed to generate jwt", zap.Error(err))
		return nil, err
	}

	log.Info("Login success", zap.String("admin_id", a.ID))
	return &Session{Token: token, User: a.AdminUser, ExpiresAt: exp}, nil
}

func (s *service) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	// the account may have been removed since the token was issued
	a, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return &Session{Token: token, User: a.AdminUser, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *service) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return err
	}
	s.tokens.Revoke(claims)

	logger.Op(ctx, "service", "Logout", zap.String("admin_id", claims.Subject)).Info("Logout success")
	return nil
}

func (s *service) EnsureAdmin(ctx context.Context, email, password string) error {
	log := logger.Op(ctx, "service", "EnsureAdmin", zap.String("email", email))

	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		log.Debug("admin already provisioned")
		return nil
	}
	if !errors.Is(err, ErrAdminNotFound) {
		return err
	}

	hashed, err := HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return err
	}

	if _, err := s.repo.Create(ctx, email, "Admin", hashed); err != nil && !errors.Is(err, ErrEmailExists) {
		log.Error("failed to create admin", zap.Error(err))
		return err
	}

	log.Info("admin provisioned")
	return nil
}
