package user

import (
	"context"
	"log/slog"
	"strings"
)

type Repository interface {
	GetByID(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	SearchByEmail(ctx context.Context, fragment string) ([]*User, error)
	Create(ctx context.Context, u *User) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", userID)
		return nil, err
	}
	return u, nil
}

// SearchByEmail returns users whose email contains the fragment,
// case-insensitively. Fragments shorter than MinSearchFragment return an
// empty result without touching the directory.
func (s *Service) SearchByEmail(ctx context.Context, fragment string) ([]*User, error) {
	fragment = strings.TrimSpace(fragment)
	if len(fragment) < MinSearchFragment {
		return []*User{}, nil
	}

	users, err := s.repo.SearchByEmail(ctx, fragment)
	if err != nil {
		s.logger.Error("user search failed", "error", err, "fragment", fragment)
		return nil, err
	}

	return users, nil
}
