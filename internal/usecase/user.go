package usecase

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)

type UserUseCase interface {
	Register(ctx context.Context, username string) (*entity.User, error)
	Get(ctx context.Context, username string) (*entity.User, error)
}

type userUseCase struct {
	repo userRepo
}

func NewUserUseCase(repo userRepo) UserUseCase {
	return &userUseCase{
		repo: repo,
	}
}

// Register returns the user, creating it on first sight.
func (that *userUseCase) Register(ctx context.Context, username string) (*entity.User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrInvalidUsername, username)
	}

	user, err := that.repo.Create(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to save user into storage: %w", err)
	}

	return user, nil
}

func (that *userUseCase) Get(ctx context.Context, username string) (*entity.User, error) {
	user, err := that.repo.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
