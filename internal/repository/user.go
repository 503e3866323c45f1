package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/boardgames-backend/internal/apperror"
	"github.com/rocketscienceinc/boardgames-backend/internal/entity"
)

type UserRepository interface {
	// Create registers username if it is new and returns the stored record either way.
	Create(ctx context.Context, username string) (*entity.User, error)
	Get(ctx context.Context, username string) (*entity.User, error)
	UpdateStats(ctx context.Context, username, outcome string) error
}

type userRepository struct {
	conn *sql.DB
	now  func() time.Time
}

func NewUserRepository(conn *sql.DB, now func() time.Time) UserRepository {
	return &userRepository{
		conn: conn,
		now:  now,
	}
}

func (that *userRepository) Create(ctx context.Context, username string) (*entity.User, error) {
	query := `INSERT OR IGNORE INTO users (username, created_at) VALUES (?, ?)`

	if _, err := that.conn.ExecContext(ctx, query, username, that.now().UTC()); err != nil {
		return nil, fmt.Errorf("can't save user: %w", err)
	}

	return that.Get(ctx, username)
}

func (that *userRepository) Get(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT username, wins, losses, draws, created_at FROM users WHERE username = ?`

	var user entity.User

	err := that.conn.QueryRowContext(ctx, query, username).
		Scan(&user.Username, &user.Wins, &user.Losses, &user.Draws, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("can't find user: %w", err)
	}

	return &user, nil
}

func (that *userRepository) UpdateStats(ctx context.Context, username, outcome string) error {
	var query string
	switch outcome {
	case entity.OutcomeWin:
		query = `UPDATE users SET wins = wins + 1 WHERE username = ?`
	case entity.OutcomeLoss:
		query = `UPDATE users SET losses = losses + 1 WHERE username = ?`
	case entity.OutcomeDraw:
		query = `UPDATE users SET draws = draws + 1 WHERE username = ?`
	default:
		return fmt.Errorf("unknown outcome %q", outcome)
	}

	result, err := that.conn.ExecContext(ctx, query, username)
	if err != nil {
		return fmt.Errorf("can't update stats: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't update stats: %w", err)
	}

	if affected == 0 {
		return apperror.ErrUserNotFound
	}

	return nil
}
