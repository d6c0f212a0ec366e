package repo

import (
	"context"
	"errors"
	"fmt"

	dom "Taskboard/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepo provides user persistence.
// CreateUser does not enforce username uniqueness; callers that need it
// check GetUserByUsername first.
type UserRepo interface {
	GetUser(ctx context.Context, id string) (dom.User, bool, error)
	GetUserByUsername(ctx context.Context, username string) (dom.User, bool, error)
	CreateUser(ctx context.Context, username, password string) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetUser returns the user by id.
func (r *PGUserRepo) GetUser(ctx context.Context, id string) (dom.User, bool, error) {
	return r.queryOne(ctx, `SELECT id, username, password FROM users WHERE id = $1`, id)
}

// GetUserByUsername returns the earliest inserted user with username.
func (r *PGUserRepo) GetUserByUsername(ctx context.Context, username string) (dom.User, bool, error) {
	return r.queryOne(ctx,
		`SELECT id, username, password FROM users WHERE username = $1 ORDER BY seq ASC LIMIT 1`,
		username,
	)
}

// CreateUser inserts a new user and returns it.
func (r *PGUserRepo) CreateUser(ctx context.Context, username, password string) (dom.User, error) {
	query := `
		INSERT INTO users (id, username, password)
		VALUES ($1, $2, $3)
		RETURNING id, username, password`
	var u dom.User
	err := r.db.QueryRow(ctx, query, uuid.NewString(), username, password).Scan(
		&u.ID, &u.Username, &u.Password,
	)
	if err != nil {
		return dom.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *PGUserRepo) queryOne(ctx context.Context, query string, arg string) (dom.User, bool, error) {
	var u dom.User
	err := r.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Username, &u.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, false, nil
	}
	if err != nil {
		return dom.User{}, false, fmt.Errorf("get user: %w", err)
	}
	return u, true, nil
}
