package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	dom "Taskboard/internal/domain"
	"Taskboard/internal/repo"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("username and password required")
var ErrUsernameTaken = errors.New("username already taken")

// UserService handles user registration and lookup.
type UserService struct {
	repo repo.UserRepo
	cost int

	// regMu makes the username check and insert one step.
	regMu sync.Mutex
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo, cost: bcrypt.DefaultCost}
}

// Register creates a new user with a hashed password.
// The store accepts duplicate usernames, so uniqueness is checked here.
func (s *UserService) Register(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	s.regMu.Lock()
	defer s.regMu.Unlock()
	if _, taken, err := s.repo.GetUserByUsername(ctx, username); err != nil {
		return dom.User{}, err
	} else if taken {
		return dom.User{}, ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return dom.User{}, err
	}
	return s.repo.CreateUser(ctx, username, string(hash))
}

// GetByID returns the user or ErrNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (dom.User, error) {
	u, ok, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return dom.User{}, err
	}
	if !ok {
		return dom.User{}, ErrNotFound
	}
	return u, nil
}
