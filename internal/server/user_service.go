package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pratham/resumeats/internal/config"
	"github.com/pratham/resumeats/internal/db"
	"github.com/pratham/resumeats/internal/types"
)

// UserStore is the subset of database operations the user service needs.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (bool, error)
	GetUserByUsername(ctx context.Context, username string) (*db.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
}

// UserService provides business logic for account creation and verification.
type UserService struct {
	store          UserStore
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store UserStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		store:          store,
		passwordConfig: passwordConfig,
	}
}

// toAPIUser converts db.User to types.User, excluding the password hash
func toAPIUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:        dbUser.ID,
		Username:  dbUser.Username,
		Email:     dbUser.Email,
		CreatedAt: dbUser.CreatedAt,
	}
}

// Register creates a new user account. A taken username or email is a
// recoverable outcome surfaced as ErrUserAlreadyExists; storage faults
// propagate as errors.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.store.CreateUser(ctx, req.Username, req.Email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if !created {
		return nil, &ErrUserAlreadyExists{}
	}

	dbUser, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if dbUser == nil {
		return nil, fmt.Errorf("created user not found: %s", req.Username)
	}

	return toAPIUser(dbUser), nil
}

// Get returns the account for an authenticated user ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*types.User, error) {
	dbUser, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, fmt.Errorf("user not found: %s", id)
	}
	return toAPIUser(dbUser), nil
}

// Verify checks a username/password pair against the stored credential.
// Unknown username and wrong password both yield false; only storage faults
// are errors.
func (s *UserService) Verify(ctx context.Context, username, password string) (bool, error) {
	dbUser, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to get user by username: %w", err)
	}
	if dbUser == nil {
		return false, nil
	}
	return s.passwordConfig.VerifyPassword(password, dbUser.PasswordHash), nil
}

// Login authenticates a user and returns the account data.
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	// Security: same error whether the user is unknown or the password is wrong
	if dbUser == nil {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return toAPIUser(dbUser), nil
}
