// Package service holds the business rules between handlers and storage.
//
//	AuthHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
//
// The service never sees HTTP types. It returns apperror values and the
// handler decides status codes and body shapes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/message-board/internal/apperror"
	"github.com/sakif/message-board/internal/auth"
	"github.com/sakif/message-board/internal/model"
	"github.com/sakif/message-board/internal/repository"
)

// Client-facing texts for credential failures.
const (
	MsgEmptyFields   = "Empty JSON fields"
	MsgUserExists    = "User already Exists"
	MsgWrongUsername = "Wrong username"
	MsgWrongPassword = "Wrong password"
	MaxUsernameLen   = 64
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user and the freshly issued token so the handler can
// set the cookie and write the body in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account. It does not log the user in.
//
// The lookup up front skips a pointless bcrypt round for names that are
// obviously taken; the repository insert is still the authority, because two
// requests can pass the lookup at the same moment.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", MsgEmptyFields)
	}
	if len(username) > MaxUsernameLen {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLen))
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict(MsgUserExists)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: looking up %q: %w", username, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", err.Error())
		}
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{Username: username, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.Conflict(MsgUserExists)
		}
		return nil, fmt.Errorf("service/auth: creating user %q: %w", username, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies credentials and issues a session token.
//
// An unknown username always yields "Wrong username"; the password is only
// checked once a matching user row exists.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.AuthFailed(MsgWrongUsername)
		}
		return nil, fmt.Errorf("service/auth: looking up %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("login rejected", slog.String("username", username))
			return nil, apperror.AuthFailed(MsgWrongPassword)
		}
		return nil, fmt.Errorf("service/auth: verifying password for %q: %w", username, err)
	}

	token, err := s.tokens.Generate(model.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// CurrentUser loads the account behind a verified identity.
//
// Session checks never come here: RequireAuth trusts the token alone. This is
// only for GET /me, which wants the stored profile. A token whose user row is
// gone still authenticates, and this returns apperror.ErrNotFound for it.
func (s *AuthService) CurrentUser(ctx context.Context, id model.Identity) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %d: %w", id.UserID, err)
	}
	return user, nil
}
