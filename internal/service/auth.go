// Package service — authentication business logic.
//
// AuthService sits between the HTTP handlers and the repositories / auth
// utilities:
//
//	AuthHandler (HTTP) → AuthService (rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
//
// Two ways into an account: local username + password, or GitHub OAuth.
// Both end the same way — an AuthResult the handler turns into an HttpOnly
// session cookie.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/lenb209/PhotoApp/internal/apperror"
	"github.com/lenb209/PhotoApp/internal/auth"
	"github.com/lenb209/PhotoApp/internal/model"
	"github.com/lenb209/PhotoApp/internal/repository"
)

const (
	MinPasswordLength = 6
	MaxUsernameLength = 30
)

// AuthService handles registration, login, and the OAuth callback.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

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

// AuthResult bundles the authenticated user and the issued JWT so the
// handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a local account and logs it in.
//
// Username and email uniqueness is enforced by the database constraints,
// not a check-then-insert here — two concurrent registrations of the same
// name race, and only the constraint settles that race correctly. The
// repository translates the violation to ErrConflict.
func (s *AuthService) Register(ctx context.Context, username, email, password, displayName string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or fewer", MaxUsernameLength))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.ValidationFailed("email", "a valid email address is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return s.issueSession(user)
}

// Login verifies a local account's credentials.
//
// A wrong username and a wrong password produce the same error message so
// the login form cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Unauthenticated("invalid username or password")
	}
	if user.PasswordHash == "" {
		// OAuth-only account; there is no password to check.
		return nil, apperror.Unauthenticated("invalid username or password")
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthenticated("invalid username or password")
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return s.issueSession(user)
}

// LoginOrRegisterGitHub handles the GitHub OAuth callback. The handler has
// already exchanged the code for a profile; this method maps the GitHub
// identity to an internal account, creating one on first login.
//
// GitHub's numeric ID is the stable key. Login names can change on GitHub,
// so a returning user is looked up by ID, never by name.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user, err := s.users.GetByGitHubID(ctx, ghUser.ID)
	if err == nil {
		s.logger.Info("user logged in via GitHub", slog.String("userID", user.ID))
		return s.issueSession(user)
	}

	// First login: create the account from the GitHub profile.
	displayName := ghUser.Name
	if displayName == "" {
		displayName = ghUser.Login
	}
	email := ghUser.Email
	if email == "" {
		// GitHub hides the email unless the user opted in. Synthesize a
		// unique placeholder; the profile can be updated later.
		email = fmt.Sprintf("github_%d@users.noreply.github.com", ghUser.ID)
	}

	user = &model.User{
		Username:     ghUser.Login,
		Email:        email,
		DisplayName:  displayName,
		ProfileImage: ghUser.AvatarURL,
		GitHubID:     ghUser.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The GitHub login may collide with an existing local username.
		// Retry once with a suffixed name before giving up.
		user.Username = fmt.Sprintf("%s_%d", ghUser.Login, ghUser.ID)
		if retryErr := s.users.Create(ctx, user); retryErr != nil {
			return nil, fmt.Errorf("service/auth: creating GitHub user: %w", retryErr)
		}
	}

	s.logger.Info("user registered via GitHub",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return s.issueSession(user)
}

// GetUserByID returns the full user record for a validated session. Used
// by the auth status endpoint after the middleware extracts the userID.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.Unauthenticated("authentication required")
	}
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) issueSession(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
