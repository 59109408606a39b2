package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/shahzaib1233/todo-app-phase-2/domain"
	"github.com/shahzaib1233/todo-app-phase-2/repository"
	"github.com/shahzaib1233/todo-app-phase-2/usecase"
)

// TokenTypeBearer is the token_type reported alongside every access token.
const TokenTypeBearer = "bearer"

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// AccessToken is the result of a successful sign-in.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UseCase struct {
	users  repository.UserRepository
	hasher usecase.PasswordHasher
	tokens usecase.TokenIssuer
	logger *zap.Logger
}

func New(users repository.UserRepository, hasher usecase.PasswordHasher, tokens usecase.TokenIssuer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Signup registers a new user. Emails are unique across all users.
func (uc *UseCase) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	existing, err := uc.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrEmailTaken
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, domain.WrapError(domain.ErrCodeInternal, "lookup user", err)
	}

	hashed, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "hash password", err)
	}

	user := &domain.User{
		Name:           in.Name,
		Email:          in.Email,
		HashedPassword: hashed,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "create user", err)
	}

	uc.logger.Info("user signed up", zap.Int64("user_id", user.ID))
	return user, nil
}

// Signin checks credentials and issues an access token whose subject is the user id.
func (uc *UseCase) Signin(ctx context.Context, email, password string) (*AccessToken, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "lookup user", err)
	}

	if !uc.hasher.Verify(password, user.HashedPassword) {
		uc.logger.Info("rejected sign-in", zap.Int64("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}

	signed, err := uc.tokens.Issue(user.Subject())
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "issue token", err)
	}

	return &AccessToken{AccessToken: signed, TokenType: TokenTypeBearer}, nil
}
