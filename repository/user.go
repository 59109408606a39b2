package repository

import (
	"context"

	"github.com/shahzaib1233/todo-app-phase-2/domain"
)

type UserRepository interface {
	// Create persists user and fills in its ID and timestamps. A taken email
	// yields domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
