package repository

import (
	"context"

	"github.com/abarros/contact-sync/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contact, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Contact, error)
	Update(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ChangeEventRepository interface {
	Create(ctx context.Context, event *domain.ChangeEvent) error
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.ChangeEvent, error)
}

type Repositories struct {
	User        UserRepository
	Session     SessionRepository
	Contact     ContactRepository
	ChangeEvent ChangeEventRepository
}
