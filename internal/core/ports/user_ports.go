package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	SetPresence(ctx context.Context, id uuid.UUID, online bool, at time.Time) error
	List(ctx context.Context) ([]domain.User, error)
}

type CreateUserInput struct {
	Username string
	Password string
	Role     domain.Role
	SiteID   *int64
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	OnlineUsers(ctx context.Context, actor *domain.Actor) ([]domain.OnlineUser, error)
}
