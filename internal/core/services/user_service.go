package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo         ports.UserRepository
	onlineWindow time.Duration
	now          func() time.Time
}

func NewUserService(repo ports.UserRepository, onlineWindow time.Duration) ports.UserService {
	return &UserService{
		repo:         repo,
		onlineWindow: onlineWindow,
		now:          time.Now,
	}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must have at least 8 characters", domain.ErrValidation)
	}
	if !input.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, input.Role)
	}
	if input.Role == domain.RoleOperator && input.SiteID == nil {
		return nil, fmt.Errorf("%w: operators need an assigned site", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password too long", domain.ErrValidation)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         input.Role,
		SiteID:       input.SiteID,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// OnlineUsers lists every user with an online flag. A user counts as online
// after logging in, until logging out or going quiet for the online window.
func (s *UserService) OnlineUsers(ctx context.Context, actor *domain.Actor) ([]domain.OnlineUser, error) {
	if err := actor.Require(domain.CapViewPresence); err != nil {
		return nil, err
	}

	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	cutoff := s.now().Add(-s.onlineWindow)
	result := make([]domain.OnlineUser, 0, len(users))
	for _, u := range users {
		online := u.Online && u.LastSeenAt != nil && u.LastSeenAt.After(cutoff)
		result = append(result, domain.OnlineUser{
			Username:   u.Username,
			Role:       u.Role,
			Online:     online,
			LastSeenAt: u.LastSeenAt,
		})
	}
	return result, nil
}
