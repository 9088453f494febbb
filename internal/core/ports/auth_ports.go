package ports

import (
	"context"

	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
)

type AuthRepository interface {
	StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string) error
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, actor *domain.Actor, refreshToken string) error
	// Authenticate turns an access token into the actor it was issued to.
	Authenticate(ctx context.Context, accessToken string) (*domain.Actor, error)
}
