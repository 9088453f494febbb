package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthService struct {
	userRepo ports.UserRepository
	authRepo ports.AuthRepository
	audit    ports.AuditLogger
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthService(userRepo ports.UserRepository, authRepo ports.AuthRepository, audit ports.AuditLogger, cfg AuthConfig) *AuthService {
	if len(cfg.Secret) == 0 {
		slog.Warn("JWT secret not set")
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 12 * time.Hour
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		userRepo: userRepo,
		authRepo: authRepo,
		audit:    audit,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidLogin
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	rtEntity := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: s.hashToken(refreshToken),
		ExpiresAt: s.now().Add(s.cfg.RefreshTTL),
	}
	if err := s.authRepo.StoreRefreshToken(ctx, rtEntity); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	if err := s.userRepo.SetPresence(ctx, user.ID, true, s.now()); err != nil {
		slog.WarnContext(ctx, "failed to update last_seen on login", "usuario", user.Username, "error", err)
	}
	s.audit.Record(ctx, domain.NewAuditEvent(domain.AuditLogin, domain.ActorFromUser(user), 0))

	return &ports.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, s.hashToken(refreshToken))
	if err != nil {
		return "", fmt.Errorf("failed to get refresh token: %w", err)
	}
	if rtEntity == nil || rtEntity.Revoked || rtEntity.ExpiresAt.Before(s.now()) {
		return "", domain.ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, rtEntity.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", domain.ErrUnauthenticated
	}

	if err := s.userRepo.SetPresence(ctx, user.ID, true, s.now()); err != nil {
		slog.WarnContext(ctx, "failed to update last_seen on refresh", "usuario", user.Username, "error", err)
	}

	return s.generateAccessToken(user)
}

func (s *AuthService) Logout(ctx context.Context, actor *domain.Actor, refreshToken string) error {
	if refreshToken != "" {
		rtEntity, err := s.authRepo.GetRefreshTokenByHash(ctx, s.hashToken(refreshToken))
		if err != nil {
			return fmt.Errorf("failed to get refresh token: %w", err)
		}
		if rtEntity != nil {
			if err := s.authRepo.RevokeRefreshToken(ctx, rtEntity.ID.String()); err != nil {
				return fmt.Errorf("failed to revoke refresh token: %w", err)
			}
		}
	}

	if actor == nil {
		return nil
	}
	if err := s.userRepo.SetPresence(ctx, actor.UserID, false, s.now()); err != nil {
		slog.WarnContext(ctx, "failed to update last_seen on logout", "usuario", actor.Username, "error", err)
	}
	s.audit.Record(ctx, domain.NewAuditEvent(domain.AuditLogout, actor, 0))
	return nil
}

func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Actor, error) {
	token, err := jwt.Parse(accessToken, func(t *jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthenticated
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return domain.ActorFromUser(user), nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"exp":  now.Add(s.cfg.AccessTTL).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.Secret)
}

func (s *AuthService) generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (s *AuthService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

var _ ports.AuthService = (*AuthService)(nil)
