package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

func TestCreateUserValidation(t *testing.T) {
	svc := NewUserService(newMemUsers(), time.Minute)
	ctx := context.Background()

	tests := []struct {
		name  string
		input ports.CreateUserInput
	}{
		{"empty username", ports.CreateUserInput{Username: " ", Password: "password1", Role: domain.RolePanelist}},
		{"short password", ports.CreateUserInput{Username: "a", Password: "short", Role: domain.RolePanelist}},
		{"unknown role", ports.CreateUserInput{Username: "a", Password: "password1", Role: "fiscal"}},
		{"operator without site", ports.CreateUserInput{Username: "a", Password: "password1", Role: domain.RoleOperator}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	user, err := svc.Create(ctx, ports.CreateUserInput{Username: "panel", Password: "password1", Role: domain.RolePanelist})
	require.NoError(t, err)
	assert.NotEqual(t, "password1", user.PasswordHash)
}

func TestOnlineUsersWindow(t *testing.T) {
	repo := newMemUsers()
	svc := NewUserService(repo, 5*time.Minute).(*UserService)
	now := time.Date(2025, 10, 26, 20, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	active, err := svc.Create(ctx, ports.CreateUserInput{Username: "active", Password: "password1", Role: domain.RolePanelist})
	require.NoError(t, err)
	stale, err := svc.Create(ctx, ports.CreateUserInput{Username: "stale", Password: "password1", Role: domain.RolePanelist})
	require.NoError(t, err)
	gone, err := svc.Create(ctx, ports.CreateUserInput{Username: "gone", Password: "password1", Role: domain.RolePanelist})
	require.NoError(t, err)

	require.NoError(t, repo.SetPresence(ctx, active.ID, true, now.Add(-time.Minute)))
	require.NoError(t, repo.SetPresence(ctx, stale.ID, true, now.Add(-time.Hour)))
	require.NoError(t, repo.SetPresence(ctx, gone.ID, false, now))

	list, err := svc.OnlineUsers(ctx, panelist())
	require.NoError(t, err)

	online := map[string]bool{}
	for _, u := range list {
		online[u.Username] = u.Online
	}
	assert.Equal(t, map[string]bool{"active": true, "stale": false, "gone": false}, online)

	_, err = svc.OnlineUsers(ctx, operator(siteNorth))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
