package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOperator Role = "operador"
	RolePanelist Role = "panelista"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Capability is a single permission checked by the services.
type Capability int

const (
	CapSubmitVotes Capability = iota + 1
	CapReadStation
	CapReadBallot
	CapViewResults
	CapViewPresence
)

var roleCapabilities = map[Role][]Capability{
	RoleOperator: {CapSubmitVotes, CapReadStation, CapReadBallot},
	RolePanelist: {CapReadBallot, CapViewResults, CapViewPresence},
	RoleAdmin:    {CapReadBallot, CapViewResults, CapViewPresence},
}

func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}

type User struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	SiteID       *int64     `json:"escuela_id,omitempty"`
	Online       bool       `json:"online"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID   uuid.UUID
	Username string
	Role     Role
	SiteID   *int64
}

func ActorFromUser(u *User) *Actor {
	return &Actor{UserID: u.ID, Username: u.Username, Role: u.Role, SiteID: u.SiteID}
}

// Require fails with ErrUnauthorized unless the actor holds c.
func (a *Actor) Require(c Capability) error {
	if a == nil || a.UserID == uuid.Nil || !a.Role.Can(c) {
		return ErrUnauthorized
	}
	return nil
}

// OnlineUser is a presence row for the panel.
type OnlineUser struct {
	Username   string     `json:"username"`
	Role       Role       `json:"role"`
	Online     bool       `json:"online"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// RefreshToken is stored hashed; the raw value only lives in the cookie.
type RefreshToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}
