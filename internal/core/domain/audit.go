package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditStationTallied  AuditAction = "MESA_TALLIED"
	AuditStationEdited   AuditAction = "MESA_EDITED"
	AuditStationRejected AuditAction = "MESA_REJECTED"
	AuditLogin           AuditAction = "LOGIN"
	AuditLogout          AuditAction = "LOGOUT"
)

type AuditEvent struct {
	ID            uuid.UUID   `json:"id"`
	Action        AuditAction `json:"action"`
	Username      string      `json:"usuario"`
	StationNumber int         `json:"mesa_id,omitempty"`
	Detail        string      `json:"detail,omitempty"`
	OccurredAt    time.Time   `json:"occurred_at"`
}

func NewAuditEvent(action AuditAction, actor *Actor, station int) AuditEvent {
	username := "anon"
	if actor != nil {
		username = actor.Username
	}
	return AuditEvent{
		ID:            uuid.New(),
		Action:        action,
		Username:      username,
		StationNumber: station,
		OccurredAt:    time.Now().UTC(),
	}
}
