package models

import (
	"time"

	"github.com/google/uuid"
)

// SignalEvent представляет запись истории статусов сигнала
type SignalEvent struct {
	ID         int64         `json:"id"`
	SignalID   uuid.UUID     `json:"signal_id"`
	FromStatus *SignalStatus `json:"from_status,omitempty"` // nil для события создания
	ToStatus   SignalStatus  `json:"to_status"`
	TeamID     *uuid.UUID    `json:"team_id,omitempty"`
	Notes      *string       `json:"notes,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}
