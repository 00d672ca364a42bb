package types

import (
	"github.com/gridquest/gridquest-backend/internal/session"
)

type ClientMessage struct {
	Type       string `json:"type"`
	PlayerID   string `json:"player_id,omitempty"`
	Direction  string `json:"direction,omitempty"`
	AttackerID string `json:"attacker_id,omitempty"`
	DefenderID string `json:"defender_id,omitempty"`
	WinnerID   string `json:"winner_id,omitempty"`
}

type ServerMessage struct {
	Type    string            `json:"type"` // "Event" | "StateSnapshot" | "Error"
	Payload *session.Outbound `json:"payload,omitempty"`
	Error   string            `json:"error,omitempty"`
}
