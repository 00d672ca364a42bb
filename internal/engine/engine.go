package engine

import (
	"errors"
)

var ErrNotFound = errors.New("not found")
var ErrInvalidMove = errors.New("invalid move")
var ErrOccupied = errors.New("tile occupied")
var ErrForbidden = errors.New("not your turn")
var ErrIllegalState = errors.New("illegal state")
var ErrUnsupportedCommand = errors.New("unsupported command")
var ErrGameOver = errors.New("game already over")

type Phase string

const (
	PhaseWaiting    Phase = "waiting"
	PhaseTurnActive Phase = "turn_active"
	PhaseTransition Phase = "turn_transition"
	PhaseGameOver   Phase = "game_over"
)

type Player struct {
	ID        string `json:"id"`
	Pos       Coord  `json:"pos"`
	Points    int    `json:"points"`
	Allowance int    `json:"allowance"`
	Team      string `json:"team,omitempty"`
	InGame    bool   `json:"in_game"`
}

// Combat tracks the two engaged players while a combat sub-phase runs.
type Combat struct {
	AttackerID string `json:"attacker_id"`
	DefenderID string `json:"defender_id"`
}

func (c Combat) involves(playerID string) bool {
	return c.AttackerID == playerID || c.DefenderID == playerID
}

type Rules struct {
	TurnSec        int `json:"turn_sec"`
	TransitionSec  int `json:"transition_sec"`
	CombatRoundSec int `json:"combat_round_sec"`
}

// WinCheck decides whether the game is over at a turn boundary. Returning
// true ends the game; winnerID may be empty for a draw/no-winner outcome.
type WinCheck func(s *State) (over bool, winnerID string)

type State struct {
	Phase          Phase
	Board          *Board
	Players        map[string]*Player
	TurnOrder      []string
	TurnIndex      int
	ActivePlayerID string
	TurnNumber     int
	Combat         *Combat
	Rules          Rules
	WinCheck       WinCheck
}

type CommandType string

const (
	CmdStartGame      CommandType = "StartGame"
	CmdMove           CommandType = "Move"
	CmdEndTurn        CommandType = "EndTurn"
	CmdTurnTimeout    CommandType = "TurnTimeout"
	CmdTransitionDone CommandType = "TransitionDone"
	CmdStartCombat    CommandType = "StartCombat"
	CmdEndCombat      CommandType = "EndCombat"
	CmdLeaveGame      CommandType = "LeaveGame"
	CmdForceGameOver  CommandType = "ForceGameOver"
)

type Command struct {
	Type       CommandType
	PlayerID   string
	Direction  Direction
	AttackerID string
	DefenderID string
	WinnerID   string
}

type EventType string

const (
	EvtPlayerMoved       EventType = "player.moved"
	EvtReachableTiles    EventType = "player.reachableTiles"
	EvtTurnStarted       EventType = "turn.started"
	EvtTurnChanged       EventType = "turn.changed"
	EvtTransitionStarted EventType = "turn.transition" // session-internal: arms the transition timer
	EvtGameOver          EventType = "turn.gameOver"
	EvtCombatStarted     EventType = "combat.started"
	EvtCombatEnded       EventType = "combat.ended"
	EvtCombatRoundReset  EventType = "combat.roundReset"
)

// Event payloads are flat; which fields are meaningful depends on Type.
// Zero is a legal coordinate and a legal points balance, so the positional
// fields are never omitted.
type Event struct {
	Type            EventType       `json:"type"`
	PlayerID        string          `json:"player_id,omitempty"`
	X               int             `json:"x"`
	Y               int             `json:"y"`
	RemainingPoints int             `json:"remaining_points"`
	Tiles           []ReachableTile `json:"tiles,omitempty"`
	ActivePlayerID  string          `json:"active_player_id,omitempty"`
	TurnNumber      int             `json:"turn_number,omitempty"`
	WinnerID        string          `json:"winner_id,omitempty"`
	AttackerID      string          `json:"attacker_id,omitempty"`
	DefenderID      string          `json:"defender_id,omitempty"`
	Resumed         bool            `json:"resumed,omitempty"`
}

// Apply runs one command against the session state. Either the command fully
// commits (state mutated, events returned) or nothing changes and an error
// describes the rejection. Timer expiries arrive here as commands too, so the
// whole turn lifecycle is driven through this single entry point.
func Apply(s *State, cmd Command) ([]Event, error) {
	if s.Phase == PhaseGameOver {
		// Late timer callbacks for a finished game are stale, not bugs.
		if cmd.Type == CmdTurnTimeout || cmd.Type == CmdTransitionDone {
			return nil, nil
		}
		return nil, ErrGameOver
	}

	switch cmd.Type {
	case CmdStartGame:
		return startGame(s)
	case CmdMove:
		return moveOneStep(s, cmd.PlayerID, cmd.Direction)
	case CmdEndTurn:
		return endTurnRequest(s, cmd.PlayerID)
	case CmdTurnTimeout:
		if s.Phase != PhaseTurnActive || s.Combat != nil {
			return nil, nil // stale expiry
		}
		return advanceTurn(s), nil
	case CmdTransitionDone:
		if s.Phase != PhaseTransition {
			return nil, nil // stale expiry
		}
		return finishTransition(s), nil
	case CmdStartCombat:
		return startCombat(s, cmd.AttackerID, cmd.DefenderID)
	case CmdEndCombat:
		return endCombat(s, cmd.WinnerID)
	case CmdLeaveGame:
		return leaveGame(s, cmd.PlayerID)
	case CmdForceGameOver:
		return forceGameOver(s, cmd.WinnerID), nil
	default:
		return nil, ErrUnsupportedCommand
	}
}
