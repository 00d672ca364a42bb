package engine

import "fmt"

const (
	DefaultTurnSec        = 30
	DefaultTransitionSec  = 3
	DefaultCombatRoundSec = 5
)

type PlayerConfig struct {
	ID        string
	Start     Coord
	Allowance int
	Team      string
}

// Config is the session creation payload delivered by collaborators: the map
// snapshot, the roster with start points, and the timing rules.
type Config struct {
	Width      int
	Height     int
	Tiles      []Tile
	Placeables []Placeable
	Players    []PlayerConfig
	TurnOrder  []string // defaults to Players order
	Rules      Rules
	WinCheck   WinCheck
}

// NewState builds a primed session: board cached, occupancy seeded from
// start points, lifecycle waiting for an explicit start.
func NewState(cfg Config) (*State, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: bad dimensions %dx%d", ErrIllegalState, cfg.Width, cfg.Height)
	}
	if len(cfg.Tiles) != cfg.Width*cfg.Height {
		return nil, fmt.Errorf("%w: %d tiles for %dx%d grid", ErrIllegalState, len(cfg.Tiles), cfg.Width, cfg.Height)
	}

	board := NewBoard(cfg.Width, cfg.Height, cfg.Tiles, cfg.Placeables)
	players := make(map[string]*Player, len(cfg.Players))
	order := cfg.TurnOrder
	if order == nil {
		order = make([]string, 0, len(cfg.Players))
	}
	for _, pc := range cfg.Players {
		if !board.InBounds(pc.Start.X, pc.Start.Y) {
			return nil, fmt.Errorf("%w: start point %v out of bounds", ErrIllegalState, pc.Start)
		}
		if occ, taken := board.OccupantAt(pc.Start.X, pc.Start.Y); taken {
			return nil, fmt.Errorf("%w: start point %v already held by %s", ErrIllegalState, pc.Start, occ)
		}
		players[pc.ID] = &Player{
			ID:        pc.ID,
			Pos:       pc.Start,
			Allowance: pc.Allowance,
			Team:      pc.Team,
			InGame:    true,
		}
		board.SetOccupant(pc.Start.X, pc.Start.Y, pc.ID)
		if cfg.TurnOrder == nil {
			order = append(order, pc.ID)
		}
	}

	rules := cfg.Rules
	if rules.TurnSec == 0 {
		rules.TurnSec = DefaultTurnSec
	}
	if rules.TransitionSec == 0 {
		rules.TransitionSec = DefaultTransitionSec
	}
	if rules.CombatRoundSec == 0 {
		rules.CombatRoundSec = DefaultCombatRoundSec
	}

	return &State{
		Phase:     PhaseWaiting,
		Board:     board,
		Players:   players,
		TurnOrder: order,
		Rules:     rules,
		WinCheck:  cfg.WinCheck,
	}, nil
}

// View is a JSON-safe copy of session state handed to joining clients.
type View struct {
	Phase          Phase    `json:"phase"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	Players        []Player `json:"players"`
	TurnOrder      []string `json:"turn_order"`
	ActivePlayerID string   `json:"active_player_id,omitempty"`
	TurnNumber     int      `json:"turn_number"`
	CombatActive   bool     `json:"combat_active"`
}

func (s *State) View() View {
	v := View{
		Phase:          s.Phase,
		Width:          s.Board.Width,
		Height:         s.Board.Height,
		TurnOrder:      append([]string(nil), s.TurnOrder...),
		ActivePlayerID: s.ActivePlayerID,
		TurnNumber:     s.TurnNumber,
		CombatActive:   s.Combat != nil,
	}
	for _, id := range s.TurnOrder {
		if p, ok := s.Players[id]; ok {
			v.Players = append(v.Players, *p)
		}
	}
	return v
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
