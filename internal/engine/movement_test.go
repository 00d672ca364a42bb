package engine

import (
	"errors"
	"testing"
)

// startedState builds a session mid-turn with p1 active.
func startedState(t *testing.T, cfg Config) *State {
	t.Helper()
	s := mustState(t, cfg)
	if _, err := Apply(s, Command{Type: CmdStartGame}); err != nil {
		t.Fatalf("start game: %v", err)
	}
	return s
}

func TestMove_Rejections(t *testing.T) {
	tiles := uniformTiles(3, 3, 1)
	tiles[1*3+0] = Tile{Kind: TileWall, Cost: ImpassableCost}  // (0,1)
	tiles[0*3+1] = Tile{Kind: TileDoor, Cost: 1, Open: false}  // (1,0)
	tiles[2*3+2] = Tile{Kind: TileWater, Cost: 5}              // (2,2)

	cases := []struct {
		name    string
		player  string
		dir     Direction
		wantErr error
	}{
		{name: "off grid is NotFound", player: "p1", dir: DirUp, wantErr: ErrNotFound},
		{name: "impassable tile", player: "p1", dir: DirDown, wantErr: ErrInvalidMove},
		{name: "closed door", player: "p1", dir: DirRight, wantErr: ErrInvalidMove},
		{name: "unknown player", player: "ghost", dir: DirDown, wantErr: ErrNotFound},
		{name: "non-active player", player: "p2", dir: DirLeft, wantErr: ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := startedState(t, Config{
				Width: 3, Height: 3,
				Tiles: tiles,
				Players: []PlayerConfig{
					{ID: "p1", Start: Coord{0, 0}, Allowance: 3},
					{ID: "p2", Start: Coord{2, 0}, Allowance: 3},
				},
			})
			_, err := Apply(s, Command{Type: CmdMove, PlayerID: tc.player, Direction: tc.dir})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("want %v, got %v", tc.wantErr, err)
			}
			// Rejected moves must leave state untouched.
			if p := s.Players["p1"]; p.Pos != (Coord{0, 0}) || p.Points != 3 {
				t.Fatalf("state mutated on rejection: %+v", p)
			}
		})
	}
}

func TestMove_InsufficientPoints(t *testing.T) {
	tiles := uniformTiles(2, 1, 1)
	tiles[1] = Tile{Kind: TileWater, Cost: 5}
	s := startedState(t, Config{
		Width: 2, Height: 1,
		Tiles:   tiles,
		Players: []PlayerConfig{{ID: "p1", Start: Coord{0, 0}, Allowance: 3}},
	})
	_, err := Apply(s, Command{Type: CmdMove, PlayerID: "p1", Direction: DirRight})
	if !errors.Is(err, ErrInvalidMove) {
		t.Fatalf("want ErrInvalidMove, got %v", err)
	}
}

func TestMove_OccupiedDestination(t *testing.T) {
	s := startedState(t, Config{
		Width: 2, Height: 1,
		Tiles: uniformTiles(2, 1, 1),
		Players: []PlayerConfig{
			{ID: "p1", Start: Coord{0, 0}, Allowance: 3},
			{ID: "p2", Start: Coord{1, 0}, Allowance: 3},
		},
	})
	_, err := Apply(s, Command{Type: CmdMove, PlayerID: "p1", Direction: DirRight})
	if !errors.Is(err, ErrOccupied) {
		t.Fatalf("want ErrOccupied, got %v", err)
	}
}

func TestMove_CommitsEverythingAtOnce(t *testing.T) {
	s := startedState(t, Config{
		Width: 3, Height: 1,
		Tiles:   uniformTiles(3, 1, 1),
		Players: []PlayerConfig{{ID: "p1", Start: Coord{0, 0}, Allowance: 2}},
	})

	events, err := Apply(s, Command{Type: CmdMove, PlayerID: "p1", Direction: DirRight})
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}

	p := s.Players["p1"]
	if p.Pos != (Coord{1, 0}) || p.Points != 1 {
		t.Fatalf("position/points not committed: %+v", p)
	}
	if occ, ok := s.Board.OccupantAt(1, 0); !ok || occ != "p1" {
		t.Fatalf("occupancy not moved to destination")
	}
	if _, ok := s.Board.OccupantAt(0, 0); ok {
		t.Fatalf("old occupancy not cleared")
	}

	if !ContainsEvent(events, EvtPlayerMoved) || !ContainsEvent(events, EvtReachableTiles) {
		t.Fatalf("expected moved + reachable events, got %v", events)
	}
	for _, ev := range events {
		if ev.Type == EvtPlayerMoved && (ev.X != 1 || ev.Y != 0 || ev.RemainingPoints != 1) {
			t.Fatalf("bad moved payload: %+v", ev)
		}
	}
}

func TestMove_ZeroPointsPublishesEmptyReachable(t *testing.T) {
	s := startedState(t, Config{
		Width: 2, Height: 1,
		Tiles:   uniformTiles(2, 1, 1),
		Players: []PlayerConfig{{ID: "p1", Start: Coord{0, 0}, Allowance: 1}},
	})

	events, err := Apply(s, Command{Type: CmdMove, PlayerID: "p1", Direction: DirRight})
	if err != nil {
		t.Fatalf("unexpected err %v", err)
	}
	if s.Players["p1"].Points != 0 {
		t.Fatalf("expected 0 points, got %d", s.Players["p1"].Points)
	}
	for _, ev := range events {
		if ev.Type == EvtReachableTiles && len(ev.Tiles) != 0 {
			t.Fatalf("expected empty reachable set, got %v", ev.Tiles)
		}
	}
}

func TestMove_PointsNeverNegative(t *testing.T) {
	s := startedState(t, Config{
		Width: 5, Height: 1,
		Tiles:   uniformTiles(5, 1, 1),
		Players: []PlayerConfig{{ID: "p1", Start: Coord{0, 0}, Allowance: 2}},
	})
	for i := 0; i < 4; i++ {
		_, _ = Apply(s, Command{Type: CmdMove, PlayerID: "p1", Direction: DirRight})
		if pts := s.Players["p1"].Points; pts < 0 {
			t.Fatalf("points went negative: %d", pts)
		}
	}
	if s.Players["p1"].Pos != (Coord{2, 0}) {
		t.Fatalf("player should stall at (2,0) with 0 points, got %v", s.Players["p1"].Pos)
	}
}
