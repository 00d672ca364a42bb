package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridquest/gridquest-backend/internal/engine"
)

func TestMemoryLoader(t *testing.T) {
	l := NewMemoryLoader(DefaultDefinitions())

	cfg, err := l.LoadDefinition(context.Background(), "default")
	require.NoError(t, err)
	require.Equal(t, 8, cfg.Width)
	require.Len(t, cfg.Players, 2)

	_, err = l.LoadDefinition(context.Background(), "nope")
	require.ErrorIs(t, err, ErrDefinitionNotFound)
}

func TestDefaultDefinitionsBuildValidState(t *testing.T) {
	for id, cfg := range DefaultDefinitions() {
		s, err := engine.NewState(cfg)
		require.NoError(t, err, "definition %s", id)
		require.Equal(t, engine.PhaseWaiting, s.Phase)
		for _, pc := range cfg.Players {
			occ, ok := s.Board.OccupantAt(pc.Start.X, pc.Start.Y)
			require.True(t, ok)
			require.Equal(t, pc.ID, occ)
		}
	}
}

func TestBuildConfig(t *testing.T) {
	g := Game{
		ID: "g1", Width: 2, Height: 1,
		TurnSec: 20, TransitionSec: 2, CombatRoundSec: 4,
		Tiles: []GameTile{
			{GameID: "g1", X: 0, Y: 0, Kind: "ground", Cost: 1},
			{GameID: "g1", X: 1, Y: 0, Kind: "door", Cost: 1, Open: true},
		},
		Placeables: []GamePlaceable{
			{GameID: "g1", X: 1, Y: 0, Kind: "boat"},
		},
		StartPoints: []GameStart{
			{GameID: "g1", PlayerID: "p1", X: 0, Y: 0, Allowance: 3, Team: "red"},
		},
	}

	cfg, err := buildConfig(g)
	require.NoError(t, err)
	require.Equal(t, engine.TileDoor, cfg.Tiles[1].Kind)
	require.True(t, cfg.Tiles[1].Open)
	require.Equal(t, engine.PlaceableBoat, cfg.Placeables[0].Kind)
	require.Equal(t, "red", cfg.Players[0].Team)
	require.Equal(t, 20, cfg.Rules.TurnSec)

	g.Tiles = g.Tiles[:1]
	_, err = buildConfig(g)
	require.Error(t, err, "tile count must match grid size")

	g.Tiles = []GameTile{
		{GameID: "g1", X: 5, Y: 0, Kind: "ground", Cost: 1},
		{GameID: "g1", X: 1, Y: 0, Kind: "ground", Cost: 1},
	}
	_, err = buildConfig(g)
	require.Error(t, err, "out of bounds tile must be rejected")
}
