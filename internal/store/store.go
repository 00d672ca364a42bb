// Package store loads immutable game definitions (map snapshot, roster,
// timing rules) for session creation. The engine never talks to the store;
// the HTTP layer loads a definition and hands the built state to the hub.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridquest/gridquest-backend/internal/engine"
)

var ErrDefinitionNotFound = errors.New("game definition not found")

// Loader resolves a game id into a session creation payload. Implementations
// must return definitions that are safe to use concurrently (the engine
// copies what it keeps).
type Loader interface {
	LoadDefinition(ctx context.Context, gameID string) (engine.Config, error)
}

// MemoryLoader serves fixed definitions from memory; the default when no
// database is configured, and the fixture source in tests.
type MemoryLoader struct {
	defs map[string]engine.Config
}

func NewMemoryLoader(defs map[string]engine.Config) *MemoryLoader {
	return &MemoryLoader{defs: defs}
}

func (m *MemoryLoader) LoadDefinition(_ context.Context, gameID string) (engine.Config, error) {
	def, ok := m.defs[gameID]
	if !ok {
		return engine.Config{}, fmt.Errorf("%w: %s", ErrDefinitionNotFound, gameID)
	}
	return def, nil
}

// DefaultDefinitions is the built-in fixture set: a small open field with a
// river crossable by boat. Enough to exercise every tile rule without a
// database.
func DefaultDefinitions() map[string]engine.Config {
	const w, h = 8, 6
	tiles := make([]engine.Tile, w*h)
	for i := range tiles {
		tiles[i] = engine.Tile{Kind: engine.TileGround, Cost: 1}
	}
	at := func(x, y int) *engine.Tile { return &tiles[y*w+x] }
	for y := 0; y < h; y++ {
		*at(4, y) = engine.Tile{Kind: engine.TileWater, Cost: 2}
	}
	*at(4, 2) = engine.Tile{Kind: engine.TileDoor, Cost: 1, Open: true}
	*at(0, 3) = engine.Tile{Kind: engine.TileWall, Cost: engine.ImpassableCost}

	return map[string]engine.Config{
		"default": {
			Width:  w,
			Height: h,
			Tiles:  tiles,
			Placeables: []engine.Placeable{
				{Kind: engine.PlaceableBoat, Pos: engine.Coord{X: 3, Y: 4}},
			},
			Players: []engine.PlayerConfig{
				{ID: "p1", Start: engine.Coord{X: 0, Y: 0}, Allowance: 4},
				{ID: "p2", Start: engine.Coord{X: 7, Y: 5}, Allowance: 4},
			},
		},
	}
}
