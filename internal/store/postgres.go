package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gridquest/gridquest-backend/internal/engine"
)

// Game definition rows. Authoring/editing these is out of scope here; the
// loader only reads what the editor service wrote.
type Game struct {
	ID             string `gorm:"primaryKey"`
	Width          int
	Height         int
	TurnSec        int
	TransitionSec  int
	CombatRoundSec int
	Tiles          []GameTile      `gorm:"foreignKey:GameID"`
	Placeables     []GamePlaceable `gorm:"foreignKey:GameID"`
	StartPoints    []GameStart     `gorm:"foreignKey:GameID"`
}

type GameTile struct {
	ID     uint   `gorm:"primaryKey"`
	GameID string `gorm:"index"`
	X      int
	Y      int
	Kind   string
	Cost   int
	Open   bool
}

type GamePlaceable struct {
	ID     uint   `gorm:"primaryKey"`
	GameID string `gorm:"index"`
	X      int
	Y      int
	Kind   string
}

type GameStart struct {
	ID        uint   `gorm:"primaryKey"`
	GameID    string `gorm:"index"`
	PlayerID  string
	X         int
	Y         int
	Allowance int
	Team      string
}

// PostgresLoader reads game definitions through gorm (pgx underneath).
type PostgresLoader struct {
	db *gorm.DB
}

func OpenPostgres(dsn string) (*PostgresLoader, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &PostgresLoader{db: db}, nil
}

func NewPostgresLoader(db *gorm.DB) *PostgresLoader {
	return &PostgresLoader{db: db}
}

func (l *PostgresLoader) LoadDefinition(ctx context.Context, gameID string) (engine.Config, error) {
	var g Game
	err := l.db.WithContext(ctx).
		Preload("Tiles").
		Preload("Placeables").
		Preload("StartPoints").
		First(&g, "id = ?", gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.Config{}, fmt.Errorf("%w: %s", ErrDefinitionNotFound, gameID)
	}
	if err != nil {
		return engine.Config{}, fmt.Errorf("load definition %s: %w", gameID, err)
	}
	return buildConfig(g)
}

func buildConfig(g Game) (engine.Config, error) {
	if len(g.Tiles) != g.Width*g.Height {
		return engine.Config{}, fmt.Errorf("definition %s: %d tiles for %dx%d grid",
			g.ID, len(g.Tiles), g.Width, g.Height)
	}
	tiles := make([]engine.Tile, g.Width*g.Height)
	for _, t := range g.Tiles {
		if t.X < 0 || t.X >= g.Width || t.Y < 0 || t.Y >= g.Height {
			return engine.Config{}, fmt.Errorf("definition %s: tile (%d,%d) out of bounds", g.ID, t.X, t.Y)
		}
		tiles[t.Y*g.Width+t.X] = engine.Tile{
			Kind: engine.TileKind(t.Kind),
			Cost: t.Cost,
			Open: t.Open,
		}
	}
	placeables := make([]engine.Placeable, 0, len(g.Placeables))
	for _, p := range g.Placeables {
		placeables = append(placeables, engine.Placeable{
			Kind: engine.PlaceableKind(p.Kind),
			Pos:  engine.Coord{X: p.X, Y: p.Y},
		})
	}
	players := make([]engine.PlayerConfig, 0, len(g.StartPoints))
	for _, sp := range g.StartPoints {
		players = append(players, engine.PlayerConfig{
			ID:        sp.PlayerID,
			Start:     engine.Coord{X: sp.X, Y: sp.Y},
			Allowance: sp.Allowance,
			Team:      sp.Team,
		})
	}
	return engine.Config{
		Width:      g.Width,
		Height:     g.Height,
		Tiles:      tiles,
		Placeables: placeables,
		Players:    players,
		Rules: engine.Rules{
			TurnSec:        g.TurnSec,
			TransitionSec:  g.TransitionSec,
			CombatRoundSec: g.CombatRoundSec,
		},
	}, nil
}
