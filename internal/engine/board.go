package engine

// ImpassableCost is the sentinel cost class for tiles that can never be
// entered (walls, void). Closed doors are impassable too, but keep their
// real cost so opening them later needs no cost rewrite.
const ImpassableCost = -1

// WaterBoatCost is the reduced cost of entering water while on a boat.
const WaterBoatCost = 1

type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

type TileKind string

const (
	TileGround TileKind = "ground"
	TileWater  TileKind = "water"
	TileWall   TileKind = "wall"
	TileDoor   TileKind = "door"
)

type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Tile struct {
	Kind TileKind `json:"kind"`
	Cost int      `json:"cost"`
	Open bool     `json:"open,omitempty"` // doors only
}

type PlaceableKind string

const (
	PlaceableBoat PlaceableKind = "boat"
)

type Placeable struct {
	Kind PlaceableKind `json:"kind"`
	Pos  Coord         `json:"pos"`
}

// Board is the per-session map cache: an immutable tile/placeable snapshot
// built once at session start, plus the occupancy index, which is the only
// mutable part and is written exclusively by the movement code.
type Board struct {
	Width  int
	Height int

	tiles      []Tile
	placeables map[Coord][]Placeable
	occupants  map[Coord]string
}

func NewBoard(width, height int, tiles []Tile, placeables []Placeable) *Board {
	b := &Board{
		Width:      width,
		Height:     height,
		tiles:      tiles,
		placeables: make(map[Coord][]Placeable),
		occupants:  make(map[Coord]string),
	}
	for _, p := range placeables {
		b.placeables[p.Pos] = append(b.placeables[p.Pos], p)
	}
	return b
}

func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

func (b *Board) TileAt(x, y int) (Tile, bool) {
	if !b.InBounds(x, y) {
		return Tile{}, false
	}
	return b.tiles[y*b.Width+x], true
}

func (b *Board) PlaceablesAt(x, y int) []Placeable {
	return b.placeables[Coord{X: x, Y: y}]
}

func (b *Board) HasBoatAt(x, y int) bool {
	for _, p := range b.PlaceablesAt(x, y) {
		if p.Kind == PlaceableBoat {
			return true
		}
	}
	return false
}

// OccupantAt reports the in-game player standing on (x, y), if any.
func (b *Board) OccupantAt(x, y int) (string, bool) {
	id, ok := b.occupants[Coord{X: x, Y: y}]
	return id, ok
}

// SetOccupant writes the occupancy index without validation; legality is the
// movement code's job. An empty playerID clears the cell.
func (b *Board) SetOccupant(x, y int, playerID string) {
	c := Coord{X: x, Y: y}
	if playerID == "" {
		delete(b.occupants, c)
		return
	}
	b.occupants[c] = playerID
}

// Neighbor shifts a coordinate one cell in a cardinal direction. The result
// may be out of bounds; callers check.
func Neighbor(x, y int, dir Direction) (int, int) {
	switch dir {
	case DirUp:
		return x, y - 1
	case DirDown:
		return x, y + 1
	case DirLeft:
		return x - 1, y
	case DirRight:
		return x + 1, y
	}
	return x, y
}
