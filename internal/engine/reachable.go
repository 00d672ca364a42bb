package engine

// ReachableTile is an ephemeral computed value, recomputed after every
// successful move and at turn start. Never persisted.
type ReachableTile struct {
	X         int `json:"x"`
	Y         int `json:"y"`
	Cost      int `json:"cost"`
	Remaining int `json:"remaining"`
}

// ReachableTiles runs a budgeted frontier search from the player's current
// position and returns every tile reachable with the player's remaining
// points. Pure read over the board and player state.
//
// Finalization is in FIFO pop order, kept for compatibility with the
// original engine. With the only non-uniform cost being the water+boat
// discount (which equals the ground cost), FIFO matches level-order BFS; if
// cost classes ever diverge this should become a priority queue keyed on
// accumulated cost.
func ReachableTiles(b *Board, p *Player) []ReachableTile {
	type node struct {
		pos       Coord
		cost      int
		remaining int
	}

	start := p.Pos
	// On-boat status is captured once, from the departure tile; it is not
	// re-evaluated as the hypothetical path crosses further water or land.
	onBoat := b.HasBoatAt(start.X, start.Y)

	queue := []node{{pos: start, cost: 0, remaining: p.Points}}
	finalized := make(map[Coord]bool)
	out := []ReachableTile{}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if finalized[n.pos] {
			continue
		}
		finalized[n.pos] = true
		if n.pos != start {
			out = append(out, ReachableTile{
				X:         n.pos.X,
				Y:         n.pos.Y,
				Cost:      n.cost,
				Remaining: n.remaining,
			})
		}

		for _, dir := range Directions {
			nx, ny := Neighbor(n.pos.X, n.pos.Y, dir)
			next := Coord{X: nx, Y: ny}
			if finalized[next] {
				continue
			}
			tile, ok := b.TileAt(nx, ny)
			if !ok {
				continue
			}
			cost := stepCost(tile, onBoat)
			if cost == ImpassableCost {
				continue
			}
			if occ, taken := b.OccupantAt(nx, ny); taken && occ != p.ID {
				continue
			}
			if n.remaining-cost < 0 {
				continue
			}
			queue = append(queue, node{
				pos:       next,
				cost:      n.cost + cost,
				remaining: n.remaining - cost,
			})
		}
	}
	return out
}
