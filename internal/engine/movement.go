package engine

// stepCost is the cost of entering tile, or ImpassableCost if it cannot be
// entered. The boat discount applies to water only; onBoat is captured once
// from the departure tile, not re-derived mid-path.
func stepCost(tile Tile, onBoat bool) int {
	if tile.Kind == TileDoor && !tile.Open {
		return ImpassableCost
	}
	if tile.Cost == ImpassableCost {
		return ImpassableCost
	}
	if tile.Kind == TileWater && onBoat {
		return WaterBoatCost
	}
	return tile.Cost
}

// moveOneStep validates and commits a single cardinal step for the active
// player. Validation happens up front so a rejected move leaves position,
// points and occupancy untouched.
func moveOneStep(s *State, playerID string, dir Direction) ([]Event, error) {
	if s.Phase != PhaseTurnActive {
		return nil, ErrIllegalState
	}
	if s.Combat != nil {
		return nil, ErrIllegalState
	}
	p, ok := s.Players[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	if playerID != s.ActivePlayerID {
		return nil, ErrForbidden
	}

	nx, ny := Neighbor(p.Pos.X, p.Pos.Y, dir)
	tile, ok := s.Board.TileAt(nx, ny)
	if !ok {
		return nil, ErrNotFound
	}

	cost := stepCost(tile, s.Board.HasBoatAt(p.Pos.X, p.Pos.Y))
	if cost == ImpassableCost || p.Points < cost {
		return nil, ErrInvalidMove
	}
	if occ, taken := s.Board.OccupantAt(nx, ny); taken && occ != playerID {
		return nil, ErrOccupied
	}

	s.Board.SetOccupant(p.Pos.X, p.Pos.Y, "")
	s.Board.SetOccupant(nx, ny, playerID)
	p.Pos = Coord{X: nx, Y: ny}
	p.Points -= cost

	events := []Event{{
		Type:            EvtPlayerMoved,
		PlayerID:        playerID,
		X:               p.Pos.X,
		Y:               p.Pos.Y,
		RemainingPoints: p.Points,
	}}

	// An exhausted budget publishes an explicit empty set, replacing any
	// previously published reachable tiles for this player.
	tiles := []ReachableTile{}
	if p.Points > 0 {
		tiles = ReachableTiles(s.Board, p)
	}
	events = append(events, Event{
		Type:     EvtReachableTiles,
		PlayerID: playerID,
		Tiles:    tiles,
	})
	return events, nil
}
