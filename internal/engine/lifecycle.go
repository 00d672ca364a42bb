package engine

import "slices"

func startGame(s *State) ([]Event, error) {
	if s.Phase != PhaseWaiting {
		return nil, ErrIllegalState
	}
	if len(s.TurnOrder) == 0 {
		return nil, ErrIllegalState
	}
	s.Phase = PhaseTurnActive
	s.TurnIndex = 0
	s.ActivePlayerID = s.TurnOrder[0]
	s.TurnNumber = 1
	return beginTurnEvents(s), nil
}

// beginTurnEvents resets the active player's points to their allowance and
// produces the turn-start event pair (turn started + initial reachable set).
func beginTurnEvents(s *State) []Event {
	p := s.Players[s.ActivePlayerID]
	p.Points = p.Allowance
	return []Event{
		{Type: EvtTurnStarted, PlayerID: p.ID, TurnNumber: s.TurnNumber},
		{Type: EvtReachableTiles, PlayerID: p.ID, Tiles: ReachableTiles(s.Board, p)},
	}
}

func endTurnRequest(s *State, playerID string) ([]Event, error) {
	if s.Phase != PhaseTurnActive {
		return nil, ErrIllegalState
	}
	if s.Combat != nil {
		return nil, ErrIllegalState
	}
	if _, ok := s.Players[playerID]; !ok {
		return nil, ErrNotFound
	}
	if playerID != s.ActivePlayerID {
		return nil, ErrForbidden
	}
	return advanceTurn(s), nil
}

// advanceTurn moves to the next player in cyclic order and enters the timed
// inter-turn transition. The new active player's points are not reset until
// the transition fires.
func advanceTurn(s *State) []Event {
	s.TurnIndex = (s.TurnIndex + 1) % len(s.TurnOrder)
	s.ActivePlayerID = s.TurnOrder[s.TurnIndex]
	s.TurnNumber++
	s.Phase = PhaseTransition
	return []Event{
		{Type: EvtTurnChanged, ActivePlayerID: s.ActivePlayerID, TurnNumber: s.TurnNumber},
		{Type: EvtTransitionStarted},
	}
}

func finishTransition(s *State) []Event {
	if over, winner := s.winCheck(); over {
		return forceGameOver(s, winner)
	}
	s.Phase = PhaseTurnActive
	return beginTurnEvents(s)
}

func startCombat(s *State, attackerID, defenderID string) ([]Event, error) {
	if s.Phase != PhaseTurnActive {
		return nil, ErrIllegalState
	}
	if s.Combat != nil {
		return nil, ErrIllegalState
	}
	for _, id := range []string{attackerID, defenderID} {
		p, ok := s.Players[id]
		if !ok || !p.InGame {
			return nil, ErrNotFound
		}
	}
	s.Combat = &Combat{AttackerID: attackerID, DefenderID: defenderID}
	return []Event{{Type: EvtCombatStarted, AttackerID: attackerID, DefenderID: defenderID}}, nil
}

// endCombat resolves the combat sub-phase. The turn clock resumes unless the
// active player was a combatant and did not win; in that case their turn ends
// immediately and the frozen time is discarded.
func endCombat(s *State, winnerID string) ([]Event, error) {
	if s.Combat == nil {
		return nil, ErrIllegalState
	}
	c := *s.Combat
	s.Combat = nil

	resume := !c.involves(s.ActivePlayerID) || winnerID == s.ActivePlayerID
	events := []Event{{Type: EvtCombatEnded, WinnerID: winnerID, Resumed: resume}}
	if !resume {
		events = append(events, advanceTurn(s)...)
	}
	return events, nil
}

func leaveGame(s *State, playerID string) ([]Event, error) {
	p, ok := s.Players[playerID]
	if !ok {
		return nil, ErrNotFound
	}

	var events []Event
	if s.Combat != nil && s.Combat.involves(playerID) {
		c := *s.Combat
		s.Combat = nil
		winner := c.AttackerID
		if winner == playerID {
			winner = c.DefenderID
		}
		resume := s.ActivePlayerID != playerID
		events = append(events, Event{Type: EvtCombatEnded, WinnerID: winner, Resumed: resume})
	}

	wasActive := s.Phase != PhaseWaiting && s.ActivePlayerID == playerID

	s.Board.SetOccupant(p.Pos.X, p.Pos.Y, "")
	delete(s.Players, playerID)
	if idx := slices.Index(s.TurnOrder, playerID); idx >= 0 {
		s.TurnOrder = slices.Delete(s.TurnOrder, idx, idx+1)
		if idx < s.TurnIndex {
			s.TurnIndex--
		}
	}

	if s.Phase == PhaseWaiting {
		return events, nil
	}

	if over, winner := s.winCheck(); over {
		return append(events, forceGameOver(s, winner)...), nil
	}

	if wasActive {
		// Removal already shifted the next player into this slot, so the
		// turn passes on without skipping or repeating anyone.
		s.TurnIndex %= len(s.TurnOrder)
		s.ActivePlayerID = s.TurnOrder[s.TurnIndex]
		s.TurnNumber++
		s.Phase = PhaseTransition
		events = append(events,
			Event{Type: EvtTurnChanged, ActivePlayerID: s.ActivePlayerID, TurnNumber: s.TurnNumber},
			Event{Type: EvtTransitionStarted},
		)
	}
	return events, nil
}

func forceGameOver(s *State, winnerID string) []Event {
	s.Phase = PhaseGameOver
	s.Combat = nil
	return []Event{{Type: EvtGameOver, WinnerID: winnerID}}
}

func (s *State) winCheck() (bool, string) {
	if s.WinCheck != nil {
		return s.WinCheck(s)
	}
	return LastPlayerStanding(s)
}

// LastPlayerStanding is the default game-over predicate: the game ends when
// fewer than two in-game players remain.
func LastPlayerStanding(s *State) (bool, string) {
	var last string
	count := 0
	for _, p := range s.Players {
		if p.InGame {
			last = p.ID
			count++
		}
	}
	if count >= 2 {
		return false, ""
	}
	if count == 0 {
		return true, ""
	}
	return true, last
}
