package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gridquest/gridquest-backend/internal/clock"
	"github.com/gridquest/gridquest-backend/internal/engine"
)

type Msg interface{ isSessionMsg() }

// FromClient carries one engine command. Reply, when non-nil, receives the
// rejection error (or nil) so transports can report failures to the sender.
type FromClient struct {
	Cmd   engine.Command
	Reply chan error
}

func (FromClient) isSessionMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Outbound // where this client wants to receive events
}

func (Join) isSessionMsg() {}

type Leave struct{ ClientID string }

func (Leave) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

type GetState struct {
	Reply chan TestView
}

func (GetState) isSessionMsg() {}

// clockFired is posted by clock callbacks; never sent by transports.
type clockFired struct{ f clock.Fired }

func (clockFired) isSessionMsg() {}

// Outbound is one message to a subscribed client: either a typed event or,
// on join, a full state snapshot. Version orders messages per session.
type Outbound struct {
	Version          int           `json:"version"`
	Event            *engine.Event `json:"event,omitempty"`
	State            *engine.View  `json:"state,omitempty"`
	RemainingSeconds int           `json:"remaining_seconds,omitempty"`
}

// TestView reflects internal state without data races; test-only.
type TestView struct {
	Version       int
	NumClients    int
	Phase         engine.Phase
	Active        string
	TurnNumber    int
	TurnRemaining time.Duration
	CombatRunning bool
	Players       map[string]engine.Player
}

type Session struct {
	ID      string
	inbox   chan Msg
	state   *engine.State
	version int
	clients map[string]chan Outbound
	log     *zap.Logger

	turnClock       *clock.TurnClock
	transitionClock *clock.TurnClock
	combatClock     *clock.CombatClock

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, id string, state *engine.State, log *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	s := &Session{
		ID:      id,
		inbox:   make(chan Msg, 64),
		state:   state,
		clients: make(map[string]chan Outbound),
		log:     log.With(zap.String("session", id)),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.turnClock = clock.NewTurnClock(clock.KindTurn, s.postFired)
	s.transitionClock = clock.NewTurnClock(clock.KindTransition, s.postFired)
	s.combatClock = clock.NewCombatClock(s.postFired)
	go s.loop()
	return s
}

// Inbox exposes the actor mailbox to transports and tests.
func (s *Session) Inbox() chan<- Msg { return s.inbox }

// postFired runs on a timer goroutine; it only posts back to the actor.
func (s *Session) postFired(f clock.Fired) {
	select {
	case s.inbox <- clockFired{f: f}:
	case <-s.ctx.Done():
	}
}

func (s *Session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			switch msg := m.(type) {
			case Join:
				s.clients[msg.ClientID] = msg.Outbox
				view := s.state.View()
				msg.Outbox <- Outbound{
					Version:          s.version,
					State:            &view,
					RemainingSeconds: int(s.turnClock.Remaining() / time.Second),
				}

			case Leave:
				delete(s.clients, msg.ClientID)

			case FromClient:
				err := s.apply(msg.Cmd)
				if err != nil {
					s.log.Warn("command rejected",
						zap.String("cmd", string(msg.Cmd.Type)),
						zap.String("player", msg.Cmd.PlayerID),
						zap.Error(err))
				}
				if msg.Reply != nil {
					msg.Reply <- err
				}

			case clockFired:
				s.onClockFired(msg.f)

			case GetState:
				msg.Reply <- s.testView()

			case Shutdown:
				s.shutdown()
				return
			}
		}
	}
}

func (s *Session) apply(cmd engine.Command) error {
	events, err := engine.Apply(s.state, cmd)
	if err != nil {
		return err
	}
	s.dispatch(events)
	return nil
}

// onClockFired turns an expiry into the matching engine command. Stale
// epochs (cancelled or superseded handles) are dropped here, which is what
// guarantees a turn can never end twice off one countdown.
func (s *Session) onClockFired(f clock.Fired) {
	switch f.Kind {
	case clock.KindTurn:
		if f.Epoch != s.turnClock.Epoch() {
			return
		}
		s.turnClock.Stop()
		if err := s.apply(engine.Command{Type: engine.CmdTurnTimeout}); err != nil {
			s.log.Warn("turn timeout rejected", zap.Error(err))
		}
	case clock.KindTransition:
		if f.Epoch != s.transitionClock.Epoch() {
			return
		}
		s.transitionClock.Stop()
		if err := s.apply(engine.Command{Type: engine.CmdTransitionDone}); err != nil {
			s.log.Warn("transition expiry rejected", zap.Error(err))
		}
	case clock.KindCombat:
		if f.Epoch != s.combatClock.Epoch() {
			return
		}
		// Round ran out: announce the reset and arm the next round.
		s.combatClock.Reset()
		s.broadcast(engine.Event{Type: engine.EvtCombatRoundReset})
	}
}

// dispatch applies clock side effects for each event, then broadcasts it.
// The engine decides what happened; this is the only place deciding what the
// clocks do about it.
func (s *Session) dispatch(events []engine.Event) {
	for _, ev := range events {
		switch ev.Type {
		case engine.EvtTurnStarted:
			s.turnClock.Start(time.Duration(s.state.Rules.TurnSec) * time.Second)
		case engine.EvtTransitionStarted:
			s.turnClock.Stop()
			s.transitionClock.Start(time.Duration(s.state.Rules.TransitionSec) * time.Second)
		case engine.EvtCombatStarted:
			s.turnClock.Pause()
			s.combatClock.Start(time.Duration(s.state.Rules.CombatRoundSec) * time.Second)
		case engine.EvtCombatEnded:
			s.combatClock.Stop()
			if ev.Resumed {
				s.turnClock.Resume()
			}
			// Not resumed: the engine also emitted turn-advance events and
			// their EvtTransitionStarted discards the frozen time via Stop.
		case engine.EvtGameOver:
			s.stopClocks()
		}

		if ev.Type == engine.EvtTransitionStarted {
			continue // internal scheduling marker, nothing to broadcast
		}
		s.broadcast(ev)
	}
}

func (s *Session) broadcast(ev engine.Event) {
	s.version++
	out := Outbound{Version: s.version, Event: &ev}
	for id, ch := range s.clients {
		select {
		case ch <- out:
			// ok
		default:
			// Client is slow/full - drop them.
			s.log.Info("dropping slow client", zap.String("client", id))
			close(ch)
			delete(s.clients, id)
		}
	}
}

func (s *Session) stopClocks() {
	s.turnClock.Stop()
	s.transitionClock.Stop()
	s.combatClock.Stop()
}

func (s *Session) shutdown() {
	s.stopClocks()
	for id, ch := range s.clients {
		close(ch) // Tell client no more events
		delete(s.clients, id)
	}
	s.cancel()
}

func (s *Session) testView() TestView {
	players := make(map[string]engine.Player, len(s.state.Players))
	for id, p := range s.state.Players {
		players[id] = *p
	}
	return TestView{
		Version:       s.version,
		NumClients:    len(s.clients),
		Phase:         s.state.Phase,
		Active:        s.state.ActivePlayerID,
		TurnNumber:    s.state.TurnNumber,
		TurnRemaining: s.turnClock.Remaining(),
		CombatRunning: s.combatClock.Active(),
		Players:       players,
	}
}
