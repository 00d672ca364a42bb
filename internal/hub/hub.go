package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/gridquest/gridquest-backend/internal/engine"
	"github.com/gridquest/gridquest-backend/internal/session"
)

type HubMsg interface{ isHubMsg() }

type CreateSession struct {
	Code  string
	State *engine.State
	Reply chan *session.Session
}

type GetSession struct {
	Code  string
	Reply chan *session.Session
}

type EnsureSession struct {
	Code  string
	State *engine.State // only used if creation happens
	Reply chan *session.Session
}

type RemoveSession struct {
	Code string
}

type ShutdownHub struct{}

func (CreateSession) isHubMsg() {}
func (GetSession) isHubMsg()    {}
func (EnsureSession) isHubMsg() {}
func (RemoveSession) isHubMsg() {}
func (ShutdownHub) isHubMsg()   {}

// Hub is the session registry: one actor owning the code -> session table,
// so creation, lookup and teardown are serialized without locks.
type Hub struct {
	inbox    chan HubMsg
	sessions map[string]*session.Session
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:    make(chan HubMsg, 64),
		sessions: make(map[string]*session.Session),
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateSession:
				if sn := h.sessions[msg.Code]; sn != nil {
					msg.Reply <- sn
					break
				}
				msg.Reply <- h.create(msg.Code, msg.State)

			case GetSession:
				msg.Reply <- h.sessions[msg.Code] // May be nil

			case EnsureSession:
				if sn := h.sessions[msg.Code]; sn != nil {
					msg.Reply <- sn
					break
				}
				msg.Reply <- h.create(msg.Code, msg.State)

			case RemoveSession:
				if sn := h.sessions[msg.Code]; sn != nil {
					sn.Inbox() <- session.Shutdown{}
					delete(h.sessions, msg.Code)
				}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) create(code string, state *engine.State) *session.Session {
	sn := session.New(h.ctx, code, state, h.log)
	h.sessions[code] = sn
	h.log.Info("session created", zap.String("code", code))
	return sn
}

func (h *Hub) shutdown() {
	for _, sn := range h.sessions {
		sn.Inbox() <- session.Shutdown{}
	}
	clear(h.sessions)
	h.cancel()
}
