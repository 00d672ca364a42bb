package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gridquest/gridquest-backend/internal/engine"
	"github.com/gridquest/gridquest-backend/internal/hub"
	"github.com/gridquest/gridquest-backend/internal/session"
	"github.com/gridquest/gridquest-backend/internal/types"
)

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
		sn := <-reply
		if sn == nil {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan session.Outbound, 8)
		clientID := uuid.NewString()

		sn.Inbox() <- session.Join{ClientID: clientID, Outbox: out}
		defer func() { sn.Inbox() <- session.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for ob := range out {
				msgType := "Event"
				if ob.State != nil {
					msgType = "StateSnapshot"
				}
				payload, _ := json.Marshal(types.ServerMessage{Type: msgType, Payload: &ob})
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Treat clean close/going-away as normal:
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				// Otherwise, just exit (session.Leave in defer):
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"bad json"}`))
				continue
			}

			cmd, ok := toEngineCommand(cm)
			if !ok {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"Error","error":"unknown type"}`))
				continue
			}

			errReply := make(chan error, 1)
			sn.Inbox() <- session.FromClient{Cmd: cmd, Reply: errReply}
			if cmdErr := <-errReply; cmdErr != nil {
				msg, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: cmdErr.Error()})
				_ = conn.Write(r.Context(), websocket.MessageText, msg)
			}
		}
	}
}

func toEngineCommand(m types.ClientMessage) (engine.Command, bool) {
	switch m.Type {
	case "StartGame":
		return engine.Command{Type: engine.CmdStartGame}, true
	case "Move":
		dir, ok := parseDirection(m.Direction)
		if !ok {
			return engine.Command{}, false
		}
		return engine.Command{Type: engine.CmdMove, PlayerID: m.PlayerID, Direction: dir}, true
	case "EndTurn":
		return engine.Command{Type: engine.CmdEndTurn, PlayerID: m.PlayerID}, true
	case "StartCombat":
		return engine.Command{Type: engine.CmdStartCombat, AttackerID: m.AttackerID, DefenderID: m.DefenderID}, true
	case "EndCombat":
		return engine.Command{Type: engine.CmdEndCombat, WinnerID: m.WinnerID}, true
	case "LeaveGame":
		return engine.Command{Type: engine.CmdLeaveGame, PlayerID: m.PlayerID}, true
	default:
		return engine.Command{}, false
	}
}

func parseDirection(dir string) (engine.Direction, bool) {
	switch dir {
	case "up":
		return engine.DirUp, true
	case "down":
		return engine.DirDown, true
	case "left":
		return engine.DirLeft, true
	case "right":
		return engine.DirRight, true
	default:
		return "", false
	}
}
