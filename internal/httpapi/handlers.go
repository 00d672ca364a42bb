package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"go.uber.org/zap"

	"github.com/gridquest/gridquest-backend/internal/engine"
	"github.com/gridquest/gridquest-backend/internal/hub"
	"github.com/gridquest/gridquest-backend/internal/session"
	"github.com/gridquest/gridquest-backend/internal/store"
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type createSessionRequest struct {
	GameID string `json:"game_id"`
}

// CreateSession loads a game definition, builds a primed session state and
// registers it under a fresh join code.
func CreateSession(h *hub.Hub, loader store.Loader, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := createSessionRequest{GameID: "default"}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		cfg, err := loader.LoadDefinition(r.Context(), req.GameID)
		if err != nil {
			if errors.Is(err, store.ErrDefinitionNotFound) {
				http.Error(w, "unknown game", http.StatusNotFound)
				return
			}
			log.Error("load definition failed", zap.String("game", req.GameID), zap.Error(err))
			http.Error(w, "failed to load game", http.StatusInternalServerError)
			return
		}

		state, err := engine.NewState(cfg)
		if err != nil {
			log.Error("bad definition", zap.String("game", req.GameID), zap.Error(err))
			http.Error(w, "invalid game definition", http.StatusInternalServerError)
			return
		}

		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *session.Session, 1)
			h.Inbox() <- hub.GetSession{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Info("collision on code, regenerating")
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.EnsureSession{Code: code, State: state, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create session", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
