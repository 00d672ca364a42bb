package hub

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/gridquest/gridquest-backend/internal/engine"
	"github.com/gridquest/gridquest-backend/internal/session"
)

func testState(t *testing.T) *engine.State {
	t.Helper()
	tiles := make([]engine.Tile, 4)
	for i := range tiles {
		tiles[i] = engine.Tile{Kind: engine.TileGround, Cost: 1}
	}
	s, err := engine.NewState(engine.Config{
		Width: 2, Height: 2,
		Tiles: tiles,
		Players: []engine.PlayerConfig{
			{ID: "p1", Start: engine.Coord{X: 0, Y: 0}, Allowance: 2},
			{ID: "p2", Start: engine.Coord{X: 1, Y: 1}, Allowance: 2},
		},
	})
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	return s
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	h := NewHub(context.Background(), zap.NewNop())
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateSession{Code: "ZED123", State: testState(t), Reply: reply}
	s1 := <-reply

	h.Inbox() <- GetSession{Code: "ZED123", Reply: reply}
	s2 := <-reply

	if s1 == nil || s2 == nil || s1 != s2 {
		t.Fatalf("expected same session pointer")
	}
}

func TestHub_Ensure_DoesNotReplace(t *testing.T) {
	h := NewHub(context.Background(), zap.NewNop())
	reply := make(chan *session.Session, 1)

	h.Inbox() <- EnsureSession{Code: "AAA111", State: testState(t), Reply: reply}
	s1 := <-reply
	h.Inbox() <- EnsureSession{Code: "AAA111", State: testState(t), Reply: reply}
	s2 := <-reply

	if s1 != s2 {
		t.Fatalf("ensure must keep the existing session")
	}
}

func TestHub_Remove_ShutsSessionDown(t *testing.T) {
	h := NewHub(context.Background(), zap.NewNop())
	reply := make(chan *session.Session, 1)

	h.Inbox() <- CreateSession{Code: "GONE01", State: testState(t), Reply: reply}
	sn := <-reply

	out := make(chan session.Outbound, 8)
	sn.Inbox() <- session.Join{ClientID: "c1", Outbox: out}
	<-out // snapshot

	h.Inbox() <- RemoveSession{Code: "GONE01"}

	select {
	case _, ok := <-out:
		if ok {
			t.Fatalf("expected closed outbox after removal")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("session not shut down on removal")
	}

	h.Inbox() <- GetSession{Code: "GONE01", Reply: reply}
	if got := <-reply; got != nil {
		t.Fatalf("removed session still registered")
	}
}
