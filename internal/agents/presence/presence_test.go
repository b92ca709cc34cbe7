package presence

import (
	"context"
	"testing"
	"time"

	"callcenter_backend/internal/agents/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewWithClient(rdb, 5*time.Minute), mr
}

func TestHeartbeatAndState(t *testing.T) {
	store, _ := newTestStore(t)
	agentID := uuid.New()

	if _, ok, err := store.State(context.Background(), agentID); err != nil || ok {
		t.Fatalf("expected offline before heartbeat, ok=%v err=%v", ok, err)
	}

	if err := store.Heartbeat(context.Background(), agentID, domain.StateAvailable); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}

	state, ok, err := store.State(context.Background(), agentID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if !ok || state != domain.StateAvailable {
		t.Fatalf("got ok=%v state=%s", ok, state)
	}
}

func TestHeartbeatRefreshesStateValue(t *testing.T) {
	store, _ := newTestStore(t)
	agentID := uuid.New()

	if err := store.Heartbeat(context.Background(), agentID, domain.StateAvailable); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	if err := store.Heartbeat(context.Background(), agentID, domain.StateLunch); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}

	state, ok, err := store.State(context.Background(), agentID)
	if err != nil || !ok {
		t.Fatalf("state: ok=%v err=%v", ok, err)
	}
	if state != domain.StateLunch {
		t.Fatalf("expected lunch, got %s", state)
	}
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	store, mr := newTestStore(t)
	agentID := uuid.New()

	if err := store.Heartbeat(context.Background(), agentID, domain.StateAvailable); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}

	mr.FastForward(6 * time.Minute)

	if _, ok, err := store.State(context.Background(), agentID); err != nil || ok {
		t.Fatalf("expected expired session, ok=%v err=%v", ok, err)
	}
}

func TestDrop(t *testing.T) {
	store, _ := newTestStore(t)
	agentID := uuid.New()

	if err := store.Heartbeat(context.Background(), agentID, domain.StateAvailable); err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	if err := store.Drop(context.Background(), agentID); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, ok, _ := store.State(context.Background(), agentID); ok {
		t.Fatalf("expected offline after drop")
	}
}

func TestOnlineCountsSessions(t *testing.T) {
	store, _ := newTestStore(t)

	for i := 0; i < 3; i++ {
		if err := store.Heartbeat(context.Background(), uuid.New(), domain.StateAvailable); err != nil {
			t.Fatalf("heartbeat: %v", err)
		}
	}

	online, err := store.Online(context.Background())
	if err != nil {
		t.Fatalf("online: %v", err)
	}
	if online != 3 {
		t.Fatalf("expected 3 online, got %d", online)
	}
}
