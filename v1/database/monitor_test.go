package database

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type healthStub struct {
	mu    sync.Mutex
	state map[string]bool
}

func (h *healthStub) SetConnected(target string, connected bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == nil {
		h.state = map[string]bool{}
	}
	h.state[target] = connected
}

func (h *healthStub) snapshot() map[string]bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]bool, len(h.state))
	for k, v := range h.state {
		out[k] = v
	}
	return out
}

func TestMonitorReportsEveryTarget(t *testing.T) {
	health := &healthStub{}
	replica := openSQLite(t, "replica")
	db := NewFromDB(openSQLite(t, "primary"), []*sql.DB{replica}, Options{
		Health:          health,
		MonitorInterval: 10 * time.Millisecond,
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		db.MonitorConnection(context.Background())
	}()

	require.Eventually(t, func() bool {
		s := health.snapshot()
		return s["primary"] && s["read-1"]
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, replica.Close())
	require.Eventually(t, func() bool {
		return !health.snapshot()["read-1"]
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, db.Close())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after Close")
	}
}

func TestPing(t *testing.T) {
	db := NewFromDB(openSQLite(t, "primary"), []*sql.DB{openSQLite(t, "replica")}, Options{})
	require.NoError(t, db.Ping(context.Background()))

	require.NoError(t, db.Router().Replicas()[0].DB.Close())
	assert.ErrorContains(t, db.Ping(context.Background()), "read-1")
}
