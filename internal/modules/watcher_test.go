package modules

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitForEvent(t *testing.T, w *Watcher, module, op string) WatchEvent {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				t.Fatalf("event channel closed waiting for %s %s", module, op)
			}
			if ev.Module == module && ev.Op == op {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s %s", module, op)
		}
	}
}

func TestWatcherReVerifiesOnWrite(t *testing.T) {
	reg, modDir := newTestRegistry(t)
	writeModule(t, modDir, "watched.mod", "v1")
	_, err := reg.Register("watched.mod")
	require.NoError(t, err)

	w, err := NewWatcher(reg)
	require.NoError(t, err)
	defer w.Close()

	// unregistered files never produce events
	writeModule(t, modDir, "ignored.mod", "noise")

	writeModule(t, modDir, "watched.mod", "v2")
	ev := waitForEvent(t, w, "watched.mod", "modified")
	require.NotNil(t, ev.Result)
	assert.Equal(t, StatusMismatch, ev.Result.Status)

	// editors fire bursts of write events, so drain until the re-verify
	// of the restored content comes through.
	writeModule(t, modDir, "watched.mod", "v1")
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				t.Fatal("event channel closed before restore verified")
			}
			if ev.Result != nil && ev.Result.Status == StatusVerified {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for restored module to verify")
		}
	}
}

func TestWatcherReportsRemoval(t *testing.T) {
	reg, modDir := newTestRegistry(t)
	writeModule(t, modDir, "doomed.mod", "v1")
	_, err := reg.Register("doomed.mod")
	require.NoError(t, err)

	w, err := NewWatcher(reg)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.Remove(filepath.Join(modDir, "doomed.mod")))
	ev := waitForEvent(t, w, "doomed.mod", "removed")
	assert.Nil(t, ev.Result)
}

func TestWatcherCloseUnblocksFullEventChannel(t *testing.T) {
	reg, modDir := newTestRegistry(t)
	writeModule(t, modDir, "noisy.mod", "v1")
	_, err := reg.Register("noisy.mod")
	require.NoError(t, err)

	w, err := NewWatcher(reg)
	require.NoError(t, err)

	// Flood the watched module without draining Events() so the buffer
	// fills and the loop ends up parked on a send.
	for i := 0; i < 40; i++ {
		writeModule(t, modDir, "noisy.mod", "v1 still")
	}
	time.Sleep(100 * time.Millisecond)

	closed := make(chan error, 1)
	go func() { closed <- w.Close() }()

	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Close did not return while event channel was full")
	}
}

func TestWatcherCloseStopsEvents(t *testing.T) {
	reg, _ := newTestRegistry(t)
	w, err := NewWatcher(reg)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	_, ok := <-w.Events()
	assert.False(t, ok)
}
