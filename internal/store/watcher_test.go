package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherFiresOnStateChange(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.PushHistory("seed"))

	changed := make(chan State, 4)
	w, err := NewWatcher(s, func(st State) {
		changed <- st
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	// External write, as another process would do
	require.NoError(t, s.PushHistory("from elsewhere"))

	select {
	case st := <-changed:
		require.NotEmpty(t, st.History)
		require.Equal(t, "from elsewhere", st.History[0])
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire on state change")
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	s := New(t.TempDir())
	w, err := NewWatcher(s, nil)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}
