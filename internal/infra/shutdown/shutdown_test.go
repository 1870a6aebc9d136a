package shutdown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, h *Handler) error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait() }()

	// Give Wait time to install its signal handler.
	time.Sleep(20 * time.Millisecond)
	h.Trigger()

	select {
	case err := <-errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not complete")
		return nil
	}
}

func TestHooksRunInReverseOrder(t *testing.T) {
	h := NewHandler(5*time.Second, nil)

	var mu sync.Mutex
	var order []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	h.OnShutdown("store", record("store"))
	h.OnShutdown("queue", record("queue"))
	h.OnShutdown("http", record("http"))

	require.NoError(t, waitFor(t, h))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"http", "queue", "store"}, order)

	select {
	case <-h.Done():
	default:
		t.Error("Done should be closed after Wait completes")
	}
}

func TestHookErrorIsReturned(t *testing.T) {
	h := NewHandler(5*time.Second, nil)
	hookErr := errors.New("close failed")

	h.OnShutdown("ok", func(context.Context) error { return nil })
	h.OnShutdown("bad", func(context.Context) error { return hookErr })

	assert.ErrorIs(t, waitFor(t, h), hookErr)
}

func TestTriggerIsIdempotent(t *testing.T) {
	h := NewHandler(time.Second, nil)
	h.Trigger()
	h.Trigger()

	require.NoError(t, h.Wait())
}

func TestHookContextCarriesDeadline(t *testing.T) {
	h := NewHandler(100*time.Millisecond, nil)

	h.OnShutdown("check", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("no deadline")
		}
		return nil
	})

	require.NoError(t, waitFor(t, h))
}
