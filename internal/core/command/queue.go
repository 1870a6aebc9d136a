package command

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/amplify-platform/ampauth/internal/core/domain"
)

// DefaultQueueSize is the submission buffer used when the configuration
// does not say otherwise.
const DefaultQueueSize = 1024

// Queue is the MPSC submission channel between API handlers and the
// executor. Many goroutines submit; exactly one executor consumes.
type Queue struct {
	cmds    chan *Command
	stopped atomic.Bool
	wg      sync.WaitGroup
}

// NewQueue creates a queue with the given buffer size.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{cmds: make(chan *Command, size)}
}

// Submit enqueues a command and blocks until the executor resolves it
// or the context ends. A context expiry after enqueue returns
// ErrCommandTimeout; the command may still be applied afterwards, but
// its effect on the store happens at most once either way.
func (q *Queue) Submit(ctx context.Context, cmd *Command) (Result, error) {
	if q.stopped.Load() {
		return Result{}, domain.ErrQueueClosed
	}
	q.wg.Add(1)
	defer q.wg.Done()
	// Recheck after joining the waitgroup so Close cannot miss us.
	if q.stopped.Load() {
		return Result{}, domain.ErrQueueClosed
	}

	select {
	case q.cmds <- cmd:
	case <-ctx.Done():
		return Result{}, domain.ErrCommandTimeout.WithCause(ctx.Err())
	}

	select {
	case res := <-cmd.result:
		if res.Err != nil {
			return Result{}, res.Err
		}
		return res, nil
	case <-ctx.Done():
		return Result{}, domain.ErrCommandTimeout.WithCause(ctx.Err())
	}
}

// Depth reports the number of buffered commands.
func (q *Queue) Depth() int {
	return len(q.cmds)
}

// Close stops accepting submissions, waits for in-flight submitters,
// then closes the channel so the executor drains what remains and
// exits. Safe to call once.
func (q *Queue) Close() {
	if q.stopped.Swap(true) {
		return
	}
	q.wg.Wait()
	close(q.cmds)
}
