package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amplify-platform/ampauth/internal/cache"
	"github.com/amplify-platform/ampauth/internal/core/command"
	"github.com/amplify-platform/ampauth/internal/storage/memory"
)

func TestHealthCheck(t *testing.T) {
	store := memory.New()
	c := cache.NewMemory()
	queue := command.NewQueue(4)
	exec := command.NewExecutor(command.ExecutorConfig{Queue: queue, Store: store, Cache: c})
	go exec.Run()

	svc := NewHealthService(store, c, exec)

	status := svc.Check(context.Background())
	assert.True(t, status.Store)
	assert.True(t, status.Cache)
	assert.True(t, status.Executor)
	assert.True(t, status.Healthy())

	queue.Close()
	<-exec.Done()

	status = svc.Check(context.Background())
	assert.False(t, status.Executor)
	assert.False(t, status.Healthy())
}

func TestHealthCheckDegraded(t *testing.T) {
	queue := command.NewQueue(4)
	exec := command.NewExecutor(command.ExecutorConfig{Queue: queue, Store: downStore{}, Cache: downCache{}})
	go exec.Run()
	t.Cleanup(func() {
		queue.Close()
		<-exec.Done()
	})

	svc := NewHealthService(downStore{}, downCache{}, exec)
	status := svc.Check(context.Background())
	assert.False(t, status.Store)
	assert.False(t, status.Cache)
	assert.True(t, status.Executor)
	assert.False(t, status.Healthy())
}
