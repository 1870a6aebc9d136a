package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amplify-platform/ampauth/internal/cache"
	"github.com/amplify-platform/ampauth/internal/core/command"
	"github.com/amplify-platform/ampauth/internal/core/domain"
	"github.com/amplify-platform/ampauth/internal/storage/memory"
	"github.com/amplify-platform/ampauth/pkg/token"
)

func newManagement(t *testing.T) (*ManagementService, *memory.Store) {
	t.Helper()
	store := memory.New()
	queue := command.NewQueue(16)
	exec := command.NewExecutor(command.ExecutorConfig{
		Queue: queue,
		Store: store,
		Cache: cache.NewMemory(),
	})
	go exec.Run()
	t.Cleanup(func() {
		queue.Close()
		<-exec.Done()
	})
	return NewManagementService(queue, store, nil), store
}

func TestManagementCreate(t *testing.T) {
	svc, store := newManagement(t)
	ctx := context.Background()

	ttl := 90
	res, err := svc.Create(ctx, &CreateTokenRequest{
		Name:    "  ci-deploy  ",
		Scopes:  []string{"write", "read", "read"},
		TTLDays: &ttl,
	})
	require.NoError(t, err)
	assert.Equal(t, "ci-deploy", res.Record.Name)
	assert.Equal(t, []string{"read", "write"}, res.Record.Scopes, "scopes are deduplicated and sorted")
	assert.True(t, token.ValidFormat(res.Plaintext))
	require.NotNil(t, res.Record.ExpiresAt)

	stored, err := store.FindByID(ctx, res.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, token.Hash(res.Plaintext), stored.SecretHash)
}

func TestManagementCreateRejectsBadInput(t *testing.T) {
	svc, _ := newManagement(t)
	ctx := context.Background()

	badTTL := -1
	cases := map[string]*CreateTokenRequest{
		"empty name":      {Name: "   ", Scopes: []string{"read"}},
		"name too long":   {Name: strings.Repeat("x", domain.MaxNameLength+1), Scopes: []string{"read"}},
		"empty scope":     {Name: "ci", Scopes: []string{"read", ""}},
		"scope with gap":  {Name: "ci", Scopes: []string{"read write"}},
		"negative ttl":    {Name: "ci", Scopes: []string{"read"}, TTLDays: &badTTL},
		"too many scopes": {Name: "ci", Scopes: manyScopes(domain.MaxScopes + 1)},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(ctx, req)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestManagementCreateZeroTTL(t *testing.T) {
	svc, store := newManagement(t)
	ctx := context.Background()

	zero := 0
	res, err := svc.Create(ctx, &CreateTokenRequest{Name: "ci", Scopes: []string{"read"}, TTLDays: &zero})
	require.NoError(t, err)
	require.NotNil(t, res.Record.ExpiresAt)
	assert.True(t, res.Record.ExpiresAt.Equal(res.Record.CreatedAt), "ttl_days=0 expires at creation")
	assert.Equal(t, domain.StatusExpired, res.Record.StatusAt(time.Now().UTC()))

	// The token exists but never validates.
	vsvc := NewValidationService(ValidationConfig{Store: store, Cache: cache.NewMemory()})
	v := vsvc.Validate(ctx, res.Plaintext, nil)
	assert.False(t, v.Valid)
	assert.Equal(t, domain.ReasonExpired, v.Reason)
}

func TestManagementRevoke(t *testing.T) {
	svc, _ := newManagement(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, &CreateTokenRequest{Name: "ci", Scopes: []string{"read"}})
	require.NoError(t, err)

	rec, err := svc.Revoke(ctx, res.Record.ID)
	require.NoError(t, err)
	assert.NotNil(t, rec.RevokedAt)

	_, err = svc.Revoke(ctx, res.Record.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyRevoked)

	_, err = svc.Revoke(ctx, "not-a-token-id")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestManagementExtend(t *testing.T) {
	svc, _ := newManagement(t)
	ctx := context.Background()

	ttl := 7
	res, err := svc.Create(ctx, &CreateTokenRequest{Name: "ci", Scopes: []string{"read"}, TTLDays: &ttl})
	require.NoError(t, err)

	rec, err := svc.Extend(ctx, res.Record.ID, 30)
	require.NoError(t, err)
	require.NotNil(t, rec.ExpiresAt)
	assert.True(t, rec.ExpiresAt.After(*res.Record.ExpiresAt))

	_, err = svc.Extend(ctx, res.Record.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = svc.Extend(ctx, "amptk-00000000000000000000000000", 30)
	assert.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestManagementListAndInfo(t *testing.T) {
	svc, _ := newManagement(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, &CreateTokenRequest{Name: "first", Scopes: []string{"read"}})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.Create(ctx, &CreateTokenRequest{Name: "second", Scopes: []string{"read"}})
	require.NoError(t, err)

	_, err = svc.Revoke(ctx, first.Record.ID)
	require.NoError(t, err)

	active, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.Record.ID, active[0].ID)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	info, err := svc.Info(ctx, first.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", info.Name)
	assert.NotNil(t, info.RevokedAt)

	_, err = svc.Info(ctx, "bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func manyScopes(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "scope-" + strings.Repeat("a", i%8+1) + string(rune('a'+i%26))
	}
	return out
}
