package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartedtech/internal/models"
	"smartedtech/internal/repository"
	"smartedtech/internal/security"
	"smartedtech/internal/service"
)

func TestCleanupExpiredSessions(t *testing.T) {
	store := repository.NewMemorySessionRepository()
	now := time.Now()
	for id, expires := range map[string]time.Time{
		"live":  now.Add(time.Hour),
		"stale": now.Add(-time.Minute),
	} {
		require.NoError(t, store.Create(context.Background(), &models.Session{
			ID:        id,
			UserID:    "7",
			CreatedAt: now.Add(-time.Hour),
			ExpiresAt: expires,
		}))
	}
	auth := service.NewAuthService(nil, store, security.NewTokenSigner("test-secret"), nil, service.AuthOptions{SessionDuration: time.Hour}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cleanupExpiredSessions(ctx, auth, 10*time.Millisecond, zap.NewNop())
		close(done)
	}()

	require.Eventually(t, func() bool {
		s, err := store.Get(context.Background(), "stale")
		return err == nil && s == nil
	}, time.Second, 10*time.Millisecond)

	live, err := store.Get(context.Background(), "live")
	require.NoError(t, err)
	assert.NotNil(t, live)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop after cancel")
	}
}
