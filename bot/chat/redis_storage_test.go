package chat

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VisitBot/entity"
)

// Runs against a real server when VISITBOT_REDIS_URL is set.
func TestRedisSessionStore(t *testing.T) {
	url := os.Getenv("VISITBOT_REDIS_URL")
	if url == "" {
		t.Skip("VISITBOT_REDIS_URL not set")
	}
	ctx := context.Background()
	store, err := NewRedisSessionStore(ctx, url, time.Minute)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	userID := "test-" + entity.NewVisit("", "").ID
	defer func() { _ = store.Remove(ctx, userID) }()

	session := NewSession(entity.NewVisit(userID, entity.VisitBilling))
	session.State = StateAwaitingAppointment
	session.Visit.Appointment = entity.Int64(25_000)
	require.NoError(t, store.Put(ctx, session))

	active, err := store.IsActive(ctx, userID)
	require.NoError(t, err)
	assert.True(t, active)

	got, err := store.Get(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, StateAwaitingAppointment, got.State)
	assert.Equal(t, int64(25_000), *got.Visit.Appointment)

	require.NoError(t, store.Remove(ctx, userID))
	got, err = store.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisSessionStore_BadURL(t *testing.T) {
	_, err := NewRedisSessionStore(context.Background(), "not a url", time.Minute)
	assert.Error(t, err)
}
