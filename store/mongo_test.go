package store_test

import (
	"context"
	"os"
	"testing"

	"results-portal/driver"
	"results-portal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs only when MONGO_TEST_URI points at a disposable server.
func TestMongoStoreLifecycle(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx := context.Background()
	client, err := driver.ConnectMongo(ctx, uri)
	require.NoError(t, err)
	db := client.Database("results_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		db.Drop(context.Background())
		client.Disconnect(context.Background())
	})

	s, err := store.NewMongoStore(ctx, db)
	require.NoError(t, err)
	require.NoError(t, s.Ping(ctx))

	r := sampleResult("M-1")
	require.NoError(t, s.Insert(ctx, r))
	assert.ErrorIs(t, s.Insert(ctx, sampleResult("M-1")), store.ErrDuplicateKey)

	got, err := s.FindByRollNumber(ctx, "M-1")
	require.NoError(t, err)
	assert.Equal(t, r.Subjects, got.Subjects)

	r.Name = "Renamed"
	require.NoError(t, s.Replace(ctx, r))
	got, err = s.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	missing := sampleResult("M-2")
	assert.ErrorIs(t, s.Replace(ctx, missing), store.ErrNotFound)

	require.NoError(t, s.Delete(ctx, r.ID))
	assert.ErrorIs(t, s.Delete(ctx, r.ID), store.ErrNotFound)
}
