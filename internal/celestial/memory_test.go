package celestial

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreConformance(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	testStoreConformance(t, store)
}

func TestMemoryStoreUpdateMovesIndex(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	cloud := EmotionCloud{ID: "drift", Position: [3]float32{0, 0, 0}, Intensity: 0.5, Shape: "sphere"}
	require.NoError(t, store.StoreCloud(ctx, cloud))

	// after moving the cloud, queries near the new position must find it
	// at the new distance, not the old one.
	cloud.Position = [3]float32{5, 0, 0}
	require.NoError(t, store.UpdateCloud(ctx, cloud))

	matches, err := store.NearestClouds(ctx, [3]float32{5, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "drift", matches[0].Cloud.ID)
	assert.InDelta(t, 0.0, matches[0].Distance, 1e-5)
}
