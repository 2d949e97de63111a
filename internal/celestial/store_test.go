package celestial

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreConformance exercises the full Store contract against a backend.
// Both implementations must behave identically from the caller's side.
func testStoreConformance(t *testing.T, store Store) {
	ctx := context.Background()

	cloud := EmotionCloud{
		ID:        "joy-1",
		Position:  [3]float32{1, 2, 3},
		Color:     [4]uint8{255, 200, 0, 255},
		Intensity: 0.8,
		Shape:     "sphere",
	}

	t.Run("cloud lifecycle", func(t *testing.T) {
		require.NoError(t, store.StoreCloud(ctx, cloud))

		err := store.StoreCloud(ctx, cloud)
		assert.ErrorIs(t, err, ErrExists)

		got, err := store.GetCloud(ctx, "joy-1")
		require.NoError(t, err)
		assert.Equal(t, cloud, got)

		cloud.Intensity = 0.95
		cloud.Shape = "nebula"
		require.NoError(t, store.UpdateCloud(ctx, cloud))

		got, err = store.GetCloud(ctx, "joy-1")
		require.NoError(t, err)
		assert.InDelta(t, 0.95, got.Intensity, 1e-6)
		assert.Equal(t, "nebula", got.Shape)

		clouds, err := store.ListClouds(ctx)
		require.NoError(t, err)
		assert.Len(t, clouds, 1)

		require.NoError(t, store.RemoveCloud(ctx, "joy-1"))

		_, err = store.GetCloud(ctx, "joy-1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.RemoveCloud(ctx, "joy-1"), ErrNotFound)
		assert.ErrorIs(t, store.UpdateCloud(ctx, cloud), ErrNotFound)
	})

	t.Run("node lifecycle", func(t *testing.T) {
		node := ResonantNode{
			ID:              "mem-1",
			Position:        [3]float32{-1, 0, 1},
			RelatedCloudIDs: []string{"joy-1", "calm-2"},
			Pointer:         "session/42",
		}
		require.NoError(t, store.StoreNode(ctx, node))
		assert.ErrorIs(t, store.StoreNode(ctx, node), ErrExists)

		got, err := store.GetNode(ctx, "mem-1")
		require.NoError(t, err)
		assert.Equal(t, node, got)

		node.RelatedCloudIDs = []string{"joy-1"}
		node.Pointer = "session/43"
		require.NoError(t, store.UpdateNode(ctx, node))

		got, err = store.GetNode(ctx, "mem-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"joy-1"}, got.RelatedCloudIDs)
		assert.Equal(t, "session/43", got.Pointer)

		nodes, err := store.ListNodes(ctx)
		require.NoError(t, err)
		assert.Len(t, nodes, 1)

		require.NoError(t, store.RemoveNode(ctx, "mem-1"))
		_, err = store.GetNode(ctx, "mem-1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.RemoveNode(ctx, "mem-1"), ErrNotFound)
	})

	t.Run("nearest clouds", func(t *testing.T) {
		seed := []EmotionCloud{
			{ID: "origin", Position: [3]float32{0, 0, 0}, Intensity: 0.5, Shape: "sphere"},
			{ID: "near", Position: [3]float32{1, 0, 0}, Intensity: 0.6, Shape: "sphere"},
			{ID: "mid", Position: [3]float32{3, 0, 0}, Intensity: 0.7, Shape: "cube"},
			{ID: "far", Position: [3]float32{10, 10, 10}, Intensity: 0.9, Shape: "nebula"},
		}
		for _, c := range seed {
			require.NoError(t, store.StoreCloud(ctx, c))
		}

		matches, err := store.NearestClouds(ctx, [3]float32{0, 0, 0}, 2)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "origin", matches[0].Cloud.ID)
		assert.Equal(t, "near", matches[1].Cloud.ID)
		assert.InDelta(t, 0.0, matches[0].Distance, 1e-5)
		assert.InDelta(t, 1.0, matches[1].Distance, 1e-5)

		// k larger than the store returns everything, ordered.
		matches, err = store.NearestClouds(ctx, [3]float32{0, 0, 0}, 100)
		require.NoError(t, err)
		assert.Len(t, matches, len(seed))
		assert.Equal(t, "far", matches[len(matches)-1].Cloud.ID)

		// non-positive k falls back to the default of 3.
		matches, err = store.NearestClouds(ctx, [3]float32{0, 0, 0}, 0)
		require.NoError(t, err)
		assert.Len(t, matches, 3)

		// removed clouds no longer match.
		require.NoError(t, store.RemoveCloud(ctx, "origin"))
		matches, err = store.NearestClouds(ctx, [3]float32{0, 0, 0}, 1)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "near", matches[0].Cloud.ID)
	})
}
