package celestial

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreConformance(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "celestial.db"))
	require.NoError(t, err)
	defer store.Close()

	testStoreConformance(t, store)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "celestial.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)

	cloud := EmotionCloud{
		ID:        "persist-1",
		Position:  [3]float32{1, 2, 3},
		Color:     [4]uint8{10, 20, 30, 40},
		Intensity: 0.7,
		Shape:     "cube",
	}
	require.NoError(t, store.StoreCloud(ctx, cloud))
	node := ResonantNode{
		ID:              "persist-node",
		Position:        [3]float32{4, 5, 6},
		RelatedCloudIDs: []string{"persist-1"},
		Pointer:         "journal/7",
	}
	require.NoError(t, store.StoreNode(ctx, node))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	gotCloud, err := reopened.GetCloud(ctx, "persist-1")
	require.NoError(t, err)
	assert.Equal(t, cloud, gotCloud)

	gotNode, err := reopened.GetNode(ctx, "persist-node")
	require.NoError(t, err)
	assert.Equal(t, node, gotNode)
}
