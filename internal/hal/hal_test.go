package hal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aios/internal/celestial"
	"aios/internal/config"
)

func TestNewWithInMemoryBackend(t *testing.T) {
	cfg := config.Default(t.TempDir())

	h, err := New(cfg)
	require.NoError(t, err)
	defer h.Close()

	assert.IsType(t, &celestial.MemoryStore{}, h.Memory)
	require.NotNil(t, h.Compute)
	require.NotNil(t, h.Tensor)
	require.NotNil(t, h.Emotion)

	// the default engine should be live out of the box
	res, err := h.Emotion.Analyze("such a happy day")
	require.NoError(t, err)
	assert.Equal(t, "joy", res.Emotion)
}

func TestNewWithSQLiteBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default(dir)
	cfg.Memory.Backend = config.BackendSQLite
	cfg.Memory.DatabasePath = filepath.Join(dir, "celestial.db")

	h, err := New(cfg)
	require.NoError(t, err)
	defer h.Close()

	assert.IsType(t, &celestial.SQLiteStore{}, h.Memory)

	ctx := context.Background()
	require.NoError(t, h.Memory.StoreCloud(ctx, celestial.EmotionCloud{ID: "c1", Shape: "sphere"}))
	got, err := h.Memory.GetCloud(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Memory.Backend = "etched-crystal"

	_, err := New(cfg)
	assert.Error(t, err)
}
