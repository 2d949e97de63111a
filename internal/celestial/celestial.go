// Package celestial implements the Celestial Model Memory: a store of
// labeled 3D points ("emotion clouds") and linking points ("resonant
// nodes"). Two backends exist: an in-memory map store with a vecgo spatial
// index, and a SQLite-backed store for persistence across sessions.
package celestial

import (
	"context"
	"errors"
	"fmt"
)

// EmotionCloud is a labeled 3D point with color and scalar intensity.
type EmotionCloud struct {
	ID        string     `json:"id"`
	Position  [3]float32 `json:"position"`
	Color     [4]uint8   `json:"color"` // RGBA
	Intensity float32    `json:"intensity"`
	Shape     string     `json:"shape"`
}

// ResonantNode is a labeled 3D point referencing zero or more emotion
// clouds, plus an opaque pointer string into deeper memory.
type ResonantNode struct {
	ID              string     `json:"id"`
	Position        [3]float32 `json:"position"`
	RelatedCloudIDs []string   `json:"related_cloud_ids"`
	Pointer         string     `json:"pointer"`
}

// CloudMatch pairs a cloud with its squared Euclidean distance to a query
// point.
type CloudMatch struct {
	Cloud    EmotionCloud
	Distance float32
}

var (
	// ErrExists is returned when inserting an ID that is already stored.
	ErrExists = errors.New("id already exists")
	// ErrNotFound is returned when an ID is not stored.
	ErrNotFound = errors.New("id not found")
)

// Store is the Celestial Model Memory service. Insert fails on duplicate
// IDs; get, update and remove fail on missing IDs; list order is
// unspecified.
type Store interface {
	StoreCloud(ctx context.Context, cloud EmotionCloud) error
	GetCloud(ctx context.Context, id string) (EmotionCloud, error)
	ListClouds(ctx context.Context) ([]EmotionCloud, error)
	UpdateCloud(ctx context.Context, cloud EmotionCloud) error
	RemoveCloud(ctx context.Context, id string) error

	StoreNode(ctx context.Context, node ResonantNode) error
	GetNode(ctx context.Context, id string) (ResonantNode, error)
	ListNodes(ctx context.Context) ([]ResonantNode, error)
	UpdateNode(ctx context.Context, node ResonantNode) error
	RemoveNode(ctx context.Context, id string) error

	// NearestClouds returns up to k clouds ordered by squared Euclidean
	// distance from pos. k <= 0 defaults to 3.
	NearestClouds(ctx context.Context, pos [3]float32, k int) ([]CloudMatch, error)

	Close() error
}

func existsErr(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrExists)
}

func notFoundErr(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
