package celestial

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/vecgo"

	"aios/internal/logging"
)

// MemoryStore is the simulated in-memory backend: RWMutex-guarded maps plus
// a vecgo flat index over cloud positions for nearest-neighbor queries. The
// index holds cloud IDs as payload and is kept in sync with cloud CRUD.
type MemoryStore struct {
	mu     sync.RWMutex
	clouds map[string]EmotionCloud
	nodes  map[string]ResonantNode

	index   *vecgo.Vecgo[string]
	indexID map[string]uint64 // cloud ID -> vecgo internal ID
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() (*MemoryStore, error) {
	index, err := vecgo.Flat[string](3).SquaredL2().Build()
	if err != nil {
		return nil, fmt.Errorf("build spatial index: %w", err)
	}
	return &MemoryStore{
		clouds:  make(map[string]EmotionCloud),
		nodes:   make(map[string]ResonantNode),
		index:   index,
		indexID: make(map[string]uint64),
	}, nil
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) StoreCloud(ctx context.Context, cloud EmotionCloud) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clouds[cloud.ID]; ok {
		return existsErr("emotion cloud", cloud.ID)
	}

	vecID, err := s.index.Insert(ctx, vecgo.VectorWithData[string]{
		Vector: cloud.Position[:],
		Data:   cloud.ID,
	})
	if err != nil {
		return fmt.Errorf("index cloud %q: %w", cloud.ID, err)
	}

	s.clouds[cloud.ID] = cloud
	s.indexID[cloud.ID] = vecID
	logging.Memory("stored emotion cloud %s", cloud.ID)
	return nil
}

func (s *MemoryStore) GetCloud(_ context.Context, id string) (EmotionCloud, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cloud, ok := s.clouds[id]
	if !ok {
		return EmotionCloud{}, notFoundErr("emotion cloud", id)
	}
	return cloud, nil
}

func (s *MemoryStore) ListClouds(_ context.Context) ([]EmotionCloud, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]EmotionCloud, 0, len(s.clouds))
	for _, cloud := range s.clouds {
		out = append(out, cloud)
	}
	return out, nil
}

func (s *MemoryStore) UpdateCloud(ctx context.Context, cloud EmotionCloud) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clouds[cloud.ID]; !ok {
		return notFoundErr("emotion cloud", cloud.ID)
	}

	if err := s.index.Update(ctx, s.indexID[cloud.ID], vecgo.VectorWithData[string]{
		Vector: cloud.Position[:],
		Data:   cloud.ID,
	}); err != nil {
		return fmt.Errorf("reindex cloud %q: %w", cloud.ID, err)
	}

	s.clouds[cloud.ID] = cloud
	logging.Memory("updated emotion cloud %s", cloud.ID)
	return nil
}

func (s *MemoryStore) RemoveCloud(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clouds[id]; !ok {
		return notFoundErr("emotion cloud", id)
	}

	if err := s.index.Delete(ctx, s.indexID[id]); err != nil {
		return fmt.Errorf("unindex cloud %q: %w", id, err)
	}

	delete(s.clouds, id)
	delete(s.indexID, id)
	logging.Memory("removed emotion cloud %s", id)
	return nil
}

func (s *MemoryStore) StoreNode(_ context.Context, node ResonantNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[node.ID]; ok {
		return existsErr("resonant node", node.ID)
	}
	s.nodes[node.ID] = node
	logging.Memory("stored resonant node %s", node.ID)
	return nil
}

func (s *MemoryStore) GetNode(_ context.Context, id string) (ResonantNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[id]
	if !ok {
		return ResonantNode{}, notFoundErr("resonant node", id)
	}
	return node, nil
}

func (s *MemoryStore) ListNodes(_ context.Context) ([]ResonantNode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ResonantNode, 0, len(s.nodes))
	for _, node := range s.nodes {
		out = append(out, node)
	}
	return out, nil
}

func (s *MemoryStore) UpdateNode(_ context.Context, node ResonantNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[node.ID]; !ok {
		return notFoundErr("resonant node", node.ID)
	}
	s.nodes[node.ID] = node
	return nil
}

func (s *MemoryStore) RemoveNode(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[id]; !ok {
		return notFoundErr("resonant node", id)
	}
	delete(s.nodes, id)
	return nil
}

func (s *MemoryStore) NearestClouds(ctx context.Context, pos [3]float32, k int) ([]CloudMatch, error) {
	if k <= 0 {
		k = 3
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.clouds) == 0 {
		return nil, nil
	}

	timer := logging.StartTimer(logging.CategoryMemory, "NearestClouds")
	defer timer.Stop()

	results, err := s.index.KNNSearch(ctx, pos[:], k)
	if err != nil {
		return nil, fmt.Errorf("spatial search: %w", err)
	}

	matches := make([]CloudMatch, 0, len(results))
	for _, r := range results {
		cloud, ok := s.clouds[r.Data]
		if !ok {
			continue // index lag should not surface ghost entries
		}
		matches = append(matches, CloudMatch{Cloud: cloud, Distance: r.Distance})
	}
	logging.MemoryDebug("nearest query at %v returned %d of %d clouds", pos, len(matches), len(s.clouds))
	return matches, nil
}

func (s *MemoryStore) Close() error {
	return s.index.Close()
}
