// Package hal wires the hardware abstraction services behind a single
// locator. The shell and the CLI ask the HAL for a service instead of
// constructing backends themselves, so swapping the memory backend or
// the compute probe is a config change, not a code change.
package hal

import (
	"fmt"

	"aios/internal/celestial"
	"aios/internal/config"
	"aios/internal/hal/compute"
	"aios/internal/hal/emotion"
	"aios/internal/hal/tensor"
	"aios/internal/logging"
)

// HAL bundles the four hardware abstraction services.
type HAL struct {
	Compute compute.Service
	Tensor  tensor.Ops
	Emotion emotion.Engine
	Memory  celestial.Store
}

// New builds a HAL from configuration. The compute service probes the host
// hardware, the emotion engine uses the configured lexicon when one is set,
// and the memory backend is chosen by cfg.Memory.Backend.
func New(cfg *config.Config) (*HAL, error) {
	var engine emotion.Engine
	if cfg.Emotion.LexiconPath != "" {
		lex, err := emotion.LoadLexicon(cfg.Emotion.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load emotion lexicon: %w", err)
		}
		engine = emotion.NewLexiconEngineWith(lex)
	} else {
		engine = emotion.NewLexiconEngine()
	}

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	logging.HAL("services initialized (memory backend: %s)", cfg.Memory.Backend)
	return &HAL{
		Compute: compute.NewHostService(),
		Tensor:  tensor.NewCPUOps(),
		Emotion: engine,
		Memory:  store,
	}, nil
}

func newStore(cfg *config.Config) (celestial.Store, error) {
	switch cfg.Memory.Backend {
	case config.BackendSQLite:
		return celestial.NewSQLiteStore(cfg.Memory.DatabasePath)
	case config.BackendInMemory, "":
		return celestial.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown memory backend %q", cfg.Memory.Backend)
	}
}

// Close releases backend resources, today only the memory store.
func (h *HAL) Close() error {
	if h.Memory != nil {
		return h.Memory.Close()
	}
	return nil
}
