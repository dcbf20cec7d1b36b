// internal/levels/levels.go
//
// Provides level content management for the game engine.
//
// Responsibilities:
//   - Load the level pack from an environment-provided file or fall back to the
//     embedded default (assets/levels.yaml).
//   - Validate content before it reaches players.
//   - Index levels by id for quick lookups.
//
// Initialization behavior (Init):
//   1. If LEVELS_FILE is set, load that YAML file.
//   2. Otherwise use the embedded pack.
//
// Initialization is run once (sync.Once).

package levels

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/rightsquest/assets"
	"github.com/robalobadob/rightsquest/internal/game"
)

// packFile is the on-disk shape of a level pack.
type packFile struct {
	Levels []game.Level `yaml:"levels"`
}

var (
	once    sync.Once
	initErr error

	mu   sync.RWMutex
	all  []game.Level
	byID map[int]game.Level
)

// Init loads and validates the level pack. Safe to call more than once.
func Init() error {
	once.Do(func() {
		var (
			lv  []game.Level
			err error
		)
		if path := os.Getenv("LEVELS_FILE"); path != "" {
			lv, err = LoadFile(path)
		} else {
			lv, err = loadEmbedded()
		}
		if err != nil {
			initErr = err
			return
		}
		Set(lv)
	})
	return initErr
}

// Load parses and validates a YAML level pack.
func Load(r io.Reader) ([]game.Level, error) {
	var pf packFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		return nil, fmt.Errorf("parse levels: %w", err)
	}
	if err := Validate(pf.Levels); err != nil {
		return nil, err
	}
	sort.Slice(pf.Levels, func(i, j int) bool { return pf.Levels[i].ID < pf.Levels[j].ID })
	return pf.Levels, nil
}

// LoadFile reads a level pack from path.
func LoadFile(path string) ([]game.Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

func loadEmbedded() ([]game.Level, error) {
	f, err := assets.OpenLevels()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Set replaces the active level pack. Levels must already be validated.
func Set(lv []game.Level) {
	idx := make(map[int]game.Level, len(lv))
	for _, l := range lv {
		idx[l.ID] = l
	}
	mu.Lock()
	all, byID = lv, idx
	mu.Unlock()
}

// All returns every level in id order.
func All() []game.Level {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]game.Level, len(all))
	copy(out, all)
	return out
}

// ByID looks up one level.
func ByID(id int) (game.Level, bool) {
	mu.RLock()
	defer mu.RUnlock()
	l, ok := byID[id]
	return l, ok
}

// Count returns the number of loaded levels.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(all)
}
