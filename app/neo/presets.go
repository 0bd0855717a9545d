package neo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Preset is a named filter configuration loaded from <name>.yml.
type Preset struct {
	Name        string     `json:"name" yaml:"-"` // derived from filename
	Description string     `json:"description,omitempty" yaml:"description"`
	Filters     FilterSpec `json:"filters" yaml:"filters"`
}

type PresetCache struct {
	presetsDir string
	cache      map[string]*Preset
	mu         sync.RWMutex
}

func NewPresetCache(presetsDir string) *PresetCache {
	return &PresetCache{
		presetsDir: presetsDir,
		cache:      make(map[string]*Preset),
	}
}

// Run loads every preset in the directory. A missing directory is not an
// error: the service simply has no presets.
func (pc *PresetCache) Run() error {
	if _, err := os.Stat(pc.presetsDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(pc.presetsDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		presetName := strings.TrimSuffix(filepath.Base(file), ".yml")

		preset, err := pc.LoadPreset(presetName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Preset loaded", "preset", presetName, "sort_by", preset.Filters.SortBy, "hazardous_only", preset.Filters.HazardousOnly)
	}

	return nil
}

func (pc *PresetCache) LoadPreset(presetName string) (*Preset, error) {
	presetFile := filepath.Join(pc.presetsDir, presetName+".yml")

	data, err := os.ReadFile(presetFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var preset Preset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	preset.Name = presetName

	if err := preset.Filters.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preset %s: %w", presetFile, err)
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.cache[preset.Name] = &preset

	return &preset, nil
}

func (pc *PresetCache) GetPreset(presetName string) (*Preset, error) {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	preset, ok := pc.cache[presetName]
	if !ok {
		return nil, fmt.Errorf("preset with name '%s' not found", presetName)
	}
	return preset, nil
}

// GetPresets returns presets sorted by name.
func (pc *PresetCache) GetPresets() []Preset {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	presets := make([]Preset, 0, len(pc.cache))
	for _, p := range pc.cache {
		presets = append(presets, *p)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets
}

func (pc *PresetCache) GetPresetCount() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.cache)
}
