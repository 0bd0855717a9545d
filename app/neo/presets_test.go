package neo

import (
	"os"
	"path/filepath"
	"testing"
)

func writePreset(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestPresetCacheLoad(t *testing.T) {
	tempDir := t.TempDir()
	writePreset(t, tempDir, "closest-hazards", `
description: "Hazardous objects, nearest first"
filters:
  hazardous_only: true
  sort_by: distance_asc
`)
	writePreset(t, tempDir, "biggest", `
filters:
  sort_by: diameter_desc
`)

	cache := NewPresetCache(tempDir)
	if err := cache.Run(); err != nil {
		t.Fatal(err)
	}

	if cache.GetPresetCount() != 2 {
		t.Errorf("Expected 2 presets, got %d", cache.GetPresetCount())
	}

	preset, err := cache.GetPreset("closest-hazards")
	if err != nil {
		t.Fatal(err)
	}
	if preset.Name != "closest-hazards" {
		t.Errorf("Expected name from filename, got %q", preset.Name)
	}
	if !preset.Filters.HazardousOnly || preset.Filters.SortBy != SortDistanceAsc {
		t.Errorf("Unexpected filters: %+v", preset.Filters)
	}

	presets := cache.GetPresets()
	if presets[0].Name != "biggest" || presets[1].Name != "closest-hazards" {
		t.Errorf("Expected presets sorted by name, got %s, %s", presets[0].Name, presets[1].Name)
	}
}

func TestPresetCacheInvalidSort(t *testing.T) {
	tempDir := t.TempDir()
	writePreset(t, tempDir, "broken", `
filters:
  sort_by: alphabetical
`)

	if err := NewPresetCache(tempDir).Run(); err == nil {
		t.Error("Expected error for unknown sort order")
	}
}

func TestPresetCacheMissingDir(t *testing.T) {
	cache := NewPresetCache(filepath.Join(t.TempDir(), "nope"))
	if err := cache.Run(); err != nil {
		t.Errorf("Expected missing directory to be ignored, got %v", err)
	}
	if _, err := cache.GetPreset("anything"); err == nil {
		t.Error("Expected not found error")
	}
}
