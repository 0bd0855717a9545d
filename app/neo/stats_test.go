package neo

import (
	"math"
	"testing"
)

func TestComputeStats(t *testing.T) {
	items := []Summary{
		{ID: "a", IsHazardous: true, DiameterKmMin: 0.1, DiameterKmMax: 0.3},
		{ID: "b", DiameterKmMin: 1, DiameterKmMax: 3},
	}

	stats := ComputeStats(items)

	if stats.Total != 2 || stats.Hazardous != 1 || stats.Safe != 1 {
		t.Errorf("Unexpected counts: %+v", stats)
	}
	if math.Abs(stats.AvgDiameterKm-1.1) > 1e-9 {
		t.Errorf("Expected average 1.1, got %v", stats.AvgDiameterKm)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats != (Stats{}) {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}
