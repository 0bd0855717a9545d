// Package compare derives chart and table ready records from a selection of
// near-Earth objects.
package compare

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/lysyi3m/neo-comb/app/neo"
)

// Record is one row of the comparison table.
type Record struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	ShortName         string  `json:"short_name"` // positional chart label
	FullName          string  `json:"full_name"`
	Diameter          float64 `json:"diameter"`
	Velocity          float64 `json:"velocity"`
	Distance          float64 `json:"distance"`
	DistanceMillions  float64 `json:"distance_millions"`
	LunarDistance     float64 `json:"lunar_distance"`
	Hazardous         int     `json:"hazardous"`
	ApproachDate      string  `json:"approach_date"`
	ApproachTimestamp int64   `json:"approach_timestamp"`
}

// RadarPoint holds per-axis scores in [0, 100], relative to the largest value
// on that axis across the compared set.
type RadarPoint struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Diameter      float64 `json:"diameter"`
	Velocity      float64 `json:"velocity"`
	Distance      float64 `json:"distance"`
	LunarDistance float64 `json:"lunar_distance"`
}

type Summary struct {
	Count       int     `json:"count"`
	Hazardous   int     `json:"hazardous"`
	MaxDiameter float64 `json:"max_diameter"`
	MaxVelocity float64 `json:"max_velocity"`
}

type Report struct {
	Records  []Record     `json:"records"`
	Radar    []RadarPoint `json:"radar"`
	Timeline []Record     `json:"timeline"`
	Summary  Summary      `json:"summary"`
}

func DeriveMetrics(items []neo.Summary) []Record {
	records := make([]Record, 0, len(items))
	for i, item := range items {
		approach, _ := item.FirstApproach()

		record := Record{
			ID:               item.ID,
			Name:             neo.ShortName(item.Name, i),
			ShortName:        fmt.Sprintf("NEO %d", i+1),
			FullName:         neo.DisplayName(item.Name),
			Diameter:         item.AverageDiameterKm(),
			Velocity:         approach.RelativeVelocity.KmPerHour,
			Distance:         approach.MissDistance.Km,
			DistanceMillions: approach.MissDistance.Km / 1_000_000,
			LunarDistance:    approach.MissDistance.Lunar,
			ApproachDate:     approach.Date,
		}
		if item.IsHazardous {
			record.Hazardous = 1
		}
		if approach.Date != "" {
			record.ApproachTimestamp = neo.ParseDate(approach.Date).UnixMilli()
		}

		records = append(records, record)
	}
	return records
}

func DeriveRadarScores(records []Record) []RadarPoint {
	var maxDiameter, maxVelocity, maxDistance, maxLunar float64
	for _, r := range records {
		maxDiameter = max(maxDiameter, r.Diameter)
		maxVelocity = max(maxVelocity, r.Velocity)
		maxDistance = max(maxDistance, r.DistanceMillions)
		maxLunar = max(maxLunar, r.LunarDistance)
	}

	points := make([]RadarPoint, 0, len(records))
	for _, r := range records {
		points = append(points, RadarPoint{
			ID:            r.ID,
			Name:          r.ShortName,
			Diameter:      score(r.Diameter, maxDiameter),
			Velocity:      score(r.Velocity, maxVelocity),
			Distance:      score(r.DistanceMillions, maxDistance),
			LunarDistance: score(r.LunarDistance, maxLunar),
		})
	}
	return points
}

func score(value, axisMax float64) float64 {
	if axisMax <= 0 || value <= 0 {
		return 0
	}
	return min(value/axisMax*100, 100)
}

// Chronological returns a copy of records ordered by approach timestamp.
func Chronological(records []Record) []Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		return cmp.Compare(a.ApproachTimestamp, b.ApproachTimestamp)
	})
	return sorted
}

func Summarize(records []Record) Summary {
	summary := Summary{Count: len(records)}
	for _, r := range records {
		summary.Hazardous += r.Hazardous
		summary.MaxDiameter = max(summary.MaxDiameter, r.Diameter)
		summary.MaxVelocity = max(summary.MaxVelocity, r.Velocity)
	}
	return summary
}

// Build runs the full comparison for a selection. Fewer than two selected
// objects is a validation error.
func Build(sel neo.Selection) (*Report, error) {
	if err := sel.ValidateCompare(); err != nil {
		return nil, err
	}

	records := DeriveMetrics(sel.Items())
	return &Report{
		Records:  records,
		Radar:    DeriveRadarScores(records),
		Timeline: Chronological(records),
		Summary:  Summarize(records),
	}, nil
}
