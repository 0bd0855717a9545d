package neo

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strings"
)

const defaultOrbitingBody = "Earth"

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Run decodes a feed response body into the per-date map. Objects are
// normalized but not yet stamped with their date bucket; Flatten does that.
func (p *Parser) Run(data []byte) (DateMap, error) {
	var resp FeedResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	result := make(DateMap, len(resp.NearEarthObjects))
	for date, objects := range resp.NearEarthObjects {
		bucket := make([]Summary, 0, len(objects))
		for _, raw := range objects {
			bucket = append(bucket, Convert(raw))
		}
		result[date] = bucket
	}

	return result, nil
}

// RunObject decodes a single-object lookup response.
func (p *Parser) RunObject(data []byte) (Summary, error) {
	var raw Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return Summary{}, fmt.Errorf("failed to parse object: %w", err)
	}
	if raw.ID == "" {
		return Summary{}, fmt.Errorf("object has no id")
	}
	return Convert(raw), nil
}

func Convert(raw Raw) Summary {
	summary := Summary{
		ID:            raw.ID,
		Name:          raw.Name,
		IsHazardous:   raw.IsPotentiallyHazardous,
		DiameterKmMin: nonNegative(raw.EstimatedDiameter.Kilometers.Min.Float()),
		DiameterKmMax: nonNegative(raw.EstimatedDiameter.Kilometers.Max.Float()),
		ReferenceURL:  raw.NasaJPLURL,
		ReferenceID:   raw.NEOReferenceID,
	}

	if raw.OrbitalData != nil {
		summary.OrbitID = raw.OrbitalData.OrbitID
	}

	summary.CloseApproaches = make([]Approach, 0, len(raw.CloseApproachData))
	for _, a := range raw.CloseApproachData {
		summary.CloseApproaches = append(summary.CloseApproaches, Approach{
			Date:     a.CloseApproachDate,
			DateFull: a.CloseApproachDateFull,
			MissDistance: Distance{
				Km:    a.MissDistance.Kilometers.Float(),
				AU:    a.MissDistance.Astronomical.Float(),
				Lunar: a.MissDistance.Lunar.Float(),
			},
			RelativeVelocity: Velocity{
				KmPerHour:   a.RelativeVelocity.KilometersPerHour.Float(),
				KmPerSecond: a.RelativeVelocity.KilometersPerSecond.Float(),
			},
			OrbitingBody: cmp.Or(strings.TrimSpace(a.OrbitingBody), defaultOrbitingBody),
		})
	}

	return summary
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
