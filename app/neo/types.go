package neo

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by the feed API and by
// every date string in this package.
const DateLayout = "2006-01-02"

// Wire types, decoded from the NASA NeoWs payloads

// Number decodes a numeric field that upstream sends either as a JSON number
// or as a string. Anything missing or unparseable decodes to 0 and never
// fails the surrounding document.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number(parseNumber(data))
	return nil
}

func (n Number) Float() float64 {
	return float64(n)
}

func parseNumber(data []byte) float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0
	}

	text := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0
		}
		text = strings.TrimSpace(s)
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

type FeedResponse struct {
	ElementCount     int              `json:"element_count"`
	NearEarthObjects map[string][]Raw `json:"near_earth_objects"`
}

type Raw struct {
	ID                     string           `json:"id"`
	NEOReferenceID         string           `json:"neo_reference_id"`
	Name                   string           `json:"name"`
	NasaJPLURL             string           `json:"nasa_jpl_url"`
	IsPotentiallyHazardous bool             `json:"is_potentially_hazardous_asteroid"`
	EstimatedDiameter      RawDiameterUnits `json:"estimated_diameter"`
	CloseApproachData      []RawApproach    `json:"close_approach_data"`
	OrbitalData            *RawOrbitalData  `json:"orbital_data,omitempty"`
}

type RawDiameterUnits struct {
	Kilometers RawDiameter `json:"kilometers"`
}

type RawDiameter struct {
	Min Number `json:"estimated_diameter_min"`
	Max Number `json:"estimated_diameter_max"`
}

type RawApproach struct {
	CloseApproachDate     string `json:"close_approach_date"`
	CloseApproachDateFull string `json:"close_approach_date_full"`
	MissDistance          struct {
		Astronomical Number `json:"astronomical"`
		Lunar        Number `json:"lunar"`
		Kilometers   Number `json:"kilometers"`
	} `json:"miss_distance"`
	RelativeVelocity struct {
		KilometersPerSecond Number `json:"kilometers_per_second"`
		KilometersPerHour   Number `json:"kilometers_per_hour"`
	} `json:"relative_velocity"`
	OrbitingBody string `json:"orbiting_body"`
}

type RawOrbitalData struct {
	OrbitID string `json:"orbit_id"`
}

// Normalized types

// DateMap is the canonical per-date feed collection: date key -> objects
// returned by the feed under that date.
type DateMap map[string][]Summary

type Summary struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	IsHazardous     bool       `json:"is_hazardous"`
	DiameterKmMin   float64    `json:"diameter_km_min"`
	DiameterKmMax   float64    `json:"diameter_km_max"`
	CloseApproaches []Approach `json:"close_approaches"`
	ApproachDate    string     `json:"approach_date,omitempty"` // stamped by Flatten
	ReferenceURL    string     `json:"reference_url,omitempty"`
	ReferenceID     string     `json:"reference_id,omitempty"`
	OrbitID         string     `json:"orbit_id,omitempty"`
}

type Approach struct {
	Date             string   `json:"date"`
	DateFull         string   `json:"date_full,omitempty"`
	MissDistance     Distance `json:"miss_distance"`
	RelativeVelocity Velocity `json:"relative_velocity"`
	OrbitingBody     string   `json:"orbiting_body"`
}

type Distance struct {
	Km    float64 `json:"km"`
	AU    float64 `json:"au"`
	Lunar float64 `json:"lunar"`
}

type Velocity struct {
	KmPerHour   float64 `json:"km_per_hour"`
	KmPerSecond float64 `json:"km_per_second"`
}

func (s Summary) AverageDiameterKm() float64 {
	return (s.DiameterKmMin + s.DiameterKmMax) / 2
}

// FirstApproach returns the first approach record, the only one current
// views read. The zero Approach is returned when the feed sent none.
func (s Summary) FirstApproach() (Approach, bool) {
	if len(s.CloseApproaches) == 0 {
		return Approach{}, false
	}
	return s.CloseApproaches[0], true
}

// ResolvedDate prefers the first approach record's own date and falls back
// to the date bucket the object was returned under.
func (s Summary) ResolvedDate() string {
	if a, ok := s.FirstApproach(); ok && a.Date != "" {
		return a.Date
	}
	return s.ApproachDate
}

// ParseDate parses a feed date. Missing or malformed dates resolve to the
// Unix epoch so they sort first.
func ParseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Unix(0, 0).UTC()
	}
	return t
}
