package neo

// sample builds a normalized object with a single Earth approach.
func sample(id string, hazardous bool, maxKm float64, date string, missKm float64) Summary {
	s := Summary{
		ID:            id,
		Name:          "(" + id + ")",
		IsHazardous:   hazardous,
		DiameterKmMin: maxKm / 2,
		DiameterKmMax: maxKm,
	}
	if date != "" {
		s.CloseApproaches = []Approach{{
			Date:             date,
			MissDistance:     Distance{Km: missKm, Lunar: missKm / 384400},
			RelativeVelocity: Velocity{KmPerHour: 40000, KmPerSecond: 11.1},
			OrbitingBody:     "Earth",
		}}
	}
	return s
}

func ids(items []Summary) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

const feedFixture = `{
  "element_count": 3,
  "near_earth_objects": {
    "2024-01-02": [
      {
        "id": "3542519",
        "neo_reference_id": "3542519",
        "name": "(2010 PK9)",
        "nasa_jpl_url": "https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=3542519",
        "is_potentially_hazardous_asteroid": true,
        "estimated_diameter": {
          "kilometers": {"estimated_diameter_min": 0.1, "estimated_diameter_max": 0.3}
        },
        "close_approach_data": [
          {
            "close_approach_date": "2024-01-02",
            "close_approach_date_full": "2024-Jan-02 10:15",
            "relative_velocity": {"kilometers_per_second": "20.5", "kilometers_per_hour": "73800.1"},
            "miss_distance": {"astronomical": "0.02", "lunar": "7.78", "kilometers": "2991882.6"},
            "orbiting_body": "Earth"
          }
        ],
        "orbital_data": {"orbit_id": "42"}
      }
    ],
    "2024-01-01": [
      {
        "id": "2000433",
        "name": "433 Eros (A898 PA)",
        "is_potentially_hazardous_asteroid": false,
        "estimated_diameter": {
          "kilometers": {"estimated_diameter_min": "22.1", "estimated_diameter_max": "49.4"}
        },
        "close_approach_data": [
          {
            "close_approach_date": "2024-01-01",
            "relative_velocity": {"kilometers_per_second": "5.5", "kilometers_per_hour": "bogus"},
            "miss_distance": {"astronomical": null, "lunar": "58.2", "kilometers": 22367890}
          }
        ]
      },
      {
        "id": "54016361",
        "name": "(2020 AB)",
        "is_potentially_hazardous_asteroid": false,
        "estimated_diameter": {
          "kilometers": {"estimated_diameter_min": -1, "estimated_diameter_max": 0.01}
        },
        "close_approach_data": []
      }
    ]
  }
}`
