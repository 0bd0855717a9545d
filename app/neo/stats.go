package neo

// Stats summarizes a listing view.
type Stats struct {
	Total         int     `json:"total"`
	Hazardous     int     `json:"hazardous"`
	Safe          int     `json:"safe"`
	AvgDiameterKm float64 `json:"avg_diameter_km"`
}

func ComputeStats(items []Summary) Stats {
	stats := Stats{Total: len(items)}

	var sum float64
	for _, item := range items {
		if item.IsHazardous {
			stats.Hazardous++
		}
		sum += item.AverageDiameterKm()
	}
	stats.Safe = stats.Total - stats.Hazardous

	denominator := stats.Total
	if denominator == 0 {
		denominator = 1
	}
	stats.AvgDiameterKm = sum / float64(denominator)

	return stats
}
