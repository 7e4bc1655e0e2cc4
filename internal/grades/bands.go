package grades

import "github.com/Spok95/vocab-scale/internal/models"

// Bands returns the empty histogram, highest band first. A total is counted in the
// first band whose Min it reaches, so totals above 100 fall into 90-100.
func Bands() []models.ScoreBand {
	return []models.ScoreBand{
		{Label: "90-100", Min: 90, Max: 100},
		{Label: "80-89", Min: 80, Max: 89},
		{Label: "70-79", Min: 70, Max: 79},
		{Label: "60-69", Min: 60, Max: 69},
		{Label: "<60", Min: 0, Max: 59},
	}
}

func Histogram(rows []models.GradeSummary) []models.ScoreBand {
	bands := Bands()
	last := len(bands) - 1
	for _, r := range rows {
		i := 0
		for i < last && r.TotalScore < bands[i].Min {
			i++
		}
		bands[i].Count++
	}
	return bands
}
