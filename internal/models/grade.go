package models

// GradeSummary is derived from the ledger on every query and never stored.
type GradeSummary struct {
	StudentID     string
	Name          string
	ClassName     string
	StudentNum    int
	TotalScore    int
	TotalAttempts int
	Accuracy      float64
}

// ScoreBand is one bucket of the class histogram. Bands are matched by Min only,
// so accumulated totals above 100 land in the top band.
type ScoreBand struct {
	Label string
	Min   int
	Max   int
	Count int
}

type ClassStatistics struct {
	ClassName string
	Students  []GradeSummary
	Bands     []ScoreBand
	Total     int
}
