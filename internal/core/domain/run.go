package domain

import "time"

// TrainingRun is the record of one trainer invocation.
type TrainingRun struct {
	ID           string
	Model        string
	Params       map[string]float64
	Rows         int
	CVAccuracy   float64
	TestAccuracy float64
	ArtifactPath string
	CreatedAt    time.Time
}
