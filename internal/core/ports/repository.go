package ports

import (
	"context"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
)

// RunRepository records training runs and their evaluation scores.
type RunRepository interface {
	GetByID(ctx context.Context, id string) (domain.TrainingRun, error)
	Save(ctx context.Context, run domain.TrainingRun) error
	List(ctx context.Context, limit int) ([]domain.TrainingRun, error)
}
