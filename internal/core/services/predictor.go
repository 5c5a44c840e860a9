package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/ports"
)

// Prediction is the classifier's answer for one searched track.
type Prediction struct {
	Track domain.Track
	Genre string
}

// Predictor looks a track up in the catalog and classifies its audio features.
type Predictor struct {
	catalog ports.CatalogProvider
	model   ports.GenreClassifier
	log     *zap.Logger
}

// NewPredictor constructs a Predictor.
func NewPredictor(catalog ports.CatalogProvider, model ports.GenreClassifier, log *zap.Logger) *Predictor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Predictor{catalog: catalog, model: model, log: log.Named("predictor")}
}

// Predict searches for query, fetches the top hit's features in the model's
// column order and returns the predicted genre. A track with any missing
// feature is refused with domain.ErrMissingFeatures.
func (p *Predictor) Predict(ctx context.Context, query string) (Prediction, error) {
	track, err := p.catalog.SearchTrack(ctx, query)
	if err != nil {
		return Prediction{}, fmt.Errorf("service: search track: %w", err)
	}

	table, err := p.catalog.GetAudioFeatures(ctx, p.model.Features(), []string{track.ID})
	if err != nil {
		return Prediction{}, fmt.Errorf("service: audio features: %w", err)
	}
	if table.Len() != 1 {
		return Prediction{}, fmt.Errorf("service: %w: expected features for 1 track, got %d", domain.ErrMalformedResponse, table.Len())
	}

	features := table.Rows[0]
	if !features.Complete() {
		return Prediction{}, fmt.Errorf("service: track %q: %w", track.Title, domain.ErrMissingFeatures)
	}

	genre, err := p.model.PredictOne(features)
	if err != nil {
		return Prediction{}, fmt.Errorf("service: predict: %w", err)
	}

	p.log.Debug("prediction",
		zap.String("track_id", track.ID),
		zap.String("genre", genre),
	)
	return Prediction{Track: track, Genre: genre}, nil
}
