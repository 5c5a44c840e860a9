package ports

import "github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"

// GenreClassifier predicts a genre label from one feature vector laid out in
// the classifier's trained column order.
type GenreClassifier interface {
	Features() []string
	PredictOne(features domain.FeatureVector) (string, error)
}
