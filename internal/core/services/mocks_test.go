package services

import (
	"context"
	"slices"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
)

// --- Mocks ---

// mockCatalog serves canned catalog data keyed by category, playlist and track.
type mockCatalog struct {
	track     domain.Track
	searchErr error

	playlists    map[string][]domain.PlaylistRef
	playlistErr  error
	tracks       map[string][]domain.PlaylistTrack
	tracksErr    error
	features     map[string]domain.FeatureVector
	featuresErr  error
	featureCalls [][]string
}

func (m *mockCatalog) SearchTrack(ctx context.Context, query string) (domain.Track, error) {
	if m.searchErr != nil {
		return domain.Track{}, m.searchErr
	}
	return m.track, nil
}

func (m *mockCatalog) ListCategoryPlaylists(ctx context.Context, category string, limit int) ([]domain.PlaylistRef, error) {
	if m.playlistErr != nil {
		return nil, m.playlistErr
	}
	return append([]domain.PlaylistRef{}, m.playlists[category]...), nil
}

func (m *mockCatalog) ListPlaylistTracks(ctx context.Context, ownerID, playlistID string, limit int) ([]domain.PlaylistTrack, error) {
	if m.tracksErr != nil {
		return nil, m.tracksErr
	}
	return m.tracks[playlistID], nil
}

func (m *mockCatalog) GetAudioFeatures(ctx context.Context, featureNames []string, trackIDs []string) (domain.FeatureTable, error) {
	m.featureCalls = append(m.featureCalls, slices.Clone(trackIDs))
	if m.featuresErr != nil {
		return domain.FeatureTable{}, m.featuresErr
	}
	table := domain.NewFeatureTable(featureNames)
	for _, id := range trackIDs {
		v, ok := m.features[id]
		if !ok {
			v = domain.MissingVector(len(featureNames))
		}
		if err := table.Append(id, v); err != nil {
			return domain.FeatureTable{}, err
		}
	}
	return table, nil
}

// mockRuns records saved training runs.
type mockRuns struct {
	saved   []domain.TrainingRun
	saveErr error
}

func (m *mockRuns) GetByID(ctx context.Context, id string) (domain.TrainingRun, error) {
	for _, r := range m.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.TrainingRun{}, domain.ErrNotFound
}

func (m *mockRuns) Save(ctx context.Context, run domain.TrainingRun) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, run)
	return nil
}

func (m *mockRuns) List(ctx context.Context, limit int) ([]domain.TrainingRun, error) {
	return m.saved, nil
}

// mockClassifier returns a fixed genre and remembers its input.
type mockClassifier struct {
	features []string
	genre    string
	err      error

	called   bool
	received domain.FeatureVector
}

func (m *mockClassifier) Features() []string {
	return m.features
}

func (m *mockClassifier) PredictOne(v domain.FeatureVector) (string, error) {
	m.called = true
	m.received = v
	return m.genre, m.err
}
