package ports

import (
	"context"
	"fmt"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
)

// TrackNotFoundError provides context for a search that matched nothing.
type TrackNotFoundError struct {
	Query string
}

func (e TrackNotFoundError) Error() string {
	if e.Query == "" {
		return "track not found: empty query"
	}
	return fmt.Sprintf("track not found for query %q", e.Query)
}

func (e TrackNotFoundError) Is(target error) bool {
	return target == domain.ErrNotFound
}

// CatalogProvider is the read-only view of the music catalog the services need.
type CatalogProvider interface {
	SearchTrack(ctx context.Context, query string) (domain.Track, error)
	ListCategoryPlaylists(ctx context.Context, category string, limit int) ([]domain.PlaylistRef, error)
	ListPlaylistTracks(ctx context.Context, ownerID, playlistID string, limit int) ([]domain.PlaylistTrack, error)
	GetAudioFeatures(ctx context.Context, featureNames []string, trackIDs []string) (domain.FeatureTable, error)
}
