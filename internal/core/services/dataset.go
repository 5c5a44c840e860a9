package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/ports"
)

const (
	defaultPlaylistLimit = 50
	defaultTrackLimit    = 100
)

// BuilderOptions tunes DatasetBuilder. Zero values take the defaults: the
// declared feature list, 50 playlists per category, 100 tracks per playlist.
type BuilderOptions struct {
	Features      []string
	PlaylistLimit int
	TrackLimit    int
}

// DatasetBuilder walks categories, their playlists and the playlists' tracks
// and assembles one labeled row per track.
type DatasetBuilder struct {
	catalog ports.CatalogProvider
	log     *zap.Logger
	opts    BuilderOptions
}

// NewDatasetBuilder constructs a DatasetBuilder.
func NewDatasetBuilder(catalog ports.CatalogProvider, log *zap.Logger, opts BuilderOptions) *DatasetBuilder {
	if log == nil {
		log = zap.NewNop()
	}
	if len(opts.Features) == 0 {
		opts.Features = domain.DefaultFeatureNames()
	}
	if opts.PlaylistLimit <= 0 {
		opts.PlaylistLimit = defaultPlaylistLimit
	}
	if opts.TrackLimit <= 0 {
		opts.TrackLimit = defaultTrackLimit
	}
	return &DatasetBuilder{catalog: catalog, log: log.Named("dataset"), opts: opts}
}

// Build fetches every category in order and labels each track with the
// category it was found under. Playlists without tracks are skipped; missing
// feature values are kept as missing.
func (b *DatasetBuilder) Build(ctx context.Context, categories []string) (*domain.Dataset, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("service: %w: no categories to build from", domain.ErrInvalidArgument)
	}

	dataset, err := domain.NewDataset(b.opts.Features)
	if err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	for _, category := range categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		before := dataset.Len()
		b.log.Info("starting category", zap.String("category", category))

		playlists, err := b.catalog.ListCategoryPlaylists(ctx, category, b.opts.PlaylistLimit)
		if err != nil {
			return nil, fmt.Errorf("service: list playlists for %q: %w", category, err)
		}

		for _, pl := range playlists {
			if err := b.appendPlaylist(ctx, dataset, category, pl); err != nil {
				return nil, err
			}
		}

		b.log.Info("finished category",
			zap.String("category", category),
			zap.Int("playlists", len(playlists)),
			zap.Int("rows", dataset.Len()-before),
		)
	}

	b.log.Info("dataset built", zap.Int("rows", dataset.Len()), zap.Int("categories", len(categories)))
	return dataset, nil
}

func (b *DatasetBuilder) appendPlaylist(ctx context.Context, dataset *domain.Dataset, category string, pl domain.PlaylistRef) error {
	tracks, err := b.catalog.ListPlaylistTracks(ctx, pl.OwnerID, pl.ID, b.opts.TrackLimit)
	if err != nil {
		return fmt.Errorf("service: list tracks of playlist %s: %w", pl.ID, err)
	}
	if len(tracks) == 0 {
		b.log.Debug("skipping empty playlist", zap.String("playlist", pl.ID))
		return nil
	}

	table, err := b.catalog.GetAudioFeatures(ctx, dataset.Features, domain.TrackIDs(tracks))
	if err != nil {
		return fmt.Errorf("service: audio features for playlist %s: %w", pl.ID, err)
	}
	if err := dataset.AppendTable(domain.TrackTitles(tracks), category, table); err != nil {
		return fmt.Errorf("service: playlist %s: %w", pl.ID, err)
	}

	b.log.Debug("playlist added",
		zap.String("category", category),
		zap.String("playlist", pl.ID),
		zap.Int("tracks", len(tracks)),
	)
	return nil
}
