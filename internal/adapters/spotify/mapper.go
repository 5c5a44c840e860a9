package spotify

import (
	"github.com/lucasbflopes/spotify-track-classifier/internal/core/domain"
)

// mapTrackToDomain converts a search hit to a domain track. Only the first
// artist is kept, matching how the predictor displays results.
func mapTrackToDomain(st spotifyTrack) domain.Track {
	artist := ""
	if len(st.Artists) > 0 {
		artist = st.Artists[0].Name
	}
	return domain.Track{
		ID:     st.ID,
		Title:  st.Name,
		Artist: artist,
	}
}

// mapPlaylistsToDomain flattens a category listing into owner/playlist pairs,
// skipping withheld (null) entries.
func mapPlaylistsToDomain(items []*spotifySimplePlaylist) []domain.PlaylistRef {
	refs := make([]domain.PlaylistRef, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		refs = append(refs, domain.PlaylistRef{OwnerID: item.Owner.ID, ID: item.ID})
	}
	return refs
}

// mapPlaylistTracksToDomain keeps only items that still point at a catalog track.
func mapPlaylistTracksToDomain(items []spotifyPlaylistItem) []domain.PlaylistTrack {
	tracks := make([]domain.PlaylistTrack, 0, len(items))
	for _, item := range items {
		if item.Track == nil || item.Track.ID == nil {
			continue
		}
		tracks = append(tracks, domain.PlaylistTrack{Title: item.Track.Name, ID: *item.Track.ID})
	}
	return tracks
}
