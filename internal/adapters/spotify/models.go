package spotify

// spotifyArtist represents an artist reference inside a track object.
type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// spotifyTrack represents the subset of a full track object the adapter reads.
type spotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []spotifyArtist `json:"artists"`
}

// spotifySearchResponse represents GET /search?type=track.
type spotifySearchResponse struct {
	Tracks *struct {
		Items []spotifyTrack `json:"items"`
	} `json:"tracks"`
}

// spotifyOwner represents the owner reference of a simplified playlist.
type spotifyOwner struct {
	ID string `json:"id"`
}

// spotifySimplePlaylist represents one entry of a browse category listing.
type spotifySimplePlaylist struct {
	ID    string       `json:"id"`
	Owner spotifyOwner `json:"owner"`
}

// spotifyCategoryPlaylistsResponse represents GET /browse/categories/{id}/playlists.
// Items may contain nulls for playlists the service withholds.
type spotifyCategoryPlaylistsResponse struct {
	Playlists *struct {
		Items []*spotifySimplePlaylist `json:"items"`
	} `json:"playlists"`
}

// spotifyPlaylistTrack is the track inside a playlist item. ID is a pointer
// because local and removed tracks come back with "id": null.
type spotifyPlaylistTrack struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// spotifyPlaylistItem wraps a track inside a playlist tracks page.
type spotifyPlaylistItem struct {
	Track *spotifyPlaylistTrack `json:"track"`
}

// spotifyPlaylistTracksResponse represents GET /users/{user}/playlists/{id}/tracks.
type spotifyPlaylistTracksResponse struct {
	Items []spotifyPlaylistItem `json:"items"`
}
