package domain

// PlaylistRef points at a playlist through its owner, which is how the
// users/{user_id}/playlists/{playlist_id}/tracks endpoint addresses it.
type PlaylistRef struct {
	OwnerID string
	ID      string
}

// PlaylistTrack is one playable entry of a playlist listing.
type PlaylistTrack struct {
	Title string
	ID    string
}

// TrackIDs returns the ids of the given entries in playlist order.
func TrackIDs(tracks []PlaylistTrack) []string {
	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}
	return ids
}

// TrackTitles returns the titles of the given entries in playlist order.
func TrackTitles(tracks []PlaylistTrack) []string {
	titles := make([]string, len(tracks))
	for i, t := range tracks {
		titles[i] = t.Title
	}
	return titles
}
