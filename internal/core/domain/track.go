package domain

// Track represents a catalog track in the domain layer.
// Identity is the Spotify ID; Title and Artist are display metadata.
type Track struct {
	ID     string
	Title  string
	Artist string
}
