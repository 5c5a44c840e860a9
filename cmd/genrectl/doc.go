// Command genrectl is the operator CLI for the genre classifier: it builds
// the labelled dataset from Spotify, trains and tunes models, plots learning
// curves as tables, and lists past training runs.
package main
