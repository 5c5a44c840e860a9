package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lucasbflopes/spotify-track-classifier/internal/core/services"
)

const labelWidth = 12

var (
	lower = cases.Lower(language.Und)
	upper = cases.Upper(language.Und)
)

// capitalize upper-cases the first letter and lower-cases the rest, so
// "THE BEATLES" prints as "The beatles".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return upper.String(string(r)) + lower.String(s[size:])
}

func writePrediction(w io.Writer, p services.Prediction) error {
	lines := []struct {
		label string
		value string
	}{
		{"Title", p.Track.Title},
		{"Artist", p.Track.Artist},
		{"Prediction", p.Genre},
	}
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "%-*s: %s\n", labelWidth, l.label+" ", capitalize(l.value))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
