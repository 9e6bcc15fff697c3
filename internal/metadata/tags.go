// Package metadata derives the container tags applied to a finished
// recording at merge time.
package metadata

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"aircheck/internal/config"
)

var titleCaser = cases.Title(language.English)

// Tags holds the container metadata for a merged recording.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Genre  string
}

// ForRecording builds tags for a finished recording. The title is the output
// file name without extension, matching the historic naming scheme. Artist
// and album fall back to a title-cased station name when the station does
// not configure them.
func ForRecording(stationName string, station config.Station, outputName string) Tags {
	display := DisplayName(stationName)

	title := strings.TrimSuffix(outputName, ".mp3")
	artist := station.Artist
	if artist == "" {
		artist = display
	}
	album := station.Album
	if album == "" {
		album = display
	}
	genre := station.Genre
	if genre == "" {
		genre = "radio"
	}

	return Tags{Title: title, Artist: artist, Album: album, Genre: genre}
}

// DisplayName normalizes a station key into a human-readable name.
func DisplayName(stationName string) string {
	name := strings.TrimSpace(stationName)
	if name == "" {
		return ""
	}
	if name == strings.ToLower(name) {
		return titleCaser.String(name)
	}
	return name
}

// Map converts tags to the ffmpeg metadata key/value form.
func (t Tags) Map() map[string]string {
	return map[string]string{
		"title":  t.Title,
		"artist": t.Artist,
		"album":  t.Album,
		"genre":  t.Genre,
	}
}
