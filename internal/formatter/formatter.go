// package formatter renders menu text, track tables and playback state as
// plain terminal output
package formatter

import (
	"bytes"
	"fmt"

	"github.com/renancavalcantercb/SpotCLI/internal/models"
	"github.com/renancavalcantercb/SpotCLI/internal/shared"
	"github.com/renancavalcantercb/SpotCLI/internal/ui"
)

// menuEntries are the eight fixed menu lines, in dispatch order.
var menuEntries = []string{
	"1. Play/Pause",
	"2. Next Track",
	"3. Previous Track",
	"4. Search Track",
	"5. My Playlists",
	"6. Current Track Info",
	"7. Adjust Volume",
	"0. Exit",
}

// Menu renders the fixed numbered menu.
func Menu() string {
	var buf bytes.Buffer

	buf.WriteString(ui.DefaultPalette.Title("===== Spotify CLI Player ====="))
	buf.WriteString("\n")
	for _, entry := range menuEntries {
		buf.WriteString(entry)
		buf.WriteString("\n")
	}
	buf.WriteString(ui.DefaultPalette.Help("Type the number of an option and press Enter."))
	buf.WriteString("\n")

	return buf.String()
}

// Prompt is the input prompt rendered after the menu.
func Prompt() string {
	return "Choose an option: "
}

// SearchResults renders a numbered table of tracks found for a query.
func SearchResults(query string, tracks []models.Track) string {
	var buf bytes.Buffer

	if len(tracks) == 0 {
		buf.WriteString(ui.DefaultPalette.Warn("No tracks found."))
		buf.WriteString("\n")
		return buf.String()
	}

	buf.WriteString(ui.DefaultPalette.Title(fmt.Sprintf("Results for %q", query)))
	buf.WriteString("\n")

	for i, track := range tracks {
		duration := shared.FormatDuration(track.Duration)
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, track.Artist, track.Title, albumPart, duration))
	}

	return buf.String()
}

// PlaylistList renders the user's playlists with track counts.
func PlaylistList(playlists []models.Playlist) string {
	var buf bytes.Buffer

	if len(playlists) == 0 {
		buf.WriteString(ui.DefaultPalette.Warn("No playlists found."))
		buf.WriteString("\n")
		return buf.String()
	}

	buf.WriteString(ui.DefaultPalette.Title("Your Playlists"))
	buf.WriteString("\n")

	for i, p := range playlists {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, p.Name))
		if p.Owner != "" {
			buf.WriteString(fmt.Sprintf("   Owner: %s\n", p.Owner))
		}
		buf.WriteString(fmt.Sprintf("   Tracks: %d\n", p.TrackCount))
		buf.WriteString(fmt.Sprintf("   Visibility: %s\n", shared.VisibilityString(p.Public)))
	}

	return buf.String()
}

// NowPlaying renders the current playback state with track progress, shuffle
// and repeat modes, and the active device.
func NowPlaying(np *models.NowPlaying) string {
	var buf bytes.Buffer

	if np == nil {
		buf.WriteString(ui.DefaultPalette.Warn("No track currently playing."))
		buf.WriteString("\n")
		return buf.String()
	}

	buf.WriteString(ui.DefaultPalette.Title("Now Playing"))
	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf("Track: %s\n", np.Track.Title))
	buf.WriteString(fmt.Sprintf("Artist: %s\n", np.Track.Artist))
	if np.Track.Album != "" {
		buf.WriteString(fmt.Sprintf("Album: %s\n", np.Track.Album))
	}

	progress := shared.FormatDuration(np.ProgressMS / 1000)
	duration := shared.FormatDuration(np.DurationMS / 1000)
	buf.WriteString(fmt.Sprintf("Progress: %s/%s (%.1f%%)\n", progress, duration, progressPercent(np)))

	buf.WriteString(fmt.Sprintf("Shuffle: %s\n", onOff(np.Shuffle)))
	buf.WriteString(fmt.Sprintf("Repeat: %s\n", RepeatString(np.Repeat)))

	if np.Device.Name != "" {
		buf.WriteString(fmt.Sprintf("Device: %s (%s, volume %d%%)\n", np.Device.Name, np.Device.Type, np.Device.Volume))
	}

	return buf.String()
}

// RepeatString translates the API repeat state into menu wording.
func RepeatString(state string) string {
	switch state {
	case "track":
		return "Track"
	case "context":
		return "Playlist/Album"
	default:
		return "Off"
	}
}

func onOff(b bool) string {
	if b {
		return "On"
	}
	return "Off"
}

func progressPercent(np *models.NowPlaying) float64 {
	if np.DurationMS <= 0 {
		return 0
	}
	return float64(np.ProgressMS) / float64(np.DurationMS) * 100
}
