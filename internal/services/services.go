// package services defines interface Player for remote playback control.
//
// Spotify is the only implementation; the interface is the seam that lets the
// menu loop run against a test double without a network dependency.
package services

import (
	"context"

	"github.com/renancavalcantercb/SpotCLI/internal/models"
)

// Player defines the capability surface the menu dispatcher binds its choices
// to. Every method performs a single remote operation; implementations may
// issue more than one HTTP request to satisfy it (toggling playback reads the
// playback state first).
type Player interface {
	// TogglePlayback pauses playback when something is playing and resumes it
	// otherwise. Returns the resulting playing state.
	TogglePlayback(ctx context.Context) (bool, error)

	// SkipNext skips to the next track in the queue.
	SkipNext(ctx context.Context) error

	// SkipPrevious returns to the previous track.
	SkipPrevious(ctx context.Context) error

	// SearchTracks searches tracks matching the free-text query.
	SearchTracks(ctx context.Context, query string) ([]models.Track, error)

	// Playlists retrieves the authenticated user's playlists.
	Playlists(ctx context.Context) ([]models.Playlist, error)

	// NowPlaying reports the current playback state, or nil when nothing is
	// playing.
	NowPlaying(ctx context.Context) (*models.NowPlaying, error)

	// SetVolume sets the active device volume to a percentage in [0, 100].
	SetVolume(ctx context.Context, percent int) error

	// Name returns the name of the service (e.g. "Spotify")
	Name() string
}
