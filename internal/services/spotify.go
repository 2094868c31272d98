// Spotify implementation of [Player]
//
// Playback control, search and playlist listing are delegated to the
// zmb3/spotify client library; OAuth token exchange and refresh are delegated
// to its auth package. This file only projects responses onto [models] types
// and classifies failures.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/renancavalcantercb/SpotCLI/internal/models"
	"github.com/renancavalcantercb/SpotCLI/internal/shared"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// searchLimit caps search results at one screen of menu output.
const searchLimit = 10

// playlistLimit is the page size used when listing the user's playlists.
const playlistLimit = 50

// SpotifyService implements [Player] on top of the Spotify Web API.
type SpotifyService struct {
	auth   *spotifyauth.Authenticator
	client *spotify.Client
}

// NewSpotifyService creates a Spotify service from credentials. The returned
// service is not usable until [SpotifyService.Authenticate] succeeds.
func NewSpotifyService(cfg shared.SpotifyConfig) (*SpotifyService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = shared.DefaultRedirectURI
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(redirectURI),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserReadPlaybackState,
			spotifyauth.ScopeUserModifyPlaybackState,
			spotifyauth.ScopeUserReadCurrentlyPlaying,
			spotifyauth.ScopePlaylistReadPrivate,
		),
	)

	return &SpotifyService{auth: auth}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the authorization URL the user must visit to grant access.
func (s *SpotifyService) AuthURL(state string) string {
	return s.auth.AuthURL(state)
}

// Authenticator exposes the underlying OAuth authenticator for the callback server.
func (s *SpotifyService) Authenticator() *spotifyauth.Authenticator {
	return s.auth
}

// Authenticate builds the API client from a token pair. The oauth2 transport
// refreshes the access token transparently when it expires.
func (s *SpotifyService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || (token.AccessToken == "" && token.RefreshToken == "") {
		return fmt.Errorf("%w: no token available", shared.ErrNotAuthenticated)
	}
	s.client = spotify.New(s.auth.Client(ctx, token))
	return nil
}

// SessionToken returns the current token pair, including any refresh that
// happened since Authenticate, so the caller can persist it.
func (s *SpotifyService) SessionToken() (*oauth2.Token, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return s.client.Token()
}

// TogglePlayback pauses when something is playing and resumes otherwise.
func (s *SpotifyService) TogglePlayback(ctx context.Context) (bool, error) {
	if s.client == nil {
		return false, shared.ErrNotAuthenticated
	}

	state, err := s.client.PlayerState(ctx)
	if err != nil {
		return false, classify(err)
	}

	if state.Playing {
		if err := s.client.Pause(ctx); err != nil {
			return true, classify(err)
		}
		return false, nil
	}

	if err := s.client.Play(ctx); err != nil {
		return false, classify(err)
	}
	return true, nil
}

// SkipNext skips to the next track.
func (s *SpotifyService) SkipNext(ctx context.Context) error {
	if s.client == nil {
		return shared.ErrNotAuthenticated
	}
	return classify(s.client.Next(ctx))
}

// SkipPrevious returns to the previous track.
func (s *SpotifyService) SkipPrevious(ctx context.Context) error {
	if s.client == nil {
		return shared.ErrNotAuthenticated
	}
	return classify(s.client.Previous(ctx))
}

// SearchTracks searches tracks by free-text query.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string) ([]models.Track, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}

	result, err := s.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(searchLimit))
	if err != nil {
		return nil, classify(err)
	}

	if result.Tracks == nil {
		return nil, nil
	}

	tracks := make([]models.Track, 0, len(result.Tracks.Tracks))
	for _, ft := range result.Tracks.Tracks {
		tracks = append(tracks, trackFromFull(&ft))
	}
	return tracks, nil
}

// Playlists retrieves all playlists of the authenticated user.
func (s *SpotifyService) Playlists(ctx context.Context) ([]models.Playlist, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}

	page, err := s.client.CurrentUsersPlaylists(ctx, spotify.Limit(playlistLimit))
	if err != nil {
		return nil, classify(err)
	}

	var playlists []models.Playlist
	for {
		for _, sp := range page.Playlists {
			playlists = append(playlists, models.Playlist{
				ID:         string(sp.ID),
				Name:       sp.Name,
				Owner:      sp.Owner.DisplayName,
				TrackCount: int(sp.Tracks.Total),
				Public:     sp.IsPublic,
				URI:        string(sp.URI),
			})
		}

		err = s.client.NextPage(ctx, page)
		if errors.Is(err, spotify.ErrNoMorePages) {
			break
		}
		if err != nil {
			return nil, classify(err)
		}
	}

	return playlists, nil
}

// NowPlaying reports the current playback state. Returns nil without error
// when no track is loaded on any device.
func (s *SpotifyService) NowPlaying(ctx context.Context) (*models.NowPlaying, error) {
	if s.client == nil {
		return nil, shared.ErrNotAuthenticated
	}

	state, err := s.client.PlayerState(ctx)
	if err != nil {
		return nil, classify(err)
	}

	if state.Item == nil {
		return nil, nil
	}

	return &models.NowPlaying{
		Track:      trackFromFull(state.Item),
		Playing:    state.Playing,
		ProgressMS: int(state.Progress),
		DurationMS: int(state.Item.Duration),
		Shuffle:    state.ShuffleState,
		Repeat:     state.RepeatState,
		Device: models.Device{
			ID:     string(state.Device.ID),
			Name:   state.Device.Name,
			Type:   state.Device.Type,
			Volume: int(state.Device.Volume),
			Active: state.Device.Active,
		},
	}, nil
}

// SetVolume sets the active device volume. The percent is assumed to be
// validated by the caller; Spotify rejects values outside [0, 100] anyway.
func (s *SpotifyService) SetVolume(ctx context.Context, percent int) error {
	if s.client == nil {
		return shared.ErrNotAuthenticated
	}
	return classify(s.client.Volume(ctx, percent))
}

// trackFromFull projects a Spotify track onto the transient model.
func trackFromFull(ft *spotify.FullTrack) models.Track {
	names := make([]string, 0, len(ft.Artists))
	for _, a := range ft.Artists {
		names = append(names, a.Name)
	}

	return models.Track{
		ID:       string(ft.ID),
		Title:    ft.Name,
		Artist:   strings.Join(names, ", "),
		Album:    ft.Album.Name,
		Duration: int(ft.Duration) / 1000,
		URI:      string(ft.URI),
	}
}

// classify maps client library failures onto the shared error taxonomy so the
// dispatcher can report them without knowing about HTTP.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var se spotify.Error
	if errors.As(err, &se) {
		switch {
		case se.Status == http.StatusNotFound && strings.Contains(strings.ToLower(se.Message), "no active device"):
			return fmt.Errorf("%w: %s", shared.ErrNoActiveDevice, se.Message)
		case se.Status == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s", shared.ErrRateLimited, se.Message)
		case se.Status == http.StatusUnauthorized || se.Status == http.StatusForbidden:
			return fmt.Errorf("%w: %s", shared.ErrAuthFailed, se.Message)
		default:
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, se.Status, se.Message)
		}
	}

	return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
}
