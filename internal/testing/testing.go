// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/renancavalcantercb/SpotCLI/internal/models"
	"golang.org/x/oauth2"
)

// PlayerCall records a single invocation on [FakePlayer].
type PlayerCall struct {
	Method  string
	Query   string
	Percent int
}

// FakePlayer is a test double for [services.Player] that records every call
// and returns canned data or a scripted error.
type FakePlayer struct {
	mu    sync.Mutex
	Calls []PlayerCall

	Err           error
	Playing       bool
	Tracks        []models.Track
	PlaylistItems []models.Playlist
	State         *models.NowPlaying
	SessionTok    *oauth2.Token
}

func (f *FakePlayer) record(call PlayerCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

// CallCount returns the number of remote calls made so far.
func (f *FakePlayer) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

func (f *FakePlayer) TogglePlayback(ctx context.Context) (bool, error) {
	f.record(PlayerCall{Method: "TogglePlayback"})
	return f.Playing, f.Err
}

func (f *FakePlayer) SkipNext(ctx context.Context) error {
	f.record(PlayerCall{Method: "SkipNext"})
	return f.Err
}

func (f *FakePlayer) SkipPrevious(ctx context.Context) error {
	f.record(PlayerCall{Method: "SkipPrevious"})
	return f.Err
}

func (f *FakePlayer) SearchTracks(ctx context.Context, query string) ([]models.Track, error) {
	f.record(PlayerCall{Method: "SearchTracks", Query: query})
	return f.Tracks, f.Err
}

func (f *FakePlayer) Playlists(ctx context.Context) ([]models.Playlist, error) {
	f.record(PlayerCall{Method: "Playlists"})
	return f.PlaylistItems, f.Err
}

func (f *FakePlayer) NowPlaying(ctx context.Context) (*models.NowPlaying, error) {
	f.record(PlayerCall{Method: "NowPlaying"})
	return f.State, f.Err
}

func (f *FakePlayer) SetVolume(ctx context.Context, percent int) error {
	f.record(PlayerCall{Method: "SetVolume", Percent: percent})
	return f.Err
}

func (f *FakePlayer) Name() string { return "fake" }

// SessionToken returns the scripted token pair, mirroring the session
// persistence surface of the real service.
func (f *FakePlayer) SessionToken() (*oauth2.Token, error) {
	if f.SessionTok == nil {
		return nil, errors.New("no session token")
	}
	return f.SessionTok, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// SeqRoundTripper serves a fixed sequence of HTTP responses and records the
// requests it saw. Fails once the script runs out.
type SeqRoundTripper struct {
	next      int
	Responses []*http.Response
	Requests  []*http.Request
}

func NewSeqRoundTripper(responses ...*http.Response) *SeqRoundTripper {
	return &SeqRoundTripper{Responses: responses}
}

func (s *SeqRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	s.Requests = append(s.Requests, req)
	if s.next >= len(s.Responses) {
		return nil, errors.New("no scripted response left")
	}
	resp := s.Responses[s.next]
	s.next++
	resp.Request = req
	return resp, nil
}

// NewJSONResponse builds an HTTP response with a JSON body for scripting.
func NewJSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// NewEmptyResponse builds a bodyless HTTP response, as returned by the player
// command endpoints on success.
func NewEmptyResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("")),
	}
}
