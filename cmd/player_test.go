package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/renancavalcantercb/SpotCLI/internal/models"
	"github.com/renancavalcantercb/SpotCLI/internal/shared"
	itesting "github.com/renancavalcantercb/SpotCLI/internal/testing"
	"golang.org/x/oauth2"
)

// newTestRunner wires a Runner to a scripted input stream, a capture buffer
// and a fake player.
func newTestRunner(input string, player *itesting.FakePlayer) (*Runner, *bytes.Buffer) {
	out := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Player: player,
		Input:  strings.NewReader(input),
		Output: out,
	})
	return runner, out
}

func TestParseChoice(t *testing.T) {
	t.Run("accepts the digits 0 through 7", func(t *testing.T) {
		for input, want := range map[string]menuChoice{
			"0": choiceExit,
			"1": choicePlayPause,
			"2": choiceNext,
			"3": choicePrevious,
			"4": choiceSearch,
			"5": choicePlaylists,
			"6": choiceNowPlaying,
			"7": choiceVolume,
		} {
			got, err := parseChoice(input)
			if err != nil {
				t.Errorf("parseChoice(%q) failed: %v", input, err)
			}
			if got != want {
				t.Errorf("parseChoice(%q) = %d, want %d", input, got, want)
			}
		}
	})

	t.Run("rejects everything else", func(t *testing.T) {
		for _, input := range []string{"", "8", "-1", "abc", "1.5", "00x"} {
			if _, err := parseChoice(input); !errors.Is(err, shared.ErrInvalidChoice) {
				t.Errorf("parseChoice(%q): expected ErrInvalidChoice, got %v", input, err)
			}
		}
	})
}

func TestPlay(t *testing.T) {
	t.Run("exit returns nil without any remote call", func(t *testing.T) {
		player := &itesting.FakePlayer{}
		runner, out := newTestRunner("0\n", player)

		if err := runner.Play(context.Background()); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
		if player.CallCount() != 0 {
			t.Errorf("expected no remote calls, got %d", player.CallCount())
		}
		if !strings.Contains(out.String(), "Goodbye!") {
			t.Error("expected farewell message")
		}
	})

	t.Run("closed input is an implicit exit", func(t *testing.T) {
		player := &itesting.FakePlayer{}
		runner, out := newTestRunner("", player)

		if err := runner.Play(context.Background()); err != nil {
			t.Fatalf("expected nil on end of input, got %v", err)
		}
		if !strings.Contains(out.String(), "Goodbye!") {
			t.Error("expected farewell message")
		}
	})

	t.Run("unrecognized input re-renders the menu without a remote call", func(t *testing.T) {
		player := &itesting.FakePlayer{}
		runner, out := newTestRunner("9\nfoo\n0\n", player)

		if err := runner.Play(context.Background()); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
		if player.CallCount() != 0 {
			t.Errorf("expected no remote calls, got %d", player.CallCount())
		}
		if strings.Count(out.String(), "Choose an option: ") != 3 {
			t.Errorf("expected the menu to render three times, got:\n%s", out.String())
		}
		if !strings.Contains(out.String(), "Invalid option. Please try again.") {
			t.Error("expected invalid-option message")
		}
	})

	t.Run("each action performs exactly one matching remote call", func(t *testing.T) {
		cases := []struct {
			name  string
			input string
			want  itesting.PlayerCall
		}{
			{"play pause", "1\n0\n", itesting.PlayerCall{Method: "TogglePlayback"}},
			{"next", "2\n0\n", itesting.PlayerCall{Method: "SkipNext"}},
			{"previous", "3\n0\n", itesting.PlayerCall{Method: "SkipPrevious"}},
			{"search", "4\ndaft punk\n0\n", itesting.PlayerCall{Method: "SearchTracks", Query: "daft punk"}},
			{"playlists", "5\n0\n", itesting.PlayerCall{Method: "Playlists"}},
			{"now playing", "6\n0\n", itesting.PlayerCall{Method: "NowPlaying"}},
			{"volume", "7\n50\n0\n", itesting.PlayerCall{Method: "SetVolume", Percent: 50}},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				player := &itesting.FakePlayer{}
				runner, _ := newTestRunner(c.input, player)

				if err := runner.Play(context.Background()); err != nil {
					t.Fatalf("Play failed: %v", err)
				}
				if player.CallCount() != 1 {
					t.Fatalf("expected one remote call, got %d: %+v", player.CallCount(), player.Calls)
				}
				if player.Calls[0] != c.want {
					t.Errorf("expected call %+v, got %+v", c.want, player.Calls[0])
				}
			})
		}
	})

	t.Run("volume confirmation keeps the percent sign intact", func(t *testing.T) {
		player := &itesting.FakePlayer{}
		runner, out := newTestRunner("7\n50\n0\n", player)

		if err := runner.Play(context.Background()); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
		if !strings.Contains(out.String(), "Volume adjusted to 50%\n") {
			t.Errorf("expected clean confirmation, got:\n%s", out.String())
		}
		if strings.Contains(out.String(), "MISSING") || strings.Contains(out.String(), "%!") {
			t.Errorf("confirmation was re-interpreted as a format string:\n%s", out.String())
		}
	})

	t.Run("error text containing format verbs prints verbatim", func(t *testing.T) {
		player := &itesting.FakePlayer{Err: errors.New("bad %s payload")}
		runner, out := newTestRunner("2\n0\n", player)

		if err := runner.Play(context.Background()); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
		if !strings.Contains(out.String(), "bad %s payload") {
			t.Errorf("expected verbatim error text, got:\n%s", out.String())
		}
		if strings.Contains(out.String(), "MISSING") {
			t.Errorf("error text was re-interpreted as a format string:\n%s", out.String())
		}
	})

	t.Run("write failure on the output stream escapes the loop", func(t *testing.T) {
		player := &itesting.FakePlayer{}
		runner := NewRunner(RunnerOpts{
			Player: player,
			Input:  strings.NewReader("0\n"),
			Output: &itesting.FWriter{},
		})

		if err := runner.Play(context.Background()); err == nil {
			t.Error("expected the write failure to escape")
		}
	})

	t.Run("no active device is reported and the loop continues", func(t *testing.T) {
		player := &itesting.FakePlayer{Err: shared.ErrNoActiveDevice}
		runner, out := newTestRunner("2\n0\n", player)

		if err := runner.Play(context.Background()); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
		if !strings.Contains(out.String(), "No active device found.") {
			t.Errorf("expected device message, got:\n%s", out.String())
		}
		if !strings.Contains(out.String(), "Goodbye!") {
			t.Error("expected the loop to reach the exit choice")
		}
	})

	t.Run("remote failures are reported and the loop continues", func(t *testing.T) {
		player := &itesting.FakePlayer{Err: shared.ErrAPIRequest}
		runner, out := newTestRunner("1\n0\n", player)

		if err := runner.Play(context.Background()); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
		if !strings.Contains(out.String(), "Error:") {
			t.Errorf("expected error message, got:\n%s", out.String())
		}
	})

	t.Run("empty search query skips the remote call", func(t *testing.T) {
		player := &itesting.FakePlayer{}
		runner, _ := newTestRunner("4\n\n0\n", player)

		if err := runner.Play(context.Background()); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
		if player.CallCount() != 0 {
			t.Errorf("expected no remote calls, got %d", player.CallCount())
		}
	})

	t.Run("out-of-range volume never reaches the remote API", func(t *testing.T) {
		for _, volume := range []string{"150", "-1", "abc", ""} {
			player := &itesting.FakePlayer{}
			runner, out := newTestRunner("7\n"+volume+"\n0\n", player)

			if err := runner.Play(context.Background()); err != nil {
				t.Fatalf("Play failed for volume %q: %v", volume, err)
			}
			if player.CallCount() != 0 {
				t.Errorf("volume %q: expected no remote calls, got %d", volume, player.CallCount())
			}
			if !strings.Contains(out.String(), "Invalid option.") {
				t.Errorf("volume %q: expected rejection message, got:\n%s", volume, out.String())
			}
		}
	})

	t.Run("input ending mid-prompt exits cleanly", func(t *testing.T) {
		player := &itesting.FakePlayer{}
		runner, _ := newTestRunner("4\n", player)

		if err := runner.Play(context.Background()); err != nil {
			t.Fatalf("expected nil when input closes at the search prompt, got %v", err)
		}
		if player.CallCount() != 0 {
			t.Errorf("expected no remote calls, got %d", player.CallCount())
		}
	})
}

func TestPlayOutput(t *testing.T) {
	t.Run("search results are printed", func(t *testing.T) {
		player := &itesting.FakePlayer{Tracks: []models.Track{
			{Title: "One More Time", Artist: "Daft Punk", Album: "Discovery", Duration: 320},
		}}
		runner, out := newTestRunner("4\ndaft punk\n0\n", player)

		if err := runner.Play(context.Background()); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
		if !strings.Contains(out.String(), "Daft Punk - One More Time (Discovery) [5:20]") {
			t.Errorf("expected result row, got:\n%s", out.String())
		}
	})

	t.Run("playlists are printed", func(t *testing.T) {
		player := &itesting.FakePlayer{PlaylistItems: []models.Playlist{
			{Name: "Focus", Owner: "me", TrackCount: 12, Public: false},
		}}
		runner, out := newTestRunner("5\n0\n", player)

		if err := runner.Play(context.Background()); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
		for _, want := range []string{"1. Focus", "Tracks: 12", "Visibility: Private"} {
			if !strings.Contains(out.String(), want) {
				t.Errorf("expected %q, got:\n%s", want, out.String())
			}
		}
	})

	t.Run("now playing handles an idle player", func(t *testing.T) {
		player := &itesting.FakePlayer{}
		runner, out := newTestRunner("6\n0\n", player)

		if err := runner.Play(context.Background()); err != nil {
			t.Fatalf("Play failed: %v", err)
		}
		if !strings.Contains(out.String(), "No track currently playing.") {
			t.Errorf("expected idle message, got:\n%s", out.String())
		}
	})
}

func TestRunPersistsSessionTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	config := shared.DefaultConfig()
	config.Credentials.Spotify.ClientID = "id"
	config.Credentials.Spotify.ClientSecret = "secret"

	player := &itesting.FakePlayer{
		SessionTok: &oauth2.Token{AccessToken: "refreshed_at", RefreshToken: "refreshed_rt"},
	}
	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: path,
		Player:     player,
		Input:      strings.NewReader("0\n"),
		Output:     &bytes.Buffer{},
	})

	if err := runner.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	loaded, err := shared.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Credentials.Spotify.AccessToken != "refreshed_at" {
		t.Errorf("expected refreshed access token to persist, got %q", loaded.Credentials.Spotify.AccessToken)
	}
	if loaded.Credentials.Spotify.RefreshToken != "refreshed_rt" {
		t.Errorf("expected refreshed refresh token to persist, got %q", loaded.Credentials.Spotify.RefreshToken)
	}
}

func TestRunWithoutCredentials(t *testing.T) {
	config := shared.DefaultConfig()
	out := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: config,
		Input:  strings.NewReader("0\n"),
		Output: out,
	})

	err := runner.Run(context.Background(), nil)
	if !errors.Is(err, shared.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no menu output before authentication, got:\n%s", out.String())
	}
}
