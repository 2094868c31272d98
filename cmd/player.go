package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/renancavalcantercb/SpotCLI/internal/formatter"
	"github.com/renancavalcantercb/SpotCLI/internal/shared"
	"github.com/renancavalcantercb/SpotCLI/internal/ui"
	"github.com/urfave/cli/v3"
)

// menuChoice enumerates the fixed set of user-selectable actions. Values
// match the digits the menu prints.
type menuChoice int

const (
	choiceExit menuChoice = iota
	choicePlayPause
	choiceNext
	choicePrevious
	choiceSearch
	choicePlaylists
	choiceNowPlaying
	choiceVolume
)

// parseChoice maps one trimmed input line onto a menuChoice.
func parseChoice(input string) (menuChoice, error) {
	n, err := strconv.Atoi(input)
	if err != nil || n < int(choiceExit) || n > int(choiceVolume) {
		return 0, fmt.Errorf("%w: %q", shared.ErrInvalidChoice, input)
	}
	return menuChoice(n), nil
}

// Run bootstraps the session and enters the menu loop. It is the action of
// the root CLI command.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	if r.player == nil {
		if err := r.bootstrap(ctx); err != nil {
			return err
		}
	}
	if err := r.Play(ctx); err != nil {
		return err
	}
	r.persistSession()
	return nil
}

// Play runs the menu loop until the user exits or the input stream ends.
// Every action error is reported and the loop continues; only a write failure
// on the output stream escapes.
func (r *Runner) Play(ctx context.Context) error {
	for {
		if err := r.writePlain("%s", formatter.Menu()); err != nil {
			return err
		}
		if err := r.writePlain("%s", formatter.Prompt()); err != nil {
			return err
		}

		line, err := r.readLine()
		if err != nil {
			// Closed input is an implicit exit.
			if errors.Is(err, io.EOF) {
				return r.writePlainln("Goodbye!")
			}
			return err
		}

		choice, err := parseChoice(line)
		if err != nil {
			r.reportError(err)
			continue
		}

		if choice == choiceExit {
			return r.writePlainln("Goodbye!")
		}

		if err := r.dispatch(ctx, choice); err != nil {
			if errors.Is(err, io.EOF) {
				return r.writePlainln("Goodbye!")
			}
			r.reportError(err)
		}
	}
}

// dispatch invokes the action bound to a menu choice. Each arm performs
// exactly one remote operation on the player.
func (r *Runner) dispatch(ctx context.Context, choice menuChoice) error {
	switch choice {
	case choicePlayPause:
		return r.togglePlayback(ctx)
	case choiceNext:
		return r.skipNext(ctx)
	case choicePrevious:
		return r.skipPrevious(ctx)
	case choiceSearch:
		return r.searchTracks(ctx)
	case choicePlaylists:
		return r.listPlaylists(ctx)
	case choiceNowPlaying:
		return r.showNowPlaying(ctx)
	case choiceVolume:
		return r.adjustVolume(ctx)
	default:
		return fmt.Errorf("%w: %d", shared.ErrInvalidChoice, choice)
	}
}

func (r *Runner) togglePlayback(ctx context.Context) error {
	playing, err := r.player.TogglePlayback(ctx)
	if err != nil {
		return err
	}

	if playing {
		return r.writePlainln("%s", ui.DefaultPalette.OK("Playback started"))
	}
	return r.writePlainln("%s", ui.DefaultPalette.Warn("Playback paused"))
}

func (r *Runner) skipNext(ctx context.Context) error {
	if err := r.player.SkipNext(ctx); err != nil {
		return err
	}
	return r.writePlainln("%s", ui.DefaultPalette.OK("Skipped to next track"))
}

func (r *Runner) skipPrevious(ctx context.Context) error {
	if err := r.player.SkipPrevious(ctx); err != nil {
		return err
	}
	return r.writePlainln("%s", ui.DefaultPalette.OK("Returned to previous track"))
}

func (r *Runner) searchTracks(ctx context.Context) error {
	if err := r.writePlain("Enter track name or artist: "); err != nil {
		return err
	}

	query, err := r.readLine()
	if err != nil {
		return err
	}
	if query == "" {
		return nil
	}

	tracks, err := r.player.SearchTracks(ctx, query)
	if err != nil {
		return err
	}

	return r.writePlain("%s", formatter.SearchResults(query, tracks))
}

func (r *Runner) listPlaylists(ctx context.Context) error {
	playlists, err := r.player.Playlists(ctx)
	if err != nil {
		return err
	}

	return r.writePlain("%s", formatter.PlaylistList(playlists))
}

func (r *Runner) showNowPlaying(ctx context.Context) error {
	np, err := r.player.NowPlaying(ctx)
	if err != nil {
		return err
	}

	return r.writePlain("%s", formatter.NowPlaying(np))
}

func (r *Runner) adjustVolume(ctx context.Context) error {
	if err := r.writePlain("Enter new volume (0-100): "); err != nil {
		return err
	}

	line, err := r.readLine()
	if err != nil {
		return err
	}

	// Validated locally; out-of-range input never reaches the remote API.
	percent, err := strconv.Atoi(line)
	if err != nil || percent < 0 || percent > 100 {
		return fmt.Errorf("%w: volume must be between 0 and 100", shared.ErrInvalidChoice)
	}

	if err := r.player.SetVolume(ctx, percent); err != nil {
		return err
	}

	return r.writePlainln("%s", ui.DefaultPalette.OK(fmt.Sprintf("Volume adjusted to %d%%", percent)))
}

// reportError classifies an action error and prints a one-line message. The
// loop continues afterwards regardless of the error kind. Messages go through
// a %s verb so error text is never re-interpreted as a format string.
func (r *Runner) reportError(err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidChoice):
		r.writePlainln("%s", ui.DefaultPalette.Err("Invalid option. Please try again."))
	case errors.Is(err, shared.ErrNoActiveDevice):
		r.writePlainln("%s", ui.DefaultPalette.Warn("No active device found. Open Spotify on a device and try again."))
	case errors.Is(err, shared.ErrRateLimited):
		r.writePlainln("%s", ui.DefaultPalette.Warn("Spotify is rate limiting requests. Try again in a moment."))
	case errors.Is(err, shared.ErrAuthFailed), errors.Is(err, shared.ErrNotAuthenticated):
		r.writePlainln("%s", ui.DefaultPalette.Err(fmt.Sprintf("Authentication problem: %v", err)))
	default:
		r.writePlainln("%s", ui.DefaultPalette.Err(fmt.Sprintf("Error: %v", err)))
	}

	r.logger.Debug("action failed", "error", err)
}
