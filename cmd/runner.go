package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/renancavalcantercb/SpotCLI/internal/services"
	"github.com/renancavalcantercb/SpotCLI/internal/shared"
	"golang.org/x/oauth2"
)

// Runner holds all dependencies for the menu loop and provides methods for
// each menu action. Input and output are injected so tests can script the
// console conversation.
type Runner struct {
	config     *shared.Config
	configPath string
	player     services.Player
	logger     *log.Logger
	input      *bufio.Reader
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Player     services.Player
	Logger     *log.Logger
	Input      io.Reader
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		player:     opts.Player,
		logger:     opts.Logger,
		input:      bufio.NewReader(opts.Input),
		output:     opts.Output,
	}
}

// readLine blocks for one line of input and returns it with surrounding
// whitespace trimmed. Returns [io.EOF] once the input stream is closed.
func (r *Runner) readLine() (string, error) {
	line, err := r.input.ReadString('\n')
	if err != nil {
		if err == io.EOF && strings.TrimSpace(line) != "" {
			// Last line without a trailing newline still counts.
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writePlain(format+"\n", args...)
}

// saveTokens persists a token pair into the configuration so later runs skip
// the browser flow. The file write is skipped when no config path is set.
func (r *Runner) saveTokens(token *oauth2.Token) error {
	if r.config == nil {
		return fmt.Errorf("config is nil")
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if r.configPath == "" {
		return nil
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}
