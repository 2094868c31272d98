package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/renancavalcantercb/SpotCLI/internal/server"
	"github.com/renancavalcantercb/SpotCLI/internal/services"
	"github.com/renancavalcantercb/SpotCLI/internal/shared"
	"golang.org/x/oauth2"
)

// authTimeout bounds how long the loopback server waits for the user to
// approve or decline the authorization request.
const authTimeout = 2 * time.Minute

// bootstrap validates credentials and produces the authenticated player
// handle. A failure here is fatal to the process; nothing is retried.
func (r *Runner) bootstrap(ctx context.Context) error {
	spotifyCfg := r.config.Credentials.Spotify
	if err := spotifyCfg.Validate(); err != nil {
		return err
	}

	svc, err := services.NewSpotifyService(spotifyCfg)
	if err != nil {
		return err
	}

	token := spotifyCfg.Token()
	if token == nil {
		if token, err = r.doOAuth(ctx, svc); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		if err := r.saveTokens(token); err != nil {
			r.logger.Warnf("failed to persist tokens: %v", err)
		}
	}

	if err := svc.Authenticate(ctx, token); err != nil {
		return err
	}

	r.logger.Info("session ready", "service", svc.Name())
	r.player = svc
	return nil
}

// persistSession writes the session's token pair back to the configuration
// after the menu loop ends, so a refresh that happened mid-session is not
// lost for the next run.
func (r *Runner) persistSession() {
	src, ok := r.player.(interface {
		SessionToken() (*oauth2.Token, error)
	})
	if !ok {
		return
	}

	token, err := src.SessionToken()
	if err != nil {
		r.logger.Debug("no session token to persist", "error", err)
		return
	}

	if err := r.saveTokens(token); err != nil {
		r.logger.Warnf("failed to persist tokens: %v", err)
	}
}

// doOAuth executes the authorization-code flow with a loopback HTTP server.
//
// Opens the browser at the consent URL, waits for the callback and returns
// the exchanged token pair.
func (r *Runner) doOAuth(ctx context.Context, svc *services.SpotifyService) (*oauth2.Token, error) {
	state := shared.GenerateState()
	authURL := svc.AuthURL(state)

	oauthHandler := server.NewOAuthHandler(svc.Authenticator(), state)
	router := server.NewBasicRouter()
	router.Use(server.Logging(shared.WithLogger(r.logger, "component", "callback")))
	router.Handler(oauthHandler)

	addr, err := r.config.Credentials.Spotify.CallbackAddr()
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{Addr: addr, Handler: router}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Info("starting OAuth callback server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%v timeout)...\n", authTimeout)

	timeout := time.NewTimer(authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after %v", shared.ErrTimeout, authTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, result.Error()
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
