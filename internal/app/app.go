package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vk/depdiffgo/internal/bitbucket"
	"github.com/vk/depdiffgo/internal/config"
	"github.com/vk/depdiffgo/internal/ctxlog"
	"github.com/vk/depdiffgo/internal/governance"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	settings *config.File

	// governance is nil when no governance block is configured.
	governance *governance.Client
	// publisher is nil when no bitbucket block is configured.
	publisher *bitbucket.Client
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and the
// collaborators enabled by the settings file.
func NewApp(outW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	creds := config.LoadCredentials()

	settings, err := config.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}

	app := &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		settings: settings,
	}

	if gov := settings.Governance; gov != nil {
		client, err := governance.NewClient(governance.Config{
			BaseURL:       gov.ServerURL,
			ApplicationID: gov.ApplicationID,
			Username:      gov.Username,
			Token:         creds.GovernanceToken,
			Timeout:       parseTimeout(gov.Timeout),
			CacheSize:     gov.CacheSize,
		})
		if err != nil {
			panic(fmt.Errorf("failed to create governance client: %w", err))
		}
		app.governance = client
		logger.Debug("Governance client configured.", "server_url", gov.ServerURL, "application_id", gov.ApplicationID)
	}

	if bb := settings.Bitbucket; bb != nil {
		client, err := bitbucket.NewClient(bitbucket.Config{
			BaseURL:    bb.BaseURL,
			Project:    bb.Project,
			Repository: bb.Repository,
			Token:      creds.BitbucketToken,
			Timeout:    parseTimeout(bb.Timeout),
		})
		if err != nil {
			panic(fmt.Errorf("failed to create bitbucket client: %w", err))
		}
		app.publisher = client
		logger.Debug("Bitbucket client configured.", "base_url", bb.BaseURL, "project", bb.Project, "repository", bb.Repository)
	}

	return app
}

// parseTimeout turns an optional duration string from the settings file into
// a time.Duration. Empty means zero, letting the client apply its default.
func parseTimeout(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	timeout, err := time.ParseDuration(raw)
	if err != nil {
		panic(fmt.Errorf("failed to parse timeout %q: %w", raw, err))
	}
	return timeout
}
