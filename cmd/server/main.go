// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	apiconnect "github.com/osa030/likelive/internal/api/connect"
	editorv1 "github.com/osa030/likelive/internal/api/editorv1"
	"github.com/osa030/likelive/internal/app/editor"
	"github.com/osa030/likelive/internal/app/rule"
	"github.com/osa030/likelive/internal/infra/backend"
	"github.com/osa030/likelive/internal/infra/config"
	"github.com/osa030/likelive/internal/infra/lastfm"
	"github.com/osa030/likelive/internal/infra/logger"
	"github.com/osa030/likelive/internal/infra/spotify"
	"github.com/osa030/likelive/internal/infra/sqlite"
)

var (
	app        = kingpin.New("likelive-server", "LikeLive post editor server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	// list-rules command
	listRulesCmd = app.Command("list-rules", "List available submission rules and exit")
)

func init() {
	// start command (default) - no need to store the command
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Handle list-rules command
	if command == listRulesCmd.FullCommand() {
		printRules()
		return
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	// Override with command-line flags if specified
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Load config
	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Build submission rules
	chain, err := rule.BuildChain(cfg.RuleSettings)
	if err != nil {
		return fmt.Errorf("invalid rule config: %w", err)
	}

	// Open the post store
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer closeStore()

	// Optional lookups
	var artists apiconnect.ArtistSearcher
	if cfg.SpotifyEnabled() {
		spotifyClient, err := spotify.New(ctx, spotify.Config{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			Market:       cfg.Spotify.Market,
		})
		if err != nil {
			return fmt.Errorf("failed to create Spotify client: %w", err)
		}
		artists = spotifyClient
	} else {
		zlog.Info().Msg("Spotify not configured, artist search disabled")
	}

	var suggester apiconnect.TrackSuggester
	if cfg.LastFMEnabled() {
		lastfmClient, err := lastfm.New(lastfm.Config{APIKey: cfg.LastFM.APIKey})
		if err != nil {
			return fmt.Errorf("failed to create Last.fm client: %w", err)
		}
		suggester = lastfmClient
	} else {
		zlog.Info().Msg("Last.fm not configured, track suggestions disabled")
	}

	// Create session manager
	editorMgr := editor.NewManager(store, chain, editor.Config{
		SessionTTL:    cfg.Editor.SessionTTL(),
		SweepInterval: cfg.Editor.SweepInterval(),
	})
	editorMgr.Start(ctx)

	// Create RPC service
	editorService := apiconnect.NewEditorService(editorMgr, chain, cfg, artists, suggester)

	// Create HTTP mux
	mux := http.NewServeMux()

	authInterceptor := apiconnect.NewAuthInterceptor(cfg)
	editorPath, editorHandler := editorv1.NewEditorServiceHandler(
		editorService,
		connect.WithInterceptors(authInterceptor),
	)
	mux.Handle(editorPath, editorHandler)

	// Create server with h2c (HTTP/2 cleartext) support
	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to capture server startup errors
	serverErrCh := make(chan error, 1)

	// Start server
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s store=%s", cfg.Server.Addr, cfg.Store.Type)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	if n := editorMgr.Count(); n > 0 {
		zlog.Warn().Msgf("Dropping %d unsaved editing sessions", n)
	}
	zlog.Info().Msg("Server stopped")

	return nil
}

// openStore creates the configured post store and a function releasing it.
func openStore(cfg *config.Config) (editor.Store, func(), error) {
	switch cfg.Store.Type {
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.Store.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				zlog.Error().Err(err).Msg("Failed to close sqlite store")
			}
		}, nil
	default:
		client, err := backend.New(backend.Config{
			BaseURL: cfg.Store.Backend.BaseURL,
			Token:   cfg.Store.Backend.Token,
			Timeout: time.Duration(cfg.Store.Backend.TimeoutSec) * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		zlog.Info().Msgf("Using LikeLive backend: %s", cfg.Store.Backend.BaseURL)
		return client, func() {}, nil
	}
}

// printRules prints available submission rules.
func printRules() {
	fmt.Println("Available Rules:")
	for _, name := range rule.Names() {
		r := rule.GetRegistered()[name]()
		codes := strings.Join(r.ReturnCodes(), ", ")
		fmt.Printf("  %-22s - %s [codes: %s]\n", r.Name(), r.Description(), codes)
	}
}
