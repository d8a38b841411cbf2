package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/ledger/app/services/ledger/handlers"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/ledger/chain"
	"github.com/ardanlabs/ledger/foundation/ledger/store"
	"github.com/ardanlabs/ledger/foundation/ledger/store/leveldb"
	"github.com/ardanlabs/ledger/foundation/ledger/store/memory"
	"github.com/ardanlabs/ledger/foundation/ledger/store/metrics"
	"github.com/ardanlabs/ledger/foundation/ledger/store/sqlite"
	"github.com/ardanlabs/ledger/foundation/logger"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags
// in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("LEDGER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default
	// values. Configuration values will be passed through the
	// application as individual values.
	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			APIHost         string        `conf:"default:0.0.0.0:8080"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			Origin          string        `conf:"default:*"`
		}
		Chain struct {
			Backend        string `conf:"default:leveldb,help:leveldb | sqlite | memory"`
			DBPath         string `conf:"default:zblock/ledger.db"`
			DifficultyBits uint   `conf:"default:24"`
			Reward         uint64 `conf:"default:50"`
		}
		NameService struct {
			KeystorePath string `conf:"default:zblock/accounts"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	// Parse will set the defaults and then look for any overriding
	// values in environment variables and command line flags.
	const prefix = "LEDGER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Name Service Support

	// The nameservice package provides name resolution for account
	// identifiers. The names come from the file names in the keystore
	// folder.
	ns, err := nameservice.New(cfg.NameService.KeystorePath)
	if err != nil {
		return fmt.Errorf("unable to load account name service: %w", err)
	}

	// Logging the accounts for documentation in the logs.
	for account, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "account", account)
	}

	// =========================================================================
	// Chain Support

	// Open the configured store backend. The chain owns the keys inside
	// the store, the service owns the store's lifetime.
	var backend store.Store
	switch cfg.Chain.Backend {
	case "leveldb":
		backend, err = leveldb.New(cfg.Chain.DBPath)
	case "sqlite":
		backend, err = sqlite.New(cfg.Chain.DBPath)
	case "memory":
		backend = memory.New()
	default:
		return fmt.Errorf("unknown store backend %q", cfg.Chain.Backend)
	}
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	st := metrics.Wrap(backend)
	defer st.Close()

	// The chain packages accept a function of this signature to allow
	// the application to log. These raw messages are also sent to any
	// websocket client that is connected into the system through the
	// events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...), "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(v, args...)
	}

	// Open the chain over the store, re-verifying every stored block. A
	// corrupt chain does not stop the service: every operation except
	// destroy reports the corruption, and an operator can destroy and
	// recreate through the API.
	c, err := chain.Open(chain.Config{
		Store:          st,
		DifficultyBits: cfg.Chain.DifficultyBits,
		Reward:         cfg.Chain.Reward,
		EvHandler:      ev,
	})
	if err != nil {
		var cce *chain.CorruptChainError
		if !errors.As(err, &cce) {
			return fmt.Errorf("opening chain: %w", err)
		}
		log.Errorw("startup", "status", "chain corrupt, destroy required",
			"block", cce.Number, "hash", cce.Hash, "reason", cce.Reason)
	}

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all
	// the debug related endpoints. This includes the standard library
	// endpoints, the metrics endpoint, and the check endpoints.
	debugMux := handlers.DebugMux(build, log, c)

	// Start the service listening for debug requests. Not concerned
	// with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Start API Service

	log.Infow("startup", "status", "initializing V1 API support")

	// Make a channel to listen for an interrupt or terminate signal
	// from the OS. Use a buffered channel because the signal package
	// requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Construct the mux for the API calls.
	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		Chain:    c,
		NS:       ns,
		Evts:     evts,
	})

	// Wrap the mux with the CORS handler so browser clients can reach
	// the API, including the preflight requests the mux has no routes
	// for.
	corsMux := cors.New(cors.Options{
		AllowedOrigins: []string{cfg.Web.Origin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	}).Handler(publicMux)

	// Construct a server to service the requests against the mux.
	api := http.Server{
		Addr:         cfg.Web.APIHost,
		Handler:      corsMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Make a channel to listen for errors coming from the listener. Use
	// a buffered channel so the goroutine can exit if we don't collect
	// this error.
	serverErrors := make(chan error, 1)

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "api router started", "host", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown API started")
		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop service gracefully: %w", err)
		}
	}

	return nil
}
