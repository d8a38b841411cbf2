// Package handlers manages the different versions of the API.
package handlers

import (
	"expvar"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/ardanlabs/ledger/app/services/ledger/handlers/debug/checkgrp"
	v1 "github.com/ardanlabs/ledger/app/services/ledger/handlers/v1"
	"github.com/ardanlabs/ledger/business/web/mid"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/ledger/chain"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MuxConfig contains all the mandatory systems required by handlers.
type MuxConfig struct {
	Shutdown chan os.Signal
	Log      *zap.SugaredLogger
	Chain    *chain.Chain
	NS       *nameservice.NameService
	Evts     *events.Events
}

// PublicMux constructs a http.Handler with all application routes
// defined.
func PublicMux(cfg MuxConfig) http.Handler {

	// Construct the web.App which holds all routes as well as common
	// Middleware.
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Metrics(),
		mid.Panics(),
	)

	// Load the v1 routes.
	v1.PublicRoutes(app, v1.Config{
		Log:   cfg.Log,
		Chain: cfg.Chain,
		NS:    cfg.NS,
		Evts:  cfg.Evts,
	})

	return app
}

// DebugStandardLibraryMux registers all the debug routes from the
// standard library into a new mux bypassing the use of the
// DefaultServerMux. Using the DefaultServerMux would be a security risk
// since a dependency could inject a handler into our service without us
// knowing it.
func DebugStandardLibraryMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Register all the standard library debug endpoints.
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}

// DebugMux registers all the debug standard library routes and then
// custom debug application routes for the service.
func DebugMux(build string, log *zap.SugaredLogger, c *chain.Chain) http.Handler {
	mux := DebugStandardLibraryMux()

	// Register the endpoint the metrics are scraped from.
	mux.Handle("/metrics", promhttp.Handler())

	// Register debug check endpoints.
	cgh := checkgrp.Handlers{
		Build: build,
		Log:   log,
		Chain: c,
	}
	mux.HandleFunc("/debug/readiness", cgh.Readiness)
	mux.HandleFunc("/debug/liveness", cgh.Liveness)

	return mux
}
