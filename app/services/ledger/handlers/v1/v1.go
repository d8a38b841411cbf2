// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/ledger/app/services/ledger/handlers/v1/public"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/ledger/chain"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	Chain *chain.Chain
	NS    *nameservice.NameService
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		Chain: cfg.Chain,
		NS:    cfg.NS,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodPost, version, "/chain", pbl.Create)
	app.Handle(http.MethodDelete, version, "/chain", pbl.Destroy)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodPost, version, "/tx/send", pbl.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/balances/list", pbl.Balances)
	app.Handle(http.MethodGet, version, "/balances/list/:account", pbl.Balances)
	app.Handle(http.MethodGet, version, "/blocks/list", pbl.Blocks)
	app.Handle(http.MethodGet, version, "/blocks/list/:account", pbl.Blocks)
	app.Handle(http.MethodGet, version, "/events", pbl.Events)
}
