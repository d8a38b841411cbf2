// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/ledger/chain"
	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	Chain *chain.Chain
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Create initializes a new chain with a funded genesis account.
func (h Handlers) Create(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nc newChain
	if err := web.Decode(r, &nc); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("create chain", "traceid", v.TraceID, "account", nc.Account)

	blockData, err := h.Chain.Create(database.AccountID(nc.Account))
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, toBlockModel(h.NS, blockData), http.StatusCreated)
}

// Destroy removes the chain and everything in its store so a new chain
// can be created. It also clears a corruption mark.
func (h Handlers) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.Log.Infow("destroy chain", "traceid", v.TraceID)

	if err := h.Chain.Destroy(); err != nil {
		return err
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "chain destroyed",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the settings the chain was created with.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen, err := h.Chain.Genesis()
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, gen, http.StatusOK)
}

// SubmitTransaction mines the next block carrying the submitted
// transfer.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var st submitTx
	if err := web.Decode(r, &st); err != nil {
		return fmt.Errorf("unable to decode payload: %w", err)
	}

	h.Log.Infow("send tran", "traceid", v.TraceID, "from", st.From, "to", st.To, "value", st.Value)

	blockData, err := h.Chain.Send(database.AccountID(st.From), database.AccountID(st.To), st.Value)
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, toBlockModel(h.NS, blockData), http.StatusCreated)
}

// Balances returns the current balances for all accounts or for the
// one account in the route.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	var acctBalances map[database.AccountID]uint64
	switch account {
	case "":
		var err error
		acctBalances, err = h.Chain.Balances()
		if err != nil {
			return toTrusted(err)
		}

	default:
		accountID, err := database.ToAccountID(account)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}

		value, err := h.Chain.Balance(accountID)
		if err != nil {
			return toTrusted(err)
		}
		acctBalances = map[database.AccountID]uint64{accountID: value}
	}

	tip, err := h.Chain.LatestBlock()
	if err != nil {
		return toTrusted(err)
	}
	height, err := h.Chain.Height()
	if err != nil {
		return toTrusted(err)
	}

	balances := make([]balance, 0, len(acctBalances))
	for account, value := range acctBalances {
		balances = append(balances, balance{
			Account: string(account),
			Name:    lookupName(h.NS, account),
			Balance: value,
		})
	}

	// Map order is random, so fix the response order for clients.
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].Account < balances[j].Account
	})

	resp := balanceList{
		LatestBlock: tip.Hash,
		Height:      height,
		Balances:    balances,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Blocks returns all the blocks and their details, genesis first. With
// an account in the route only blocks touching that account are
// returned.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := database.AccountID(web.Param(r, "account"))

	it, err := h.Chain.ForEach()
	if err != nil {
		return toTrusted(err)
	}

	var blocks []block
	for !it.Done() {
		blockData, err := it.Next()
		if err != nil {
			return toTrusted(err)
		}

		if account != "" && !touchesAccount(blockData, account) {
			continue
		}

		blocks = append(blocks, toBlockModel(h.NS, blockData))
	}

	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// =============================================================================

// toTrusted maps the chain's sentinel errors to trusted responses with
// the right status codes. Anything else stays untrusted and results in
// a 500.
func toTrusted(err error) error {
	var cce *chain.CorruptChainError

	switch {
	case errors.Is(err, chain.ErrUninitialized):
		return errs.NewTrusted(err, http.StatusNotFound)

	case errors.Is(err, chain.ErrAlreadyExists):
		return errs.NewTrusted(err, http.StatusConflict)

	case errors.Is(err, chain.ErrInvalidTransaction):
		return errs.NewTrusted(err, http.StatusBadRequest)

	case errors.Is(err, chain.ErrInsufficientFunds):
		return errs.NewTrusted(err, http.StatusBadRequest)

	case errors.As(err, &cce):
		return errs.NewTrusted(err, http.StatusServiceUnavailable)
	}

	return err
}
