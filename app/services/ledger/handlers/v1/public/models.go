package public

import (
	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/nameservice"
)

// newChain is what is required to initialize a chain.
type newChain struct {
	Account string `json:"account" validate:"required"`
}

// submitTx is what is required to append a transfer.
type submitTx struct {
	From  string `json:"from" validate:"required"`
	To    string `json:"to" validate:"required"`
	Value uint64 `json:"value" validate:"required,gt=0"`
}

// tx represents a transaction inside a block response.
type tx struct {
	From     string `json:"from,omitempty"`
	FromName string `json:"from_name,omitempty"`
	To       string `json:"to"`
	ToName   string `json:"to_name,omitempty"`
	Value    uint64 `json:"value"`
	Reward   bool   `json:"reward,omitempty"`
}

// block represents a block response.
type block struct {
	Hash          string `json:"hash"`
	Number        uint64 `json:"number"`
	TimeStamp     uint64 `json:"timestamp"`
	PrevBlockHash string `json:"prev_block_hash,omitempty"`
	Nonce         uint64 `json:"nonce"`
	Transactions  []tx   `json:"transactions"`
}

// balance represents one account balance.
type balance struct {
	Account string `json:"account"`
	Name    string `json:"name,omitempty"`
	Balance uint64 `json:"balance"`
}

// balanceList is the response for balance queries.
type balanceList struct {
	LatestBlock string    `json:"latest_block"`
	Height      uint64    `json:"height"`
	Balances    []balance `json:"balances"`
}

// toBlockModel converts stored block data into the response form.
func toBlockModel(ns *nameservice.NameService, blockData database.BlockData) block {
	trans := make([]tx, len(blockData.Trans))
	for i, tran := range blockData.Trans {
		t := tx{
			To:     string(tran.ToID),
			ToName: lookupName(ns, tran.ToID),
			Value:  tran.Value,
			Reward: tran.IsReward(),
		}
		if !tran.IsReward() {
			t.From = string(tran.FromID)
			t.FromName = lookupName(ns, tran.FromID)
		}
		trans[i] = t
	}

	return block{
		Hash:          blockData.Hash,
		Number:        blockData.Header.Number,
		TimeStamp:     blockData.Header.TimeStamp,
		PrevBlockHash: blockData.Header.PrevBlockHash,
		Nonce:         blockData.Header.Nonce,
		Transactions:  trans,
	}
}

// lookupName hides the self mapping the name service applies to
// accounts without a local key.
func lookupName(ns *nameservice.NameService, account database.AccountID) string {
	name := ns.Lookup(account)
	if name == string(account) {
		return ""
	}

	return name
}

// touchesAccount reports whether any transaction in the block involves
// the account.
func touchesAccount(blockData database.BlockData, account database.AccountID) bool {
	for _, tran := range blockData.Trans {
		if tran.FromID == account || tran.ToID == account {
			return true
		}
	}

	return false
}
