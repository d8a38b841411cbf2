package chain

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
)

// Balance returns the current balance of the specified account,
// computed by walking every block from the tip back to genesis. An
// account the chain has never seen has a balance of zero.
func (c *Chain) Balance(acct database.AccountID) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.corrupt != nil {
		return 0, c.corrupt
	}

	if len(c.path) == 0 {
		return 0, ErrUninitialized
	}

	return c.balanceOf(acct)
}

// Balances returns the balance of every account that appears in the
// chain, including accounts whose balance has dropped to zero. Unlike
// Balance it reads the blocks in store order rather than walking the
// links: block order does not matter when both sides of every
// transaction are summed before subtracting.
func (c *Chain) Balances() (map[database.AccountID]uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.corrupt != nil {
		return nil, c.corrupt
	}

	if len(c.path) == 0 {
		return nil, ErrUninitialized
	}

	credits := make(map[database.AccountID]uint64)
	debits := make(map[database.AccountID]uint64)

	err := c.store.ForEach(func(key []byte, value []byte) error {
		k := string(key)
		if k == tipKey || k == genesisKey {
			return nil
		}

		blockData, err := database.Deserialize(value)
		if err != nil {
			return fmt.Errorf("block %s: %w", k, err)
		}

		for _, tx := range blockData.Trans {
			credits[tx.ToID] += tx.Value
			if !tx.IsReward() {
				debits[tx.FromID] += tx.Value
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Every debtor was credited before it could send, so the credits
	// map already names every account the chain has seen.
	balances := make(map[database.AccountID]uint64, len(credits))
	for acct, credit := range credits {
		balances[acct] = credit - debits[acct]
	}

	return balances, nil
}

// balanceOf accumulates the account's credits and debits over the whole
// chain and returns their difference. The walk visits blocks newest
// first, so the two sides are summed separately instead of keeping one
// running total that could dip below zero mid walk. The caller holds
// the lock.
func (c *Chain) balanceOf(acct database.AccountID) (uint64, error) {
	var credits uint64
	var debits uint64

	for hash := c.tip.Hash; hash != ""; {
		blockData, err := c.readBlock(hash)
		if err != nil {
			return 0, err
		}

		for _, tx := range blockData.Trans {
			if tx.ToID == acct {
				credits += tx.Value
			}
			if !tx.IsReward() && tx.FromID == acct {
				debits += tx.Value
			}
		}

		hash = blockData.Header.PrevBlockHash
	}

	return credits - debits, nil
}

// =============================================================================

// Iterator walks the chain from the genesis block to the tip. It reads
// over a snapshot of the block order taken when it was constructed, so
// blocks appended afterwards are not visited. Construct a new Iterator
// to walk again.
type Iterator struct {
	chain  *Chain
	hashes []string
	index  int
}

// ForEach constructs an Iterator positioned at the genesis block.
func (c *Chain) ForEach() (*Iterator, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.corrupt != nil {
		return nil, c.corrupt
	}

	if len(c.path) == 0 {
		return nil, ErrUninitialized
	}

	hashes := make([]string, len(c.path))
	copy(hashes, c.path)

	return &Iterator{chain: c, hashes: hashes}, nil
}

// Next returns the next block in the iteration.
func (it *Iterator) Next() (database.BlockData, error) {
	if it.index >= len(it.hashes) {
		return database.BlockData{}, errors.New("end of chain")
	}

	it.chain.mu.RLock()
	defer it.chain.mu.RUnlock()

	blockData, err := it.chain.readBlock(it.hashes[it.index])
	if err != nil {
		return database.BlockData{}, err
	}
	it.index++

	return blockData, nil
}

// Done reports whether the iteration has visited every block.
func (it *Iterator) Done() bool {
	return it.index >= len(it.hashes)
}

// =============================================================================

// Genesis returns the settings the chain was created with.
func (c *Chain) Genesis() (genesis.Genesis, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.corrupt != nil {
		return genesis.Genesis{}, c.corrupt
	}

	if len(c.path) == 0 {
		return genesis.Genesis{}, ErrUninitialized
	}

	return c.genesis, nil
}

// LatestBlock returns a copy of the current tip block.
func (c *Chain) LatestBlock() (database.BlockData, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.corrupt != nil {
		return database.BlockData{}, c.corrupt
	}

	if len(c.path) == 0 {
		return database.BlockData{}, ErrUninitialized
	}

	return c.tip, nil
}

// Height returns the number of blocks in the chain.
func (c *Chain) Height() (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.corrupt != nil {
		return 0, c.corrupt
	}

	if len(c.path) == 0 {
		return 0, ErrUninitialized
	}

	return uint64(len(c.path)), nil
}
