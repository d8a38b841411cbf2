package chain

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
	"github.com/ardanlabs/ledger/foundation/ledger/pow"
)

// Create initializes the chain by mining a genesis block that pays the
// reward to the specified account. The store is checked before anything
// is written: creating over an existing chain fails with
// ErrAlreadyExists and leaves the store byte for byte as it was.
func (c *Chain) Create(genesisAcct database.AccountID) (database.BlockData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.corrupt != nil {
		return database.BlockData{}, c.corrupt
	}

	if len(c.path) > 0 {
		return database.BlockData{}, ErrAlreadyExists
	}

	gen := genesis.New(c.cfgBits, c.cfgReward)

	engine, err := pow.New(gen.DifficultyBits, pow.EventHandler(c.ev))
	if err != nil {
		return database.BlockData{}, fmt.Errorf("difficulty: %w", err)
	}

	tx, err := database.NewRewardTx(genesisAcct, gen.Reward)
	if err != nil {
		return database.BlockData{}, err
	}

	block, err := database.NewBlock("", 0, []database.Tx{tx})
	if err != nil {
		return database.BlockData{}, err
	}

	// A store holding data but no tip is the remnant of an interrupted
	// create. Clear it so the new genesis cannot leave orphans behind.
	if err := c.store.DeleteAll(); err != nil {
		return database.BlockData{}, fmt.Errorf("clear store: %w", err)
	}

	genData, err := gen.Marshal()
	if err != nil {
		return database.BlockData{}, err
	}
	if err := c.store.Put([]byte(genesisKey), genData); err != nil {
		return database.BlockData{}, fmt.Errorf("write genesis: %w", err)
	}

	blockData, err := c.mineAndPersist(engine, block)
	if err != nil {
		return database.BlockData{}, err
	}

	c.genesis = gen
	c.engine = engine

	return blockData, nil
}

// Send appends a block carrying one transaction that moves value
// between the two accounts. The sender's balance is checked before any
// mining starts, so an underfunded send costs no work.
func (c *Chain) Send(fromID database.AccountID, toID database.AccountID, value uint64) (database.BlockData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.corrupt != nil {
		return database.BlockData{}, c.corrupt
	}

	if len(c.path) == 0 {
		return database.BlockData{}, ErrUninitialized
	}

	tx, err := database.NewTx(fromID, toID, value)
	if err != nil {
		return database.BlockData{}, err
	}

	balance, err := c.balanceOf(fromID)
	if err != nil {
		return database.BlockData{}, err
	}
	if value > balance {
		return database.BlockData{}, fmt.Errorf("%w: account %s holds %d, needs %d", ErrInsufficientFunds, fromID, balance, value)
	}

	block, err := database.NewBlock(c.tip.Hash, c.tip.Header.Number+1, []database.Tx{tx})
	if err != nil {
		return database.BlockData{}, err
	}

	return c.mineAndPersist(c.engine, block)
}

// mineAndPersist runs the proof of work for the block, stores the
// solved block under its hash, and advances the tip. The caller holds
// the lock.
//
// The block write and the tip write are separate store operations. A
// crash between the two leaves an orphaned block that the verification
// walk reports on the next open.
func (c *Chain) mineAndPersist(engine *pow.Engine, block database.Block) (database.BlockData, error) {
	payload, err := block.Payload()
	if err != nil {
		return database.BlockData{}, err
	}

	nonce, hash := engine.Mine(payload)
	block.Header.Nonce = nonce

	blockData := database.NewBlockData(block, hash)

	data, err := database.Serialize(blockData)
	if err != nil {
		return database.BlockData{}, err
	}

	if err := c.store.Put([]byte(hash), data); err != nil {
		return database.BlockData{}, fmt.Errorf("write block: %w", err)
	}

	if err := c.store.Put([]byte(tipKey), []byte(hash)); err != nil {
		return database.BlockData{}, fmt.Errorf("write tip: %w", err)
	}

	c.tip = blockData
	c.path = append(c.path, hash)

	c.ev("chain: accepted: block[%d] hash[%s]", blockData.Header.Number, hash)

	return blockData, nil
}
