// Package chain implements the append-only block chain over a
// persistent store: creation, appends, balance queries, traversal, and
// the verification walk performed on reload.
package chain

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
	"github.com/ardanlabs/ledger/foundation/ledger/pow"
	"github.com/ardanlabs/ledger/foundation/ledger/store"
)

// Reserved store keys. Every other key is the hex content hash of a
// block.
const (
	tipKey     = "l"
	genesisKey = "genesis"
)

// EventHandler defines a function that is called when chain and mining
// events occur.
type EventHandler func(v string, args ...any)

// Config represents the settings required to open a chain.
type Config struct {
	Store          store.Store
	DifficultyBits uint   // Applied at create time. Zero means the default.
	Reward         uint64 // Applied at create time. Zero means the default.
	EvHandler      EventHandler
}

// Chain manages an append-only, hash-linked sequence of blocks backed
// by a persistent store. A Chain serializes its operations internally;
// construct independent chains over independent stores to run more than
// one in a process. The store stays owned by the caller, who closes it
// after the chain is no longer in use.
type Chain struct {
	mu sync.RWMutex

	store     store.Store
	ev        EventHandler
	cfgBits   uint
	cfgReward uint64

	genesis genesis.Genesis
	engine  *pow.Engine
	tip     database.BlockData
	path    []string // Block hashes from genesis to tip.
	corrupt *CorruptChainError
}

// Open constructs a Chain over the specified store. When the store
// already holds a chain, Open walks it from tip to genesis re-verifying
// every block's proof of work and linkage against the recorded genesis
// settings. On verification failure Open returns both the Chain and a
// CorruptChainError: every operation except Destroy then fails with
// that same error, so the caller can still destroy and recreate the
// chain.
func Open(cfg Config) (*Chain, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}

	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	c := Chain{
		store:     cfg.Store,
		ev:        ev,
		cfgBits:   cfg.DifficultyBits,
		cfgReward: cfg.Reward,
	}

	if err := c.load(); err != nil {
		var cce *CorruptChainError
		if errors.As(err, &cce) {
			c.corrupt = cce
			return &c, err
		}
		return nil, err
	}

	return &c, nil
}

// Destroy removes every store entry and resets the chain to its
// uninitialized state, clearing any corruption mark. Destroying an
// empty chain is not an error.
func (c *Chain) Destroy() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.DeleteAll(); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}

	c.genesis = genesis.Genesis{}
	c.engine = nil
	c.tip = database.BlockData{}
	c.path = nil
	c.corrupt = nil

	c.ev("chain: destroyed")

	return nil
}

// =============================================================================

// load reads the persisted chain state and performs the full
// verification walk. It runs during Open, before the chain is shared.
func (c *Chain) load() error {
	tipData, err := c.store.Get([]byte(tipKey))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("read tip: %w", err)
	}
	tipHash := string(tipData)

	genData, err := c.store.Get([]byte(genesisKey))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &CorruptChainError{Hash: tipHash, Reason: "genesis record missing"}
		}
		return fmt.Errorf("read genesis: %w", err)
	}

	gen, err := genesis.Unmarshal(genData)
	if err != nil {
		return &CorruptChainError{Hash: tipHash, Reason: fmt.Sprintf("genesis record unreadable: %s", err)}
	}

	engine, err := pow.New(gen.DifficultyBits, pow.EventHandler(c.ev))
	if err != nil {
		return &CorruptChainError{Hash: tipHash, Reason: fmt.Sprintf("genesis difficulty unusable: %s", err)}
	}

	c.ev("chain: load: verifying from tip[%s]", tipHash)

	// Walk tip to genesis by the previous-hash links, verifying the
	// content and the proof of work of every block on the way.
	var (
		visited = make(map[string]bool)
		blocks  []database.BlockData
	)
	for hash := tipHash; ; {
		if visited[hash] {
			return &CorruptChainError{Hash: hash, Reason: "cycle in block links"}
		}
		visited[hash] = true

		data, err := c.store.Get([]byte(hash))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return &CorruptChainError{Hash: hash, Reason: "linked block missing"}
			}
			return fmt.Errorf("read block %s: %w", hash, err)
		}

		blockData, err := database.Deserialize(data)
		if err != nil {
			return &CorruptChainError{Hash: hash, Reason: fmt.Sprintf("block unreadable: %s", err)}
		}

		if blockData.Hash != hash {
			return &CorruptChainError{Number: blockData.Header.Number, Hash: hash, Reason: "stored hash does not match its key"}
		}

		payload, err := database.ToBlock(blockData).Payload()
		if err != nil {
			return fmt.Errorf("block %s payload: %w", hash, err)
		}

		if !engine.Verify(payload, blockData.Header.Nonce, blockData.Hash) {
			return &CorruptChainError{Number: blockData.Header.Number, Hash: hash, Reason: "invalid proof of work"}
		}

		blocks = append(blocks, blockData)

		if blockData.Header.PrevBlockHash == "" {
			break
		}
		hash = blockData.Header.PrevBlockHash
	}

	// The walk collected blocks tip first. Check the numbering runs
	// contiguously down to a genesis block numbered zero.
	tipNumber := blocks[0].Header.Number
	for i, blockData := range blocks {
		if blockData.Header.Number != tipNumber-uint64(i) {
			return &CorruptChainError{Number: blockData.Header.Number, Hash: blockData.Hash, Reason: fmt.Sprintf("block number out of sequence, expected %d", tipNumber-uint64(i))}
		}
	}
	last := blocks[len(blocks)-1]
	if last.Header.Number != 0 {
		return &CorruptChainError{Number: last.Header.Number, Hash: last.Hash, Reason: "chain does not terminate at a genesis block"}
	}

	// Every block entry in the store must be on the walked path:
	// anything else is an orphan the chain cannot account for.
	err = c.store.ForEach(func(key []byte, value []byte) error {
		k := string(key)
		if k == tipKey || k == genesisKey {
			return nil
		}
		if !visited[k] {
			return &CorruptChainError{Hash: k, Reason: "block not reachable from tip"}
		}
		return nil
	})
	if err != nil {
		var cce *CorruptChainError
		if errors.As(err, &cce) {
			return cce
		}
		return fmt.Errorf("scan store: %w", err)
	}

	path := make([]string, len(blocks))
	for i, blockData := range blocks {
		path[len(blocks)-1-i] = blockData.Hash
	}

	c.genesis = gen
	c.engine = engine
	c.tip = blocks[0]
	c.path = path

	c.ev("chain: load: verified: blocks[%d] tip[%s]", len(blocks), tipHash)

	return nil
}

// readBlock loads and decodes one block by its content hash. It assumes
// the caller holds the lock.
func (c *Chain) readBlock(hash string) (database.BlockData, error) {
	data, err := c.store.Get([]byte(hash))
	if err != nil {
		return database.BlockData{}, fmt.Errorf("read block %s: %w", hash, err)
	}

	return database.Deserialize(data)
}
