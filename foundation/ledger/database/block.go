package database

import (
	"encoding/json"
	"errors"
	"time"
)

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64 `json:"number"`          // Block number in the chain, zero for genesis.
	TimeStamp     uint64 `json:"timestamp"`       // Time the block was constructed.
	PrevBlockHash string `json:"prev_block_hash"` // Hash of the previous block, empty only for genesis.
	Nonce         uint64 `json:"nonce"`           // Value discovered to solve the proof of work.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader
	Trans  []Tx
}

// NewBlock constructs the next block for the chain, stamping it with the
// current time. The nonce stays zero until mining discovers it.
func NewBlock(prevBlockHash string, number uint64, trans []Tx) (Block, error) {
	if len(trans) == 0 {
		return Block{}, errors.New("block requires at least one transaction")
	}

	nb := Block{
		Header: BlockHeader{
			Number:        number,
			TimeStamp:     uint64(time.Now().UTC().Unix()),
			PrevBlockHash: prevBlockHash,
		},
		Trans: trans,
	}

	return nb, nil
}

// payload is the fixed-order content hashed by the proof of work. The
// nonce is excluded; the engine appends it along with the difficulty
// bits.
type payload struct {
	Number        uint64 `json:"number"`
	TimeStamp     uint64 `json:"timestamp"`
	PrevBlockHash string `json:"prev_block_hash"`
	Trans         []Tx   `json:"trans"`
}

// Payload returns the bytes of the block that the proof of work engine
// hashes. The field order is fixed by the payload declaration and is
// part of the chain format.
func (b Block) Payload() ([]byte, error) {
	p := payload{
		Number:        b.Header.Number,
		TimeStamp:     b.Header.TimeStamp,
		PrevBlockHash: b.Header.PrevBlockHash,
		Trans:         b.Trans,
	}

	return json.Marshal(p)
}

// =============================================================================

// BlockData represents what is written to the store for one block.
type BlockData struct {
	Hash   string      `json:"hash"`
	Header BlockHeader `json:"block"`
	Trans  []Tx        `json:"trans"`
}

// NewBlockData constructs the value to persist from a mined block and
// its content hash.
func NewBlockData(block Block, hash string) BlockData {
	blockData := BlockData{
		Hash:   hash,
		Header: block.Header,
		Trans:  block.Trans,
	}

	return blockData
}

// ToBlock converts block data back into a block.
func ToBlock(blockData BlockData) Block {
	block := Block{
		Header: blockData.Header,
		Trans:  blockData.Trans,
	}

	return block
}
