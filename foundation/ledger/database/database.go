// Package database maintains the data model for the chain: accounts,
// transactions, blocks, and the serialized form blocks take inside the
// persistent store.
package database

import (
	"encoding/json"
	"fmt"
)

// Serialize produces the stored byte encoding for the specified block
// data. Field order follows the struct declarations and is part of the
// chain format: serializing, deserializing and serializing again yields
// byte-identical output.
func Serialize(blockData BlockData) ([]byte, error) {
	data, err := json.Marshal(blockData)
	if err != nil {
		return nil, fmt.Errorf("serialize block: %w", err)
	}

	return data, nil
}

// Deserialize reconstructs block data from its stored byte encoding.
func Deserialize(data []byte) (BlockData, error) {
	var blockData BlockData
	if err := json.Unmarshal(data, &blockData); err != nil {
		return BlockData{}, fmt.Errorf("deserialize block: %w", err)
	}

	return blockData, nil
}
