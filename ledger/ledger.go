// Package ledger records a hand's committed events as a hash-chained
// append-only log, and packages the exportable audit record for a
// finished hand. An external verifier with the record can re-derive
// exactly which contributions the hand accepted and in what order.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/xerrors"
)

// Event is one committed hand event: a phase transition or an accepted
// player contribution.
type Event struct {
	Kind   string `json:"kind"`
	Player int    `json:"player,omitempty"`
	Phase  string `json:"phase,omitempty"`
	Slot   int    `json:"slot,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Event kinds.
const (
	KindPhase      = "phase"
	KindKeyCommit  = "keycommit"
	KindLock       = "lock"
	KindPeel       = "peel"
	KindBet        = "bet"
	KindTimeout    = "timeout"
	KindFraud      = "fraud"
	KindSettlement = "settlement"
)

// Block is one link of the chain.
type Block struct {
	Index     int    `json:"index"`
	Timestamp int64  `json:"timestamp"`
	PrevHash  string `json:"prev_hash"`
	Hash      string `json:"hash"`
	Event     Event  `json:"event"`
}

// Chain is the append-only, sha256-linked event log for one hand.
type Chain struct {
	mu     sync.RWMutex
	blocks []Block
}

// NewChain starts a chain with its genesis block.
func NewChain() *Chain {
	c := &Chain{}
	genesis := Block{
		Index:     0,
		Timestamp: time.Now().Unix(),
		PrevHash:  "0",
		Event:     Event{Kind: "genesis"},
	}
	genesis.Hash = calculateHash(genesis)
	c.blocks = append(c.blocks, genesis)
	return c
}

// Append commits an event to the chain.
func (c *Chain) Append(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	latest := c.blocks[len(c.blocks)-1]
	block := Block{
		Index:     latest.Index + 1,
		Timestamp: time.Now().Unix(),
		PrevHash:  latest.Hash,
		Event:     ev,
	}
	block.Hash = calculateHash(block)

	if err := validateBlock(block, latest); err != nil {
		return xerrors.Errorf("invalid block: %w", err)
	}
	c.blocks = append(c.blocks, block)
	return nil
}

// Latest returns the most recent block.
func (c *Chain) Latest() Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[len(c.blocks)-1]
}

// Blocks returns a copy of the whole chain.
func (c *Chain) Blocks() []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Block(nil), c.blocks...)
}

// Verify walks the chain checking hash linkage and index continuity.
func (c *Chain) Verify() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.blocks) == 0 {
		return xerrors.New("empty chain")
	}
	if c.blocks[0].PrevHash != "0" {
		return xerrors.New("invalid genesis block")
	}
	for i := 1; i < len(c.blocks); i++ {
		if err := validateBlock(c.blocks[i], c.blocks[i-1]); err != nil {
			return xerrors.Errorf("block %d invalid: %w", i, err)
		}
	}
	return nil
}

func validateBlock(current, previous Block) error {
	if current.Index != previous.Index+1 {
		return xerrors.Errorf("invalid index: expected %d, got %d", previous.Index+1, current.Index)
	}
	if current.PrevHash != previous.Hash {
		return xerrors.Errorf("invalid prev hash: expected %s, got %s", previous.Hash, current.PrevHash)
	}
	if expected := calculateHash(current); current.Hash != expected {
		return xerrors.Errorf("invalid hash: expected %s, got %s", expected, current.Hash)
	}
	return nil
}

func calculateHash(b Block) string {
	b.Hash = ""
	data, err := json.Marshal(b)
	if err != nil {
		panic(err) // Block contains no unmarshalable fields
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
