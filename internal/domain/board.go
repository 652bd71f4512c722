package domain

import (
	"sync"
)

// Readiness tracks whether a Board holds data worth copying.
type Readiness int

const (
	NotReady Readiness = iota
	Ready
	Terminated
)

func (r Readiness) String() string {
	switch r {
	case Ready:
		return "ready"
	case Terminated:
		return "terminated"
	default:
		return "not_ready"
	}
}

// Board is the live state of one polling session. The poller writes it,
// consumers read it only through CopySnapshot.
type Board struct {
	mu sync.Mutex

	entries   []Instrument
	index     map[Symbol]int // symbol -> entries index, fixed at construction
	readiness Readiness
	raw       []byte // last response body, backing array reused across rounds
}

// NewBoard creates a Board with one entry per symbol, in order.
func NewBoard(symbols []Symbol) *Board {
	entries := make([]Instrument, 0, len(symbols))
	index := make(map[Symbol]int, len(symbols))
	for _, s := range symbols {
		if _, ok := index[s]; ok {
			continue
		}
		index[s] = len(entries)
		entries = append(entries, Instrument{Symbol: s, Direction: DirectionDown})
	}
	return &Board{entries: entries, index: index}
}

// Len returns the number of instruments on the board.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Symbols returns the ordered symbol list.
func (b *Board) Symbols() []Symbol {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Symbol, len(b.entries))
	for i := range b.entries {
		out[i] = b.entries[i].Symbol
	}
	return out
}

func (b *Board) Readiness() Readiness {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readiness
}

// Terminate marks the board as shut down. Reports false if it already was.
func (b *Board) Terminate() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.readiness == Terminated {
		return false
	}
	b.readiness = Terminated
	return true
}

// ApplyRound applies one successfully parsed poll response. Every changed
// flag is cleared first; quotes for unknown symbols are ignored. Returns the
// number of entries updated.
func (b *Board) ApplyRound(raw []byte, quotes []Quote) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.raw = append(b.raw[:0], raw...)

	for i := range b.entries {
		b.entries[i].Changed = false
	}

	matched := 0
	for _, q := range quotes {
		i, ok := b.index[q.Symbol]
		if !ok {
			continue
		}
		b.entries[i].Update(q.Mid())
		matched++
	}

	if b.readiness == NotReady {
		b.readiness = Ready
	}
	return matched
}

// LastResponse returns a copy of the most recent response body.
func (b *Board) LastResponse() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.raw == nil {
		return nil
	}
	out := make([]byte, len(b.raw))
	copy(out, b.raw)
	return out
}

// Release drops the board's storage. The poller must already have exited.
func (b *Board) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readiness = Terminated
	b.entries = nil
	b.raw = nil
}
