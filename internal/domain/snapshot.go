package domain

import "sync"

// Snapshot is a consumer-owned copy of a Board. It carries its own lock so a
// presentation layer can share it between its draw and input paths.
type Snapshot struct {
	mu      sync.Mutex
	entries []Instrument
}

// NewSnapshot returns an empty snapshot, filled by the first CopySnapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// CopySnapshot refreshes target from source. It returns false, leaving target
// untouched, when source is not Ready.
//
// Locks are taken source first, then target. Copies only ever run from a
// live Board into a Snapshot, so that order holds program-wide.
func CopySnapshot(target *Snapshot, source *Board) bool {
	if target == nil || source == nil {
		return false
	}

	source.mu.Lock()
	defer source.mu.Unlock()

	if source.readiness != Ready {
		return false
	}

	target.mu.Lock()
	defer target.mu.Unlock()

	if len(target.entries) != len(source.entries) {
		target.entries = make([]Instrument, len(source.entries))
	}

	for i := range source.entries {
		src := &source.entries[i]
		dst := &target.entries[i]

		dst.Symbol = src.Symbol
		dst.Price = src.Price
		dst.Direction = src.Direction

		if src.Changed {
			dst.Changed = true
			// restart a running fade below full so fast updates don't pop
			if dst.DrawState != 0 {
				dst.DrawState = FadeRestart
			} else {
				dst.DrawState = src.DrawState
			}
		}
	}
	return true
}

// Len returns the number of copied instruments.
func (s *Snapshot) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of the snapshot's instruments.
func (s *Snapshot) Entries() []Instrument {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Instrument, len(s.entries))
	copy(out, s.entries)
	return out
}

// Step decays every instrument's highlight by one frame.
func (s *Snapshot) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		s.entries[i].Step()
	}
}

// Frame returns the entries as they should be drawn this frame, then
// decays them for the next one.
func (s *Snapshot) Frame() []Instrument {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Instrument, len(s.entries))
	copy(out, s.entries)
	for i := range s.entries {
		s.entries[i].Step()
	}
	return out
}
