package session

import (
	"slices"
	"strings"
	"sync"

	"github.com/ascai1/oanda-wallpaper/internal/domain"
)

// ID is the opaque session identifier issued by the remote service.
type ID uint64

// NoSession marks an absent or cleared session. Pollers stop when they observe it.
const NoSession ID = 0

// Registry holds one session per symbol set. Boards subscribed to the same
// set share an id; different sets never see each other's. Pollers read it
// each round; a controller may clear a set.
type Registry struct {
	mu  sync.Mutex
	ids map[string]ID // set key -> session
}

func NewRegistry() *Registry {
	return &Registry{ids: make(map[string]ID)}
}

// Current returns the id stored for symbols, or NoSession.
func (r *Registry) Current(symbols []domain.Symbol) ID {
	key := setKey(symbols)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ids[key]
}

// Lookup returns the stored id if one was issued for exactly this symbol set.
func (r *Registry) Lookup(symbols []domain.Symbol) (ID, bool) {
	id := r.Current(symbols)
	return id, id != NoSession
}

// Store records id as the session for symbols.
func (r *Registry) Store(symbols []domain.Symbol, id ID) {
	key := setKey(symbols)
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == NoSession {
		delete(r.ids, key)
		return
	}
	r.ids[key] = id
}

// Clear invalidates the session for symbols so every poller using it winds
// down. Other sets are untouched.
func (r *Registry) Clear(symbols []domain.Symbol) {
	key := setKey(symbols)
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ids, key)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

func setKey(symbols []domain.Symbol) string {
	s := domain.SymbolStrings(symbols)
	slices.Sort(s)
	return strings.Join(slices.Compact(s), ",")
}
