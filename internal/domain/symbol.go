package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MaxSymbolLen is the longest instrument name the remote service accepts.
const MaxSymbolLen = 15

var (
	ErrEmptySymbol   = errors.New("symbol is empty")
	ErrSymbolTooLong = errors.New("symbol too long")
	ErrNoSymbols     = errors.New("no symbols to subscribe")
)

// Symbol is a validated instrument name such as EUR_USD.
type Symbol string

func (s Symbol) String() string { return string(s) }

// NewSymbol normalizes and bounds-checks a raw instrument name.
func NewSymbol(raw string) (Symbol, error) {
	u := strings.ToUpper(strings.TrimSpace(raw))
	if u == "" {
		return "", ErrEmptySymbol
	}
	if len(u) > MaxSymbolLen {
		return "", fmt.Errorf("%w: %q is %d bytes, max %d", ErrSymbolTooLong, u, len(u), MaxSymbolLen)
	}
	return Symbol(u), nil
}

// ParseSymbols validates a subscription list, dropping blanks and duplicates
// while keeping the caller's order.
func ParseSymbols(in []string) ([]Symbol, error) {
	out := make([]Symbol, 0, len(in))
	seen := map[Symbol]struct{}{}
	for _, raw := range in {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		s, err := NewSymbol(raw)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, ErrNoSymbols
	}
	return out, nil
}

// SymbolStrings converts symbols back to plain strings.
func SymbolStrings(symbols []Symbol) []string {
	out := make([]string, len(symbols))
	for i, s := range symbols {
		out[i] = string(s)
	}
	return out
}
