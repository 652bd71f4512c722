package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ascai1/oanda-wallpaper/internal/application/port"
	"github.com/ascai1/oanda-wallpaper/internal/domain"
	"github.com/ascai1/oanda-wallpaper/internal/infrastructure/codec/jsoncodec"
)

type mockTransport struct {
	requests []port.Request
	body     []byte
	err      error
}

func (m *mockTransport) Do(ctx context.Context, req port.Request) ([]byte, error) {
	m.requests = append(m.requests, req)
	return m.body, m.err
}

func TestRegistryLookupMatchesSymbolSet(t *testing.T) {
	r := NewRegistry()
	r.Store([]domain.Symbol{"EUR_USD", "USD_JPY"}, 9)

	if id, ok := r.Lookup([]domain.Symbol{"USD_JPY", "EUR_USD"}); !ok || id != 9 {
		t.Errorf("same set in another order should match, got %d %v", id, ok)
	}
	if _, ok := r.Lookup([]domain.Symbol{"EUR_USD"}); ok {
		t.Errorf("different set must not match")
	}

	r.Clear([]domain.Symbol{"USD_JPY", "EUR_USD"})
	if r.Current([]domain.Symbol{"EUR_USD", "USD_JPY"}) != NoSession {
		t.Errorf("expected NoSession after Clear")
	}
	if r.Len() != 0 {
		t.Errorf("cleared registry should be empty, got %d", r.Len())
	}
}

func TestRegistryKeepsDistinctSets(t *testing.T) {
	r := NewRegistry()
	a := []domain.Symbol{"EUR_USD"}
	b := []domain.Symbol{"USD_JPY"}

	r.Store(a, 1)
	r.Store(b, 2)

	if r.Current(a) != 1 || r.Current(b) != 2 {
		t.Errorf("sets must keep their own ids, got %d and %d", r.Current(a), r.Current(b))
	}

	r.Clear(b)
	if r.Current(a) != 1 {
		t.Errorf("clearing one set must not touch another, got %d", r.Current(a))
	}
	if r.Current(b) != NoSession {
		t.Errorf("expected cleared set to report NoSession")
	}
}

func TestBootstrapNewSession(t *testing.T) {
	tr := &mockTransport{body: []byte(`{"sessionId":31337}`)}
	reg := NewRegistry()
	b := NewBootstrapper("http://svc.test/poll.json", tr, jsoncodec.New(), reg)

	id, err := b.Bootstrap(context.Background(), []domain.Symbol{"EUR_USD"})
	if err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if got := reg.Current([]domain.Symbol{"EUR_USD"}); id != 31337 || got != 31337 {
		t.Errorf("expected id 31337 stored, got %d / %d", id, got)
	}

	if len(tr.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(tr.requests))
	}
	req := tr.requests[0]
	if req.Method != http.MethodPost || string(req.Body) != `{"prices":["EUR_USD"]}` {
		t.Errorf("unexpected request %+v", req)
	}
}

func TestBootstrapReusesSession(t *testing.T) {
	tr := &mockTransport{body: []byte(`{"sessionId":1}`)}
	reg := NewRegistry()
	reg.Store([]domain.Symbol{"EUR_USD"}, 55)
	b := NewBootstrapper("http://svc.test", tr, jsoncodec.New(), reg)

	id, err := b.Bootstrap(context.Background(), []domain.Symbol{"EUR_USD"})
	if err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if id != 55 {
		t.Errorf("expected reused id 55, got %d", id)
	}
	if len(tr.requests) != 0 {
		t.Errorf("reuse must not hit the network, got %d requests", len(tr.requests))
	}
}

func TestBootstrapFailures(t *testing.T) {
	tests := []struct {
		name  string
		tr    *mockTransport
		cause error
	}{
		{name: "transport", tr: &mockTransport{err: &port.TransportError{StatusCode: 500}}, cause: port.ErrTransport},
		{name: "unparsable", tr: &mockTransport{body: []byte("oops")}, cause: port.ErrParse},
		{name: "missing id", tr: &mockTransport{body: []byte(`{"prices":[]}`)}, cause: port.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			b := NewBootstrapper("http://svc.test", tt.tr, jsoncodec.New(), reg)

			id, err := b.Bootstrap(context.Background(), []domain.Symbol{"EUR_USD"})
			if !errors.Is(err, port.ErrBootstrap) || !errors.Is(err, tt.cause) {
				t.Fatalf("expected ErrBootstrap wrapping %v, got %v", tt.cause, err)
			}
			if id != NoSession || reg.Len() != 0 {
				t.Errorf("failed bootstrap must not store a session")
			}
		})
	}
}

func TestBootstrapNoSymbols(t *testing.T) {
	b := NewBootstrapper("http://svc.test", &mockTransport{}, jsoncodec.New(), NewRegistry())
	if _, err := b.Bootstrap(context.Background(), nil); !errors.Is(err, domain.ErrNoSymbols) {
		t.Errorf("expected ErrNoSymbols, got %v", err)
	}
}
