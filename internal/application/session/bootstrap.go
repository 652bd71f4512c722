package session

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ascai1/oanda-wallpaper/internal/application/port"
	"github.com/ascai1/oanda-wallpaper/internal/domain"
)

// Bootstrapper opens polling sessions against the remote service.
type Bootstrapper struct {
	url       string
	transport port.Transport
	codec     port.Codec
	registry  *Registry
}

func NewBootstrapper(url string, transport port.Transport, codec port.Codec, registry *Registry) *Bootstrapper {
	return &Bootstrapper{
		url:       url,
		transport: transport,
		codec:     codec,
		registry:  registry,
	}
}

// Bootstrap returns a session id for symbols, reusing the registry's id when
// it covers the same set. Failures wrap port.ErrBootstrap and are not retried.
func (b *Bootstrapper) Bootstrap(ctx context.Context, symbols []domain.Symbol) (ID, error) {
	if len(symbols) == 0 {
		return NoSession, fmt.Errorf("%w: %w", port.ErrBootstrap, domain.ErrNoSymbols)
	}

	if id, ok := b.registry.Lookup(symbols); ok {
		log.Debug().Uint64("session_id", uint64(id)).Msg("reusing session")
		return id, nil
	}

	body, err := b.codec.EncodeSubscription(symbols)
	if err != nil {
		return NoSession, fmt.Errorf("%w: encode subscription: %w", port.ErrBootstrap, err)
	}

	resp, err := b.transport.Do(ctx, port.Subscribe(b.url, body))
	if err != nil {
		return NoSession, fmt.Errorf("%w: %w", port.ErrBootstrap, err)
	}

	raw, err := b.codec.DecodeSessionID(resp)
	if err != nil {
		return NoSession, fmt.Errorf("%w: %w", port.ErrBootstrap, err)
	}

	id := ID(raw)
	b.registry.Store(symbols, id)

	log.Info().
		Uint64("session_id", raw).
		Int("symbols", len(symbols)).
		Msg("session opened")
	return id, nil
}
