package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ascai1/oanda-wallpaper/internal/application/port"
	"github.com/ascai1/oanda-wallpaper/internal/application/session"
	"github.com/ascai1/oanda-wallpaper/internal/domain"
)

// Config holds poller configuration.
type Config struct {
	URL      string        // poll endpoint
	Interval time.Duration // delay between the end of one round and the start of the next (default: 500ms)

	// InvalidateOnParseError clears the board's session after an unparsable
	// response, which stops every poller subscribed to the same set.
	InvalidateOnParseError bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:      "http://api-sandbox.oanda.com/v1/instruments/poll.json",
		Interval: 500 * time.Millisecond,
	}
}

// Poller runs poll rounds for one board until its session is cancelled.
type Poller struct {
	cfg       Config
	transport port.Transport
	codec     port.Codec
	registry  *session.Registry
	board     *domain.Board
	symbols   []domain.Symbol // registry key for this board's session

	rounds   atomic.Int64
	failures atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, transport port.Transport, codec port.Codec, registry *session.Registry, board *domain.Board) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Poller{
		cfg:       cfg,
		transport: transport,
		codec:     codec,
		registry:  registry,
		board:     board,
		symbols:   board.Symbols(),
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	log.Info().
		Dur("interval", p.cfg.Interval).
		Int("instruments", p.board.Len()).
		Msg("poller started")
	return nil
}

// Stop cancels the loop and waits for it to exit. A round already in flight
// is allowed to finish.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info().
			Int64("rounds", p.rounds.Load()).
			Int64("failures", p.failures.Load()).
			Msg("poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Rounds returns the number of rounds that reached the transport.
func (p *Poller) Rounds() int64 { return p.rounds.Load() }

// Failures returns the number of rounds that failed transport or parsing.
func (p *Poller) Failures() int64 { return p.failures.Load() }

// run is the fixed-delay loop: the timer is re-armed only after a round
// completes, so rounds never overlap.
func (p *Poller) run() {
	defer p.wg.Done()

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-timer.C:
		}

		id, ok := p.active()
		if !ok {
			return
		}

		if err := p.pollOnce(id); err != nil {
			p.failures.Add(1)
			log.Warn().Err(err).Uint64("session_id", uint64(id)).Msg("poll round failed")

			if errors.Is(err, port.ErrParse) && p.cfg.InvalidateOnParseError {
				log.Warn().Msg("invalidating session after unparsable response")
				p.registry.Clear(p.symbols)
			}
		}

		timer.Reset(p.cfg.Interval)
	}
}

// active reports whether another round may start.
func (p *Poller) active() (session.ID, bool) {
	if p.ctx.Err() != nil {
		return session.NoSession, false
	}
	if p.board.Readiness() == domain.Terminated {
		return session.NoSession, false
	}
	id := p.registry.Current(p.symbols)
	if id == session.NoSession {
		return session.NoSession, false
	}
	return id, true
}

// pollOnce performs one request/decode/apply cycle.
func (p *Poller) pollOnce(id session.ID) error {
	start := time.Now()
	p.rounds.Add(1)

	// cancellation is checked between rounds only; a started request runs
	// to completion or to the transport's own timeout
	ctx := context.WithoutCancel(p.ctx)

	body, err := p.transport.Do(ctx, port.Poll(p.cfg.URL, uint64(id)))
	if err != nil {
		return err
	}

	quotes, err := p.codec.DecodePriceList(body)
	if err != nil {
		return err
	}

	matched := p.board.ApplyRound(body, quotes)

	log.Debug().
		Int("quotes", len(quotes)).
		Int("matched", matched).
		Dur("duration", time.Since(start)).
		Msg("poll round complete")
	return nil
}
