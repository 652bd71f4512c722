package watch

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ascai1/oanda-wallpaper/internal/application/poller"
	"github.com/ascai1/oanda-wallpaper/internal/application/port"
	"github.com/ascai1/oanda-wallpaper/internal/application/session"
	"github.com/ascai1/oanda-wallpaper/internal/domain"
)

var ErrNilSession = errors.New("watch: nil session")

// Deps are the collaborators shared by every session of a process. Several
// sessions may share one Registry.
type Deps struct {
	Transport port.Transport
	Codec     port.Codec
	Registry  *session.Registry
	Poll      poller.Config
}

// Session is one live board and the poller feeding it.
type Session struct {
	id     session.ID
	board  *domain.Board
	poller *poller.Poller

	mu     sync.Mutex
	closed bool // set once the board is released
}

// Open bootstraps a session for symbols and starts polling. On bootstrap
// failure no poller is started and the returned Session is nil.
func Open(ctx context.Context, deps Deps, symbols []domain.Symbol) (*Session, error) {
	boot := session.NewBootstrapper(deps.Poll.URL, deps.Transport, deps.Codec, deps.Registry)

	id, err := boot.Bootstrap(ctx, symbols)
	if err != nil {
		log.Error().Err(err).Strs("symbols", domain.SymbolStrings(symbols)).Msg("bootstrap failed, polling disabled")
		return nil, err
	}

	board := domain.NewBoard(symbols)
	p := poller.New(deps.Poll, deps.Transport, deps.Codec, deps.Registry, board)
	if err := p.Start(ctx); err != nil {
		board.Release()
		return nil, err
	}

	return &Session{id: id, board: board, poller: p}, nil
}

// ID returns the session id the poller was started with.
func (s *Session) ID() session.ID { return s.id }

// Board exposes the shared state for diagnostics.
func (s *Session) Board() *domain.Board { return s.board }

// Poller returns the session's poller.
func (s *Session) Poller() *poller.Poller { return s.poller }

// Snapshot copies the board into target. It reports false while the board is
// not Ready or after Close.
func (s *Session) Snapshot(target *domain.Snapshot) bool {
	if s == nil {
		return false
	}
	return domain.CopySnapshot(target, s.board)
}

// Close terminates the board, joins the poller and then releases the board.
// If ctx expires before the poller exits the board is left allocated, since
// the in-flight round may still write to it, and a later Close tries again.
// Once the board is released further calls return nil.
func (s *Session) Close(ctx context.Context) error {
	if s == nil {
		return ErrNilSession
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	s.board.Terminate()
	if err := s.poller.Stop(ctx); err != nil {
		log.Warn().Err(err).Msg("poller did not stop in time")
		return err
	}
	s.board.Release()
	s.closed = true
	return nil
}
