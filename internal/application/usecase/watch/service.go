package watch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ascai1/oanda-wallpaper/internal/application/port"
	"github.com/ascai1/oanda-wallpaper/internal/domain"
)

// Source is anything that can fill a consumer snapshot. *Session satisfies it.
type Source interface {
	Snapshot(target *domain.Snapshot) bool
}

type ServiceDeps struct {
	Source     Source
	FrameEvery time.Duration
	PrintEvery time.Duration
	Precision  int
	RunID      string

	Sink      port.Sink
	Repo      port.Repository
	Publisher port.Publisher
}

// Service is the terminal consumer: it redraws the live line every frame and
// periodically prints and records a snapshot.
type Service struct {
	deps ServiceDeps
	snap *domain.Snapshot
	fmt  *Formatter
}

func NewService(deps ServiceDeps) *Service {
	if deps.FrameEvery <= 0 {
		deps.FrameEvery = 100 * time.Millisecond
	}
	if deps.PrintEvery <= 0 {
		deps.PrintEvery = 5 * time.Minute
	}
	if deps.RunID == "" {
		deps.RunID = uuid.NewString()
	}
	if deps.Repo == nil {
		deps.Repo = NewNoopRepo()
	}
	if deps.Publisher == nil {
		deps.Publisher = noopPublisher{}
	}
	return &Service{
		deps: deps,
		snap: domain.NewSnapshot(),
		fmt:  NewFormatter(deps.Precision),
	}
}

// RunID identifies this process in recorded snapshots.
func (s *Service) RunID() string { return s.deps.RunID }

func (s *Service) Run(ctx context.Context) error {
	if s.deps.Source == nil {
		return errors.New("no snapshot source")
	}
	if s.deps.Sink == nil {
		return errors.New("no sink")
	}

	frameTicker := time.NewTicker(s.deps.FrameEvery)
	defer frameTicker.Stop()

	snapTicker := time.NewTicker(s.deps.PrintEvery)
	defer snapTicker.Stop()

	log.Info().
		Str("run_id", s.deps.RunID).
		Dur("frame", s.deps.FrameEvery).
		Dur("snapshot", s.deps.PrintEvery).
		Msg("watch started")

	_ = s.deps.Sink.WriteLive(s.fmt.Render(nil, RenderLive))

	for {
		select {
		case <-ctx.Done():
			_ = s.deps.Sink.NewLine()
			return ctx.Err()

		case now := <-frameTicker.C:
			s.frame(now)

		case now := <-snapTicker.C:
			s.record(ctx, now)
		}
	}
}

// frame draws the entries for this frame and then decays them.
func (s *Service) frame(now time.Time) {
	if !s.deps.Source.Snapshot(s.snap) {
		return
	}
	entries := s.snap.Frame()

	_ = s.deps.Sink.WriteLive(s.fmt.Render(entries, RenderLive))

	payload, err := newSnapshotDoc(s.deps.RunID, now.UnixMilli(), entries).Marshal()
	if err != nil {
		log.Error().Err(err).Msg("marshal frame failed")
		return
	}
	s.deps.Publisher.Publish(payload)
}

// record prints a timestamped history line and hands the snapshot to the repository.
func (s *Service) record(ctx context.Context, now time.Time) {
	entries := s.snap.Entries()
	if len(entries) == 0 {
		return
	}

	line := s.fmt.Render(entries, RenderSnapshot)
	_ = s.deps.Sink.WriteSnapshot(now, line)

	ts := now.UnixMilli()
	payload, err := newSnapshotDoc(s.deps.RunID, ts, entries).Marshal()
	if err != nil {
		log.Error().Err(err).Msg("marshal snapshot failed")
		return
	}
	if err := s.deps.Repo.InsertSnapshot(ctx, s.deps.RunID, ts, string(payload)); err != nil {
		log.Warn().Err(err).Msg("insert snapshot failed")
	}
	for _, e := range entries {
		if err := s.deps.Repo.UpsertLatestPrice(ctx, e.Symbol.String(), e.Price, e.Direction.String(), ts); err != nil {
			log.Warn().Err(err).Str("symbol", e.Symbol.String()).Msg("upsert latest price failed")
		}
	}
}
