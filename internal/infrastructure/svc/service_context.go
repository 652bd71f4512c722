package svc

import (
	"context"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ascai1/oanda-wallpaper/internal/application/poller"
	"github.com/ascai1/oanda-wallpaper/internal/application/port"
	"github.com/ascai1/oanda-wallpaper/internal/application/session"
	"github.com/ascai1/oanda-wallpaper/internal/application/usecase/watch"
	"github.com/ascai1/oanda-wallpaper/internal/infrastructure/codec/jsoncodec"
	"github.com/ascai1/oanda-wallpaper/internal/infrastructure/config"
	"github.com/ascai1/oanda-wallpaper/internal/infrastructure/storage/composite"
	pgrepo "github.com/ascai1/oanda-wallpaper/internal/infrastructure/storage/postgres"
	redisrepo "github.com/ascai1/oanda-wallpaper/internal/infrastructure/storage/redis"
	sqliterepo "github.com/ascai1/oanda-wallpaper/internal/infrastructure/storage/sqlite"
	"github.com/ascai1/oanda-wallpaper/internal/infrastructure/transport/httpclient"
	"github.com/ascai1/oanda-wallpaper/internal/interfaces/console"
	"github.com/ascai1/oanda-wallpaper/internal/interfaces/wsfeed"
)

// ServiceContext owns every long-lived dependency of a run. Resources are
// released in reverse order of creation by Close.
type ServiceContext struct {
	Ctx    context.Context
	Config *config.Config

	Registry  *session.Registry
	Transport port.Transport
	Codec     port.Codec
	Sink      port.Sink

	repos []port.Repository
	hub   *wsfeed.Hub
	feed  *wsfeed.Server

	closerChain []func() error
}

func New(ctx context.Context, cfg *config.Config) (*ServiceContext, error) {
	sc := &ServiceContext{
		Ctx:      ctx,
		Config:   cfg,
		Registry: session.NewRegistry(),
		Transport: httpclient.New(
			httpclient.WithPort(cfg.Poll.Port),
			httpclient.WithTimeout(cfg.PollTimeout()),
		),
		Codec:       jsoncodec.New(),
		Sink:        console.NewSink(),
		closerChain: make([]func() error, 0),
	}

	if err := sc.initializeStorage(); err != nil {
		_ = sc.Close()
		return nil, fmt.Errorf("%w: %w", ErrStorageInitFailed, err)
	}
	if cfg.Feed.Enabled {
		if err := sc.initFeed(); err != nil {
			_ = sc.Close()
			return nil, fmt.Errorf("%w: %w", ErrFeedInitFailed, err)
		}
	}
	return sc, nil
}

func (sc *ServiceContext) initializeStorage() error {
	if sc.Config.Redis.Enabled {
		if err := sc.initRedis(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	if sc.Config.SQLite.Enabled {
		if err := sc.initSQLite(); err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
	}
	if sc.Config.Postgres.Enabled {
		if err := sc.initPostgres(); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	return nil
}

func (sc *ServiceContext) initRedis() error {
	rdb := redisclient.NewClient(&redisclient.Options{
		Addr:     sc.Config.Redis.Addr,
		Password: sc.Config.Redis.Password,
		DB:       sc.Config.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(sc.Ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("ping: %w", err)
	}

	ttl := time.Duration(sc.Config.Redis.TTLSeconds) * time.Second
	sc.repos = append(sc.repos, redisrepo.New(rdb, sc.Config.Redis.Prefix, ttl, sc.Config.Redis.Stream, sc.Config.Redis.Channel))
	sc.closerChain = append(sc.closerChain, func() error {
		log.Info().Msg("closing redis connection")
		return rdb.Close()
	})

	log.Info().Str("addr", sc.Config.Redis.Addr).Int("db", sc.Config.Redis.DB).Msg("redis recorder enabled")
	return nil
}

func (sc *ServiceContext) initSQLite() error {
	repo, err := sqliterepo.New(sc.Config.SQLite.Path)
	if err != nil {
		return err
	}
	sc.repos = append(sc.repos, repo)
	sc.closerChain = append(sc.closerChain, func() error {
		log.Info().Msg("closing sqlite connection")
		return repo.Close()
	})

	log.Info().Str("path", sc.Config.SQLite.Path).Msg("sqlite recorder enabled")
	return nil
}

func (sc *ServiceContext) initPostgres() error {
	repo, err := pgrepo.New(sc.Config.Postgres.DSN)
	if err != nil {
		return err
	}
	sc.repos = append(sc.repos, repo)
	sc.closerChain = append(sc.closerChain, func() error {
		log.Info().Msg("closing postgres connection")
		return repo.Close()
	})

	log.Info().Msg("postgres recorder enabled")
	return nil
}

func (sc *ServiceContext) initFeed() error {
	sc.hub = wsfeed.NewHub()
	sc.feed = wsfeed.NewServer(sc.Config.Feed.Addr, sc.hub)
	if err := sc.feed.Start(sc.Ctx); err != nil {
		sc.hub, sc.feed = nil, nil
		return err
	}
	feed := sc.feed
	sc.closerChain = append(sc.closerChain, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		log.Info().Msg("closing snapshot feed")
		return feed.Shutdown(ctx)
	})
	return nil
}

// Repository returns every enabled recorder behind one port, or nil when
// none is enabled.
func (sc *ServiceContext) Repository() port.Repository {
	if len(sc.repos) == 0 {
		return nil
	}
	return composite.New(sc.repos...)
}

// Publisher returns the websocket feed, or nil when it is disabled.
func (sc *ServiceContext) Publisher() port.Publisher {
	if sc.hub == nil {
		return nil
	}
	return sc.hub
}

// FeedAddr returns the address the feed is bound to, or "" when disabled.
func (sc *ServiceContext) FeedAddr() string {
	if sc.feed == nil {
		return ""
	}
	return sc.feed.Addr()
}

// WatchDeps builds what watch.Open needs.
func (sc *ServiceContext) WatchDeps() watch.Deps {
	return watch.Deps{
		Transport: sc.Transport,
		Codec:     sc.Codec,
		Registry:  sc.Registry,
		Poll: poller.Config{
			URL:                    sc.Config.Poll.URL,
			Interval:               sc.Config.PollInterval(),
			InvalidateOnParseError: sc.Config.Poll.InvalidateOnParseError,
		},
	}
}

// ServiceDeps builds the consumer's dependencies around source.
func (sc *ServiceContext) ServiceDeps(source watch.Source) watch.ServiceDeps {
	return watch.ServiceDeps{
		Source:     source,
		FrameEvery: sc.Config.FrameInterval(),
		PrintEvery: time.Duration(sc.Config.App.PrintEveryMin) * time.Minute,
		Sink:       sc.Sink,
		Repo:       sc.Repository(),
		Publisher:  sc.Publisher(),
	}
}

// Close releases resources in reverse order. Errors are logged, not returned.
func (sc *ServiceContext) Close() error {
	for i := len(sc.closerChain) - 1; i >= 0; i-- {
		if err := sc.closerChain[i](); err != nil {
			log.Error().Err(err).Msg("error closing resource")
		}
	}
	sc.closerChain = nil
	return nil
}
