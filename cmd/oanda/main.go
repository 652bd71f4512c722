package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ascai1/oanda-wallpaper/internal/application/usecase/watch"
	"github.com/ascai1/oanda-wallpaper/internal/domain"
	"github.com/ascai1/oanda-wallpaper/internal/infrastructure/config"
	"github.com/ascai1/oanda-wallpaper/internal/infrastructure/logger"
	"github.com/ascai1/oanda-wallpaper/internal/infrastructure/svc"
)

const usageMessage = "You must specify at least one instrument to subscribe to (example format: EUR_USD)"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("oanda", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to config.toml (default "+config.DefaultPath+" if present)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, usageMessage)
		return 1
	}
	symbols, err := domain.ParseSymbols(fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid instrument: %v\n", err)
		return 1
	}

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config %q: %v\n", *configPath, err)
		return 1
	}
	logger.Setup(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := svc.New(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("service context initialization failed")
		return 1
	}
	defer sc.Close()

	sess, err := watch.Open(ctx, sc.WatchDeps(), symbols)
	if err != nil {
		// bootstrap failures are not retried; the run ends here
		return 1
	}

	consumer := watch.NewService(sc.ServiceDeps(sess))

	log.Info().
		Strs("symbols", domain.SymbolStrings(symbols)).
		Uint64("session_id", uint64(sess.ID())).
		Str("url", cfg.Poll.URL).
		Str("run_id", consumer.RunID()).
		Str("feed", sc.FeedAddr()).
		Msg("oanda started")

	runErr := consumer.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.PollTimeout()+time.Second)
	defer cancel()
	if err := sess.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("session close failed")
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error().Err(runErr).Msg("watch exited")
		return 1
	}
	log.Info().
		Int64("rounds", sess.Poller().Rounds()).
		Int64("failures", sess.Poller().Failures()).
		Msg("exit")
	return 0
}
