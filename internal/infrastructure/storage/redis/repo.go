package redis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ascai1/oanda-wallpaper/internal/application/port"
)

type Repo struct {
	rdb       *redis.Client
	prefix    string
	ttl       time.Duration
	keyLatest string // prefix + ":latest"
	stream    string
	channel   string
}

type LatestPrice struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Direction string  `json:"direction"`
	Ts        int64   `json:"ts"`
}

func New(rdb *redis.Client, prefix string, ttl time.Duration, stream, channel string) *Repo {
	if strings.TrimSpace(stream) == "" {
		stream = prefix + ":snapshots"
	}
	if strings.TrimSpace(channel) == "" {
		channel = prefix + ":snapshots:pub"
	}
	return &Repo{
		rdb:       rdb,
		prefix:    prefix,
		ttl:       ttl,
		keyLatest: prefix + ":latest",
		stream:    stream,
		channel:   channel,
	}
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, symbol string, price float64, direction string, ts int64) error {
	if price <= 0 {
		return nil
	}
	b, err := json.Marshal(LatestPrice{Symbol: symbol, Price: price, Direction: direction, Ts: ts})
	if err != nil {
		return err
	}

	// Hash: field = symbol -> json
	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, r.keyLatest, symbol, string(b))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyLatest, r.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, runID string, ts int64, payload string) error {
	// 1) Stream: XADD <stream> * run_id ts_ms payload
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"run_id":  runID,
			"ts_ms":   ts,
			"payload": payload,
		},
	}).Result()
	if err != nil {
		return err
	}

	// 2) PubSub: PUBLISH <channel> payload
	return r.rdb.Publish(ctx, r.channel, payload).Err()
}

// Close is a no-op; the client is owned by whoever created it.
func (r *Repo) Close() error { return nil }

var _ port.Repository = (*Repo)(nil)
