package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
)

const (
	boardKey = "dealdesk:pipeline:board"
	// genKey counts saves. A fill only lands if no save happened since its load began.
	genKey = "dealdesk:pipeline:board:gen"
)

var errStaleFill = errors.New("pipeline changed while loading")

// Cached is a read-through Redis cache in front of another board repository. Writes go to the
// underlying repository and then drop the cached copy; the next read refills it.
//
// Redis failures never fail a call: the cache is skipped and the error logged.
type Cached struct {
	next   pipeline.Repository
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

func NewCached(next pipeline.Repository, client *redis.Client, ttl time.Duration) *Cached {
	return &Cached{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

func (c *Cached) Get(ctx context.Context) ([]pipeline.Stage, error) {
	payload, err := c.client.Get(ctx, boardKey).Bytes()
	if err == nil {
		var stages []pipeline.Stage
		if err := json.Unmarshal(payload, &stages); err == nil {
			return stages, nil
		}

		slog.Warn("discarding unreadable cached pipeline", "key", boardKey)
	} else if !errors.Is(err, redis.Nil) {
		slog.Error("failed to read pipeline cache", "error", err)
	}

	// Callers sharing the load must not fail because the first one went away.
	loadCtx := context.WithoutCancel(ctx)

	ch := c.group.DoChan(boardKey, func() (any, error) {
		gen := c.generation(loadCtx)

		stages, err := c.next.Get(loadCtx)
		if err != nil {
			return nil, err
		}

		c.fill(loadCtx, gen, stages)

		return stages, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		stages, _ := res.Val.([]pipeline.Stage)

		return stages, nil
	}
}

func (c *Cached) Save(ctx context.Context, stages []pipeline.Stage) error {
	err := c.next.Save(ctx, stages)

	_, invErr := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey)
		p.Del(ctx, boardKey)

		return nil
	})
	if invErr != nil {
		slog.Error("failed to invalidate pipeline cache", "error", invErr)
	}

	return err
}

func (c *Cached) generation(ctx context.Context) int64 {
	gen, err := c.client.Get(ctx, genKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Error("failed to read pipeline cache generation", "error", err)
	}

	return gen
}

// fill caches stages loaded at generation gen, unless a save has happened since.
func (c *Cached) fill(ctx context.Context, gen int64, stages []pipeline.Stage) {
	if stages == nil {
		return
	}

	raw, err := json.Marshal(stages)
	if err != nil {
		slog.Error("failed to encode pipeline for cache", "error", err)
		return
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		if cur != gen {
			return errStaleFill
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.SetNX(ctx, boardKey, raw, c.ttl)
			return nil
		})

		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		slog.Debug("skipping stale pipeline cache fill", "generation", gen)
	default:
		slog.Error("failed to write pipeline cache", "error", err)
	}
}
