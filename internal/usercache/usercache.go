// Package usercache caches the public user projection in Redis in front of a
// repository.UserLookup.
package usercache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialverse/internal/model"
	"github.com/d60-Lab/socialverse/internal/repository"
	"github.com/d60-Lab/socialverse/pkg/logger"
)

// Lookup is a read-through cache. Redis errors degrade to the backing lookup.
type Lookup struct {
	next  repository.UserLookup
	cache *redis.Client
	ttl   time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

func New(next repository.UserLookup, cache *redis.Client, ttl time.Duration) *Lookup {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Lookup{next: next, cache: cache, ttl: ttl}
}

func key(id string) string { return fmt.Sprintf("user:%s", id) }

func (l *Lookup) LookupUsers(ctx context.Context, ids []string) (map[string]model.PublicUser, error) {
	out := make(map[string]model.PublicUser, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}

	if vals, err := l.cache.MGet(ctx, keys...).Result(); err == nil {
		for i, v := range vals {
			str, ok := v.(string)
			if !ok {
				continue
			}
			var u model.PublicUser
			if uErr := json.Unmarshal([]byte(str), &u); uErr == nil {
				out[ids[i]] = u
			}
		}
	} else {
		logger.Warn("user cache mget failed", zap.Error(err))
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			missing = append(missing, id)
		}
	}
	l.hits.Add(int64(len(ids) - len(missing)))
	if len(missing) == 0 {
		return out, nil
	}
	l.misses.Add(int64(len(missing)))

	loaded, err := l.next.LookupUsers(ctx, missing)
	if err != nil {
		return nil, err
	}

	pipe := l.cache.Pipeline()
	for id, u := range loaded {
		out[id] = u
		if payload, err := json.Marshal(u); err == nil {
			pipe.Set(ctx, key(id), payload, l.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("user cache fill failed", zap.Error(err))
	}
	return out, nil
}

// Counters 命中/未命中计数
type Counters struct {
	Hits   int64
	Misses int64
}

func (l *Lookup) Counters() Counters {
	return Counters{Hits: l.hits.Load(), Misses: l.misses.Load()}
}
