// Package cache decorates the reservation store with a Redis-backed
// daily-schedule cache. The cache is best effort: Redis failures are
// logged and reads fall through to the store.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"roomres/internal/model"
	"roomres/internal/service"
)

const keyPrefix = "roomres:schedule:"

// ScheduleCache wraps a store, caching GetByDate results per date and
// invalidating the affected dates on every write.
type ScheduleCache struct {
	service.Store
	rdb    *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewScheduleCache(store service.Store, rdb *redis.Client, ttl time.Duration, logger *zerolog.Logger) *ScheduleCache {
	return &ScheduleCache{
		Store:  store,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *ScheduleCache) GetByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	key := keyPrefix + date

	cached, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var reservations []model.Reservation
		if err := json.Unmarshal(cached, &reservations); err == nil {
			return reservations, nil
		}
		// Unreadable entry; drop it and fall through.
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Debug().Err(err).Str("date", date).Msg("Schedule cache read failed")
	}

	reservations, err := c.Store.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(reservations); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Debug().Err(err).Str("date", date).Msg("Schedule cache write failed")
		}
	}
	return reservations, nil
}

func (c *ScheduleCache) Insert(ctx context.Context, r *model.Reservation) error {
	if err := c.Store.Insert(ctx, r); err != nil {
		return err
	}
	c.invalidate(ctx, r.Date)
	return nil
}

func (c *ScheduleCache) Update(ctx context.Context, r *model.Reservation) error {
	// The record may be moving between dates; invalidate both.
	oldDate := ""
	if existing, err := c.Store.GetByID(ctx, r.ID); err == nil {
		oldDate = existing.Date
	}

	if err := c.Store.Update(ctx, r); err != nil {
		return err
	}

	c.invalidate(ctx, r.Date)
	if oldDate != "" && oldDate != r.Date {
		c.invalidate(ctx, oldDate)
	}
	return nil
}

func (c *ScheduleCache) Delete(ctx context.Context, id string) error {
	date := ""
	if existing, err := c.Store.GetByID(ctx, id); err == nil {
		date = existing.Date
	}

	if err := c.Store.Delete(ctx, id); err != nil {
		return err
	}

	if date != "" {
		c.invalidate(ctx, date)
	}
	return nil
}

func (c *ScheduleCache) invalidate(ctx context.Context, date string) {
	if err := c.rdb.Del(ctx, keyPrefix+date).Err(); err != nil {
		c.logger.Debug().Err(err).Str("date", date).Msg("Schedule cache invalidation failed")
	}
}
