package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stemsi/resultbook/internal/config"
	"github.com/stemsi/resultbook/internal/model"
)

// ReportUpdates is a live subscription to report changes. *redis.PubSub
// satisfies it.
type ReportUpdates interface {
	Receive(ctx context.Context) (interface{}, error)
	Channel(opts ...redis.ChannelOption) <-chan *redis.Message
	Close() error
}

// RedisReportCache stores rendered reports keyed by a version that marks,
// subject configuration and registration writes bump.
type RedisReportCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisReportCache creates a RedisReportCache. A zero ttl disables storing.
func NewRedisReportCache(rdb *redis.Client, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{rdb: rdb, ttl: ttl}
}

// Version returns the current report version, 0 if nothing was recorded yet.
// It is the sum of the exam and class counter and the class roster counter,
// so a bump of either yields a new version.
func (c *RedisReportCache) Version(ctx context.Context, examName, className string) (int64, error) {
	vals, err := c.rdb.MGet(ctx,
		config.CacheKey.ReportVersionKey(examName, className),
		config.CacheKey.ReportClassVersionKey(className),
	).Result()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse report version: %w", err)
		}
		total += n
	}
	return total, nil
}

// Get returns a cached report or nil on a miss.
func (c *RedisReportCache) Get(ctx context.Context, key string) (*model.Report, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rep model.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return &rep, nil
}

// Set stores a report under key.
func (c *RedisReportCache) Set(ctx context.Context, key string, rep *model.Report) error {
	if c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

// ReportChanged bumps the report version of an exam and class and announces
// it on the updates channel.
func (c *RedisReportCache) ReportChanged(ctx context.Context, examName, className string) error {
	return c.bump(ctx,
		config.CacheKey.ReportVersionKey(examName, className),
		config.CacheKey.ReportUpdatesChannel(examName, className),
	)
}

// RosterChanged bumps the roster version of a class, invalidating the reports
// of every exam for it.
func (c *RedisReportCache) RosterChanged(ctx context.Context, className string) error {
	return c.bump(ctx,
		config.CacheKey.ReportClassVersionKey(className),
		config.CacheKey.ReportClassUpdatesChannel(className),
	)
}

func (c *RedisReportCache) bump(ctx context.Context, key, channel string) error {
	version, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("bump report version: %w", err)
	}
	if err := c.rdb.Publish(ctx, channel, strconv.FormatInt(version, 10)).Err(); err != nil {
		return fmt.Errorf("publish report update: %w", err)
	}
	return nil
}

// Subscribe listens for updates of an exam and class, including roster
// changes of the class. The caller closes the subscription.
func (c *RedisReportCache) Subscribe(ctx context.Context, examName, className string) ReportUpdates {
	return c.rdb.Subscribe(ctx,
		config.CacheKey.ReportUpdatesChannel(examName, className),
		config.CacheKey.ReportClassUpdatesChannel(className),
	)
}
