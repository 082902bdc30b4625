package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stemsi/resultbook/internal/config"
	"github.com/stemsi/resultbook/internal/model"
)

// exportJobTTL bounds how long job state stays queryable.
const exportJobTTL = 24 * time.Hour

// RedisExportJobStore keeps export jobs as JSON values and queues their IDs on a list.
type RedisExportJobStore struct {
	rdb *redis.Client
}

func NewRedisExportJobStore(rdb *redis.Client) *RedisExportJobStore {
	return &RedisExportJobStore{rdb: rdb}
}

func (s *RedisExportJobStore) Save(ctx context.Context, job *model.ExportJob) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, config.CacheKey.ExportJobKey(job.ID), raw, exportJobTTL).Err()
}

func (s *RedisExportJobStore) Get(ctx context.Context, id string) (*model.ExportJob, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.ExportJobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrExportNotFound
	}
	if err != nil {
		return nil, err
	}
	var job model.ExportJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *RedisExportJobStore) Enqueue(ctx context.Context, id string) error {
	return s.rdb.RPush(ctx, config.WorkerKey.ReportExportQueue, id).Err()
}
