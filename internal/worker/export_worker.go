package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/stemsi/resultbook/internal/config"
	"github.com/stemsi/resultbook/internal/service"
)

const ExportPollTimeout = 1 * time.Second

// ExportProcessor renders one queued export job.
type ExportProcessor interface {
	Process(ctx context.Context, id string) error
}

// ExportWorker drains the report export queue.
type ExportWorker struct {
	rdb       *redis.Client
	processor ExportProcessor
	log       zerolog.Logger

	// pop blocks for up to timeout waiting for the next job ID.
	pop func(ctx context.Context, timeout time.Duration) (string, error)
}

func NewExportWorker(rdb *redis.Client, processor ExportProcessor, log zerolog.Logger) *ExportWorker {
	w := &ExportWorker{
		rdb:       rdb,
		processor: processor,
		log:       log.With().Str("component", "export_worker").Logger(),
	}
	w.pop = w.blpop
	return w
}

func (w *ExportWorker) blpop(ctx context.Context, timeout time.Duration) (string, error) {
	item, err := w.rdb.BLPop(ctx, timeout, config.WorkerKey.ReportExportQueue).Result()
	if err != nil {
		return "", err
	}
	if len(item) < 2 {
		return "", redis.Nil
	}
	return item[1], nil
}

// Start runs until ctx is cancelled. A job in progress at shutdown is
// finished before returning.
func (w *ExportWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ExportWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("ExportWorker stopped")
			return
		default:
		}

		id, err := w.pop(ctx, ExportPollTimeout)
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				w.log.Error().Err(err).Msg("BLPop error")
				time.Sleep(ExportPollTimeout)
			}
			continue
		}

		w.process(context.WithoutCancel(ctx), id)
	}
}

func (w *ExportWorker) process(ctx context.Context, id string) {
	start := time.Now()
	err := w.processor.Process(ctx, id)
	switch {
	case err == nil:
		w.log.Debug().Str("job_id", id).Dur("took", time.Since(start)).Msg("export processed")
	case errors.Is(err, service.ErrExportNotFound):
		// Job state expired before it was picked up.
		w.log.Warn().Str("job_id", id).Msg("dropping unknown export job")
	default:
		w.log.Error().Err(err).Str("job_id", id).Msg("export job state not saved")
	}
}
