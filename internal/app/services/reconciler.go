package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/yigit/pastquestions/internal/app/models"
	"github.com/yigit/pastquestions/internal/pkg/apperrors"
	"github.com/yigit/pastquestions/internal/pkg/filestorage"
	"github.com/yigit/pastquestions/internal/pkg/metrics"
)

// Reconciler works through the cleanup ledger on a schedule, removing
// orphaned blobs and dangling records.
type Reconciler struct {
	questions QuestionStore
	blobs     filestorage.BlobStore
	cleanups  CleanupStore
	batchSize int
	timeout   time.Duration
	logger    zerolog.Logger
	cron      *cron.Cron
}

// NewReconciler creates a new Reconciler. Each scheduled run handles at most
// batchSize tasks and is bounded by timeout.
func NewReconciler(
	questions QuestionStore,
	blobs filestorage.BlobStore,
	cleanups CleanupStore,
	batchSize int,
	timeout time.Duration,
	logger zerolog.Logger,
) *Reconciler {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Reconciler{
		questions: questions,
		blobs:     blobs,
		cleanups:  cleanups,
		batchSize: batchSize,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules RunOnce with a standard cron expression or descriptor
// such as "@every 15m". Overlapping runs are skipped.
func (r *Reconciler) Start(schedule string) error {
	cl := cronLogger{logger: r.logger}
	r.cron = cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)), cron.WithLogger(cl))

	if _, err := r.cron.AddFunc(schedule, r.scheduledRun); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", schedule, err)
	}
	r.cron.Start()
	r.logger.Info().Str("schedule", schedule).Msg("Cleanup reconciler scheduled")
	return nil
}

// Stop stops scheduling and waits for a running pass until ctx expires
func (r *Reconciler) Stop(ctx context.Context) error {
	if r.cron == nil {
		return nil
	}
	done := r.cron.Stop()
	select {
	case <-done.Done():
		r.logger.Info().Msg("Cleanup reconciler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Reconciler) scheduledRun() {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	if _, _, err := r.RunOnce(ctx); err != nil {
		r.logger.Error().Err(err).Msg("Cleanup reconciliation failed")
	}
}

// RunOnce handles one batch of pending tasks and returns how many were
// resolved and how many failed again.
func (r *Reconciler) RunOnce(ctx context.Context) (resolved, failed int, err error) {
	tasks, err := r.cleanups.ListPending(ctx, r.batchSize)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list cleanup tasks: %w", err)
	}

	for i := range tasks {
		task := &tasks[i]
		log := r.logger.With().Int64("taskID", task.ID).Str("kind", string(task.Kind)).Str("storageKey", task.StorageKey).Logger()

		if err := r.reconcile(ctx, task); err != nil {
			failed++
			metrics.CleanupTasksTotal.WithLabelValues(string(task.Kind), "failed").Inc()
			log.Warn().Err(err).Int("attempts", task.Attempts+1).Msg("Cleanup task failed")
			if rerr := r.cleanups.RecordAttempt(ctx, task.ID, err.Error()); rerr != nil {
				log.Error().Err(rerr).Msg("Failed to record cleanup attempt")
			}
			continue
		}

		if err := r.cleanups.MarkResolved(ctx, task.ID); err != nil {
			failed++
			log.Error().Err(err).Msg("Cleanup done but task could not be marked resolved")
			continue
		}
		resolved++
		metrics.CleanupTasksTotal.WithLabelValues(string(task.Kind), "resolved").Inc()
		log.Info().Msg("Cleanup task resolved")
	}

	if len(tasks) > 0 {
		r.logger.Info().Int("resolved", resolved).Int("failed", failed).Msg("Cleanup pass finished")
	}
	return resolved, failed, nil
}

func (r *Reconciler) reconcile(ctx context.Context, task *models.CleanupTask) error {
	switch task.Kind {
	case models.CleanupOrphanBlob:
		// A record may have landed after all; then the blob is not orphaned.
		_, err := r.questions.GetByStorageKey(ctx, task.StorageKey)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			return fmt.Errorf("lookup record: %w", err)
		}
		if err := r.blobs.Delete(ctx, task.StorageKey); err != nil {
			return fmt.Errorf("delete blob: %w", err)
		}
		return nil

	case models.CleanupDanglingRecord:
		if err := r.blobs.Delete(ctx, task.StorageKey); err != nil {
			return fmt.Errorf("delete blob: %w", err)
		}
		id := ""
		if task.QuestionID != nil {
			id = *task.QuestionID
		} else {
			q, err := r.questions.GetByStorageKey(ctx, task.StorageKey)
			if errors.Is(err, apperrors.ErrResourceNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("lookup record: %w", err)
			}
			id = q.ID
		}
		if err := r.questions.Delete(ctx, id); err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
			return fmt.Errorf("delete record: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unknown cleanup kind %q", task.Kind)
	}
}

// cronLogger routes cron's own messages to zerolog
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
