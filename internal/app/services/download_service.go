package services

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
	"github.com/yigit/pastquestions/internal/app/models"
	"github.com/yigit/pastquestions/internal/pkg/apperrors"
	"github.com/yigit/pastquestions/internal/pkg/filestorage"
	"github.com/yigit/pastquestions/internal/pkg/metrics"
	"github.com/yigit/pastquestions/internal/pkg/worker"
)

// DownloadService defines the interface for the download gateway
type DownloadService interface {
	Open(ctx context.Context, key string) (io.ReadCloser, *DownloadInfo, error)
	RecordView(studentID, key string)
}

// DownloadInfo describes an opened blob for the response headers
type DownloadInfo struct {
	Key         string
	FileName    string
	ContentType string
	Size        int64
}

// TaskSubmitter accepts detached work without blocking
type TaskSubmitter interface {
	Submit(task worker.Task) bool
}

type downloadServiceImpl struct {
	blobs     filestorage.BlobStore
	questions QuestionStore
	views     ViewStore
	tasks     TaskSubmitter
	logger    zerolog.Logger
}

// NewDownloadService creates a new DownloadService
func NewDownloadService(
	blobs filestorage.BlobStore,
	questions QuestionStore,
	views ViewStore,
	tasks TaskSubmitter,
	logger zerolog.Logger,
) DownloadService {
	return &downloadServiceImpl{
		blobs:     blobs,
		questions: questions,
		views:     views,
		tasks:     tasks,
		logger:    logger,
	}
}

// Open returns the blob stored under key. The caller closes the reader.
func (s *downloadServiceImpl) Open(ctx context.Context, key string) (io.ReadCloser, *DownloadInfo, error) {
	if key == "" {
		return nil, nil, apperrors.NewValidationError("path", "Missing path")
	}

	rc, blob, err := s.blobs.Get(ctx, key)
	if err != nil {
		// A key that cannot name a blob is reported like a missing one.
		if errors.Is(err, filestorage.ErrNotFound) || errors.Is(err, filestorage.ErrInvalidKey) {
			metrics.DownloadsTotal.WithLabelValues("not_found").Inc()
			return nil, nil, apperrors.NewCustomError(apperrors.ErrBlobNotFound, "File not found").
				WithDetails(map[string]interface{}{"storageKey": key})
		}
		metrics.DownloadsTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Str("storageKey", key).Msg("Failed to open stored file")
		return nil, nil, apperrors.NewServerError("Failed to read file", err)
	}

	info := &DownloadInfo{
		Key:         key,
		FileName:    filestorage.BaseName(key),
		ContentType: filestorage.ResolveContentType(key),
		Size:        -1,
	}
	if blob != nil {
		info.Size = blob.Size
	}
	return rc, info, nil
}

// RecordView appends a view event in the background. It never blocks and
// never reports failure; a full queue drops the event.
func (s *downloadServiceImpl) RecordView(studentID, key string) {
	if studentID == "" || key == "" {
		return
	}

	ok := s.tasks.Submit(func(ctx context.Context) {
		s.writeView(ctx, studentID, key)
	})
	if !ok {
		metrics.ViewEventsTotal.WithLabelValues("dropped").Inc()
		s.logger.Warn().Str("studentID", studentID).Str("storageKey", key).Msg("View event queue full, event dropped")
	}
}

func (s *downloadServiceImpl) writeView(ctx context.Context, studentID, key string) {
	log := s.logger.With().Str("studentID", studentID).Str("storageKey", key).Logger()

	q, err := s.questions.GetByStorageKey(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			metrics.ViewEventsTotal.WithLabelValues("unmatched").Inc()
			log.Warn().Msg("Downloaded file has no past question record, view not recorded")
			return
		}
		metrics.ViewEventsTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Msg("Failed to look up past question for view event")
		return
	}

	event := &models.ViewEvent{StudentID: studentID, QuestionID: q.ID}
	if err := s.views.Create(ctx, event); err != nil {
		metrics.ViewEventsTotal.WithLabelValues("failed").Inc()
		log.Error().Err(err).Str("questionID", q.ID).Msg("Failed to record view event")
		return
	}

	metrics.ViewEventsTotal.WithLabelValues("recorded").Inc()
	log.Debug().Str("questionID", q.ID).Msg("View event recorded")
}
