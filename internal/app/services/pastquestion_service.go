package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/pastquestions/internal/app/auth"
	"github.com/yigit/pastquestions/internal/app/models"
	"github.com/yigit/pastquestions/internal/app/models/dto"
	"github.com/yigit/pastquestions/internal/pkg/apperrors"
	"github.com/yigit/pastquestions/internal/pkg/cache"
	"github.com/yigit/pastquestions/internal/pkg/filestorage"
	"github.com/yigit/pastquestions/internal/pkg/metrics"
	"github.com/yigit/pastquestions/internal/pkg/validation"
)

// PastQuestionService defines the interface for past question operations
type PastQuestionService interface {
	Upload(ctx context.Context, in UploadInput) (*dto.PastQuestionResponse, error)
	List(ctx context.Context, query ListQuery) (*dto.PastQuestionListResponse, error)
	Delete(ctx context.Context, in DeleteInput) error
}

// UploadInput is one upload request. Content is read exactly once.
type UploadInput struct {
	OwnerID     string
	Title       string
	CourseCode  string
	Year        int
	Semester    string
	Description string
	FileName    string
	Size        int64
	Content     io.Reader
}

// ListQuery selects a listing scope and its filters. A nil OwnerID lists every owner.
type ListQuery struct {
	OwnerID        *string
	Search         string
	Year           string
	Semester       string
	WithViewCounts bool
}

// DeleteInput identifies the record to delete and the blob it must reference
type DeleteInput struct {
	ActorID    string
	QuestionID string
	StorageKey string
}

// ListingCache caches unfiltered scope listings
type ListingCache = cache.Store[[]models.PastQuestion]

// pastQuestionServiceImpl implements PastQuestionService
type pastQuestionServiceImpl struct {
	questions      QuestionStore
	blobs          filestorage.BlobStore
	cleanups       CleanupStore
	listings       ListingCache
	generations    *listingGenerations
	authzService   *auth.AuthorizationService
	maxUploadBytes int64
	logger         zerolog.Logger
	now            func() time.Time
}

// NewPastQuestionService creates a new PastQuestionService. A nil listings
// cache disables caching; maxUploadBytes <= 0 disables the size check.
func NewPastQuestionService(
	questions QuestionStore,
	blobs filestorage.BlobStore,
	cleanups CleanupStore,
	listings ListingCache,
	authzService *auth.AuthorizationService,
	maxUploadBytes int64,
	logger zerolog.Logger,
) PastQuestionService {
	if listings == nil {
		listings = cache.Nop[[]models.PastQuestion]{}
	}
	return &pastQuestionServiceImpl{
		questions:      questions,
		blobs:          blobs,
		cleanups:       cleanups,
		listings:       listings,
		generations:    newListingGenerations(),
		authzService:   authzService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
		now:            time.Now,
	}
}

// listingGenerations counts invalidations per cache key. A listing loaded
// while its key was invalidated is not written back to the cache.
type listingGenerations struct {
	mu   sync.Mutex
	gens map[string]uint64
}

func newListingGenerations() *listingGenerations {
	return &listingGenerations{gens: make(map[string]uint64)}
}

func (g *listingGenerations) current(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gens[key]
}

func (g *listingGenerations) bump(keys ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, key := range keys {
		g.gens[key]++
	}
}

// storeIfCurrent runs store only if key is still at generation gen. The lock
// is held across store so a concurrent bump either precedes the check or
// follows the write, and its Delete then removes the stale entry.
func (g *listingGenerations) storeIfCurrent(key string, gen uint64, store func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gens[key] != gen {
		return false
	}
	store()
	return true
}

func listCacheKey(ownerID *string) string {
	if ownerID == nil {
		return "all"
	}
	return "owner:" + *ownerID
}

func (s *pastQuestionServiceImpl) validateUpload(in *UploadInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.CourseCode = strings.TrimSpace(in.CourseCode)
	in.Semester = strings.TrimSpace(in.Semester)
	in.Description = strings.TrimSpace(in.Description)

	switch {
	case in.OwnerID == "":
		return apperrors.NewValidationError("ownerId", "owner is required")
	case in.Title == "":
		return apperrors.NewValidationError("title", "title is required")
	case !validation.NewStringValidation(in.Title).WithMaxLength(validation.TitleMaxLength).Validate():
		return apperrors.NewValidationError("title", fmt.Sprintf("title must be at most %d characters", validation.TitleMaxLength))
	case in.CourseCode == "":
		return apperrors.NewValidationError("courseCode", "course code is required")
	case !validation.NewStringValidation(in.CourseCode).WithMaxLength(validation.CourseCodeMaxLength).Validate():
		return apperrors.NewValidationError("courseCode", fmt.Sprintf("course code must be at most %d characters", validation.CourseCodeMaxLength))
	case in.Year <= 0:
		return apperrors.NewValidationError("year", "year must be a positive number")
	case in.Semester == "":
		return apperrors.NewValidationError("semester", "semester is required")
	case !models.Semester(in.Semester).Valid():
		return apperrors.NewValidationError("semester", "semester must be one of: 1st, 2nd")
	case in.Content == nil || strings.TrimSpace(in.FileName) == "":
		return apperrors.NewValidationError("file", "file is required")
	case !validation.NewStringValidation(in.Description).WithRequired(false).WithMaxLength(validation.DescriptionMaxLength).Validate():
		return apperrors.NewValidationError("description", fmt.Sprintf("description must be at most %d characters", validation.DescriptionMaxLength))
	case s.maxUploadBytes > 0 && in.Size > s.maxUploadBytes:
		return apperrors.NewValidationError("file", fmt.Sprintf("file must not exceed %d bytes", s.maxUploadBytes))
	}
	return nil
}

// Upload stores the file, then its metadata. If the metadata write fails the
// blob is deleted again; a blob that cannot be deleted is written to the
// cleanup ledger and its key is reported in the error details.
func (s *pastQuestionServiceImpl) Upload(ctx context.Context, in UploadInput) (*dto.PastQuestionResponse, error) {
	if err := s.validateUpload(&in); err != nil {
		metrics.UploadsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	if s.authzService != nil {
		if err := s.authzService.ValidateTeacher(ctx, in.OwnerID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	key := filestorage.DeriveStorageKey(in.OwnerID, in.FileName, now)
	log := s.logger.With().Str("ownerID", in.OwnerID).Str("storageKey", key).Logger()

	if _, err := s.blobs.Put(ctx, key, in.Content); err != nil {
		metrics.UploadsTotal.WithLabelValues("blob_error").Inc()
		log.Error().Err(err).Msg("Failed to store uploaded file")
		return nil, apperrors.NewPersistenceError("failed to store file", err).
			WithDetails(map[string]interface{}{"storageKey": key})
	}

	q := &models.PastQuestion{
		Title:       in.Title,
		CourseCode:  in.CourseCode,
		Year:        in.Year,
		Semester:    models.Semester(in.Semester),
		Description: in.Description,
		StorageKey:  key,
		OwnerID:     in.OwnerID,
	}
	if err := s.questions.Create(ctx, q); err != nil {
		log.Error().Err(err).Msg("Failed to save past question metadata, removing stored file")
		return nil, s.compensateUpload(ctx, key, err)
	}

	s.invalidateListings(ctx, in.OwnerID)
	metrics.UploadsTotal.WithLabelValues("success").Inc()
	log.Info().Str("questionID", q.ID).Msg("Past question uploaded")

	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	resp := dto.NewPastQuestionResponse(q, IsNew(q.CreatedAt, s.now()))
	return &resp, nil
}

func (s *pastQuestionServiceImpl) compensateUpload(ctx context.Context, key string, cause error) error {
	// The request may already be cancelled; the blob must still go.
	cctx := context.WithoutCancel(ctx)

	delErr := s.blobs.Delete(cctx, key)
	if delErr == nil {
		metrics.UploadsTotal.WithLabelValues("record_error").Inc()
		return apperrors.NewPersistenceError("failed to save past question", cause)
	}

	metrics.UploadsTotal.WithLabelValues("orphaned").Inc()
	s.logger.Error().Err(delErr).Str("storageKey", key).Msg("Failed to remove orphaned file after metadata failure")

	task := &models.CleanupTask{
		Kind:       models.CleanupOrphanBlob,
		StorageKey: key,
		Reason:     fmt.Sprintf("metadata write failed: %v; compensation failed: %v", cause, delErr),
	}
	if err := s.cleanups.Create(cctx, task); err != nil {
		s.logger.Error().Err(err).Str("storageKey", key).Msg("Failed to record orphaned file for cleanup")
	}

	return apperrors.NewPersistenceError("failed to save past question", errors.Join(cause, delErr)).
		WithDetails(map[string]interface{}{"storageKey": key, "orphaned": true})
}

// List returns the scope's records after filtering, newest first, with the
// year facets of the whole scope.
func (s *pastQuestionServiceImpl) List(ctx context.Context, query ListQuery) (*dto.PastQuestionListResponse, error) {
	records, err := s.scopeListing(ctx, query.OwnerID)
	if err != nil {
		return nil, apperrors.NewServerError("failed to list past questions", err)
	}

	filtered := FilterQuestions(records, query.Search, query.Year, query.Semester)

	var views map[string]int64
	if query.WithViewCounts && len(filtered) > 0 {
		ids := make([]string, 0, len(filtered))
		for _, q := range filtered {
			ids = append(ids, q.ID)
		}
		views, err = s.questions.CountViews(ctx, ids)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Failed to count views, listing without them")
			views = nil
		}
	}

	now := s.now()
	items := make([]dto.PastQuestionResponse, 0, len(filtered))
	for i := range filtered {
		item := dto.NewPastQuestionResponse(&filtered[i], IsNew(filtered[i].CreatedAt, now))
		if views != nil {
			count := views[filtered[i].ID]
			item.ViewCount = &count
		}
		items = append(items, item)
	}

	return &dto.PastQuestionListResponse{
		Items: items,
		Total: len(items),
		Years: YearFacets(records),
	}, nil
}

func (s *pastQuestionServiceImpl) scopeListing(ctx context.Context, ownerID *string) ([]models.PastQuestion, error) {
	key := listCacheKey(ownerID)

	cached, ok, err := s.listings.Get(ctx, key)
	switch {
	case err != nil:
		metrics.ListingCacheTotal.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Str("cacheKey", key).Msg("Listing cache read failed")
	case ok:
		metrics.ListingCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.ListingCacheTotal.WithLabelValues("miss").Inc()
	}

	gen := s.generations.current(key)
	records, err := s.questions.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	stored := s.generations.storeIfCurrent(key, gen, func() {
		if err := s.listings.Set(ctx, key, records); err != nil {
			s.logger.Warn().Err(err).Str("cacheKey", key).Msg("Listing cache write failed")
		}
	})
	if !stored {
		metrics.ListingCacheTotal.WithLabelValues("stale").Inc()
		s.logger.Debug().Str("cacheKey", key).Msg("Listing changed while loading, not caching it")
	}
	return records, nil
}

func (s *pastQuestionServiceImpl) invalidateListings(ctx context.Context, ownerID string) {
	keys := []string{listCacheKey(nil), listCacheKey(&ownerID)}
	s.generations.bump(keys...)
	if err := s.listings.Delete(context.WithoutCancel(ctx), keys...); err != nil {
		s.logger.Warn().Err(err).Str("ownerID", ownerID).Msg("Listing cache invalidation failed")
	}
}

// Delete removes the blob, then the record. If the record cannot be removed
// it is flagged so listings hide it, and a cleanup task is written.
func (s *pastQuestionServiceImpl) Delete(ctx context.Context, in DeleteInput) error {
	if in.QuestionID == "" {
		return apperrors.NewValidationError("id", "id is required")
	}
	if in.StorageKey == "" {
		return apperrors.NewValidationError("path", "path is required")
	}

	q, err := s.questions.GetByID(ctx, in.QuestionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return apperrors.NewCustomError(apperrors.ErrPastQuestionNotFound, "past question not found").
				WithDetails(map[string]interface{}{"id": in.QuestionID})
		}
		return apperrors.NewServerError("failed to load past question", err)
	}
	if s.authzService != nil {
		if err := s.authzService.ValidatePastQuestionOwnership(q, in.ActorID); err != nil {
			return err
		}
	} else if q.OwnerID != in.ActorID {
		return apperrors.NewForbiddenError("you can only delete your own past questions")
	}
	if q.StorageKey != in.StorageKey {
		return apperrors.NewValidationError("path", "path does not match the past question")
	}

	log := s.logger.With().Str("questionID", q.ID).Str("storageKey", q.StorageKey).Logger()

	if err := s.blobs.Delete(ctx, q.StorageKey); err != nil {
		metrics.DeletesTotal.WithLabelValues("blob_error").Inc()
		log.Error().Err(err).Msg("Failed to delete stored file")
		return apperrors.NewPersistenceError("failed to delete file", err).
			WithDetails(map[string]interface{}{"id": q.ID, "storageKey": q.StorageKey})
	}

	if err := s.questions.Delete(ctx, q.ID); err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		log.Error().Err(err).Msg("File deleted but record removal failed, flagging for cleanup")
		return s.flagDangling(ctx, q, err)
	}

	s.invalidateListings(ctx, q.OwnerID)
	metrics.DeletesTotal.WithLabelValues("success").Inc()
	log.Info().Msg("Past question deleted")
	return nil
}

func (s *pastQuestionServiceImpl) flagDangling(ctx context.Context, q *models.PastQuestion, cause error) error {
	cctx := context.WithoutCancel(ctx)
	metrics.DeletesTotal.WithLabelValues("dangling").Inc()

	flagged := true
	if err := s.questions.MarkNeedsCleanup(cctx, q.ID); err != nil {
		flagged = false
		s.logger.Error().Err(err).Str("questionID", q.ID).Msg("Failed to flag dangling past question")
	}

	id := q.ID
	task := &models.CleanupTask{
		Kind:       models.CleanupDanglingRecord,
		StorageKey: q.StorageKey,
		QuestionID: &id,
		Reason:     fmt.Sprintf("record delete failed: %v", cause),
	}
	if err := s.cleanups.Create(cctx, task); err != nil {
		s.logger.Error().Err(err).Str("questionID", q.ID).Msg("Failed to record dangling past question for cleanup")
	}

	s.invalidateListings(cctx, q.OwnerID)

	return apperrors.NewPersistenceError("failed to delete past question", cause).
		WithDetails(map[string]interface{}{"id": q.ID, "storageKey": q.StorageKey, "flagged": flagged})
}
