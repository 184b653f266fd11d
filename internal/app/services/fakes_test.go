package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/yigit/pastquestions/internal/app/models"
	"github.com/yigit/pastquestions/internal/pkg/apperrors"
	"github.com/yigit/pastquestions/internal/pkg/filestorage"
	"github.com/yigit/pastquestions/internal/pkg/worker"
)

var errBackend = errors.New("backend unavailable")

type fakeQuestionStore struct {
	mu      sync.Mutex
	records map[string]*models.PastQuestion
	views   map[string]int64
	nextID  int
	clock   time.Time

	createErr error
	getErr    error
	listErr   error
	deleteErr error
	markErr   error
	countErr  error

	createCalls int
	listCalls   int
	deleteCalls int
}

func newFakeQuestionStore() *fakeQuestionStore {
	return &fakeQuestionStore{
		records: make(map[string]*models.PastQuestion),
		views:   make(map[string]int64),
		clock:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

// seed inserts a record directly, bypassing failure injection
func (f *fakeQuestionStore) seed(q models.PastQuestion) *models.PastQuestion {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	if q.ID == "" {
		q.ID = fmt.Sprintf("q-%d", f.nextID)
	}
	if q.CreatedAt.IsZero() {
		f.clock = f.clock.Add(time.Minute)
		q.CreatedAt = f.clock
	}
	cp := q
	f.records[q.ID] = &cp
	return &cp
}

func (f *fakeQuestionStore) Create(_ context.Context, q *models.PastQuestion) error {
	f.mu.Lock()
	f.createCalls++
	err := f.createErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	saved := f.seed(*q)
	q.ID = saved.ID
	q.CreatedAt = saved.CreatedAt
	q.UpdatedAt = saved.CreatedAt
	return nil
}

func (f *fakeQuestionStore) get(match func(*models.PastQuestion) bool) (*models.PastQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, q := range f.records {
		if match(q) {
			cp := *q
			return &cp, nil
		}
	}
	return nil, apperrors.ErrPastQuestionNotFound
}

func (f *fakeQuestionStore) GetByID(_ context.Context, id string) (*models.PastQuestion, error) {
	return f.get(func(q *models.PastQuestion) bool { return q.ID == id })
}

func (f *fakeQuestionStore) GetByStorageKey(_ context.Context, key string) (*models.PastQuestion, error) {
	return f.get(func(q *models.PastQuestion) bool { return q.StorageKey == key })
}

func (f *fakeQuestionStore) List(_ context.Context, ownerID *string) ([]models.PastQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.PastQuestion, 0, len(f.records))
	for _, q := range f.records {
		if q.NeedsCleanup || (ownerID != nil && q.OwnerID != *ownerID) {
			continue
		}
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeQuestionStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.records[id]; !ok {
		return apperrors.ErrPastQuestionNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeQuestionStore) MarkNeedsCleanup(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	if q, ok := f.records[id]; ok {
		q.NeedsCleanup = true
	}
	return nil
}

func (f *fakeQuestionStore) CountViews(_ context.Context, ids []string) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return nil, f.countErr
	}
	out := make(map[string]int64, len(ids))
	for _, id := range ids {
		if n, ok := f.views[id]; ok {
			out[id] = n
		}
	}
	return out, nil
}

func (f *fakeQuestionStore) has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.records[id]
	return ok
}

type fakeBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	putErr    error
	getErr    error
	deleteErr error

	putCalls    int
	deleteCalls int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(_ context.Context, key string, content io.Reader) (*filestorage.BlobInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putCalls++
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	f.blobs[key] = data
	return &filestorage.BlobInfo{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeBlobStore) Get(_ context.Context, key string) (io.ReadCloser, *filestorage.BlobInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, nil, f.getErr
	}
	data, ok := f.blobs[key]
	if !ok {
		return nil, nil, filestorage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), &filestorage.BlobInfo{Key: key, Size: int64(len(data))}, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.blobs, key)
	return nil
}

func (f *fakeBlobStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[key]
	return ok
}

func (f *fakeBlobStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blobs)
}

type fakeCleanupStore struct {
	mu        sync.Mutex
	tasks     []models.CleanupTask
	createErr error
}

func (f *fakeCleanupStore) Create(_ context.Context, task *models.CleanupTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	task.ID = int64(len(f.tasks) + 1)
	f.tasks = append(f.tasks, *task)
	return nil
}

func (f *fakeCleanupStore) ListPending(_ context.Context, limit int) ([]models.CleanupTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.CleanupTask, 0)
	for _, t := range f.tasks {
		if t.ResolvedAt == nil && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeCleanupStore) MarkResolved(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	f.tasks[id-1].ResolvedAt = &now
	return nil
}

func (f *fakeCleanupStore) RecordAttempt(_ context.Context, id int64, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[id-1].Attempts++
	f.tasks[id-1].Reason = reason
	return nil
}

func (f *fakeCleanupStore) snapshot() []models.CleanupTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CleanupTask(nil), f.tasks...)
}

type fakeViewStore struct {
	mu     sync.Mutex
	events []models.ViewEvent
	err    error
}

func (f *fakeViewStore) Create(_ context.Context, event *models.ViewEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	event.ID = int64(len(f.events) + 1)
	event.CreatedAt = time.Now()
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeViewStore) snapshot() []models.ViewEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ViewEvent(nil), f.events...)
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	err   error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: make(map[string]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = fmt.Sprintf("u-%d", len(f.users)+1)
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

// inlineSubmitter runs tasks synchronously on a fresh context
type inlineSubmitter struct{}

func (inlineSubmitter) Submit(task worker.Task) bool {
	task(context.Background())
	return true
}

// fullSubmitter rejects every task
type fullSubmitter struct{}

func (fullSubmitter) Submit(worker.Task) bool { return false }
