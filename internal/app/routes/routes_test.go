package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/pastquestions/internal/app/controllers"
	"github.com/yigit/pastquestions/internal/app/models"
	"github.com/yigit/pastquestions/internal/app/models/dto"
	"github.com/yigit/pastquestions/internal/app/services"
	"github.com/yigit/pastquestions/internal/middleware"
	"github.com/yigit/pastquestions/internal/pkg/apperrors"
	"github.com/yigit/pastquestions/internal/pkg/auth"
)

type stubPastQuestions struct {
	lastList   services.ListQuery
	lastUpload services.UploadInput
	uploadBody string
	lastDelete services.DeleteInput
	err        error
}

func (s *stubPastQuestions) Upload(_ context.Context, in services.UploadInput) (*dto.PastQuestionResponse, error) {
	s.lastUpload = in
	if in.Content != nil {
		b, _ := io.ReadAll(in.Content)
		s.uploadBody = string(b)
	}
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PastQuestionResponse{ID: "q-1", Title: in.Title, StorageKey: in.OwnerID + "/1-x.pdf", IsNew: true}, nil
}

func (s *stubPastQuestions) List(_ context.Context, q services.ListQuery) (*dto.PastQuestionListResponse, error) {
	s.lastList = q
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PastQuestionListResponse{Items: []dto.PastQuestionResponse{{ID: "q-1"}}, Total: 1, Years: []int{2023}}, nil
}

func (s *stubPastQuestions) Delete(_ context.Context, in services.DeleteInput) error {
	s.lastDelete = in
	return s.err
}

type stubDownloads struct {
	mu      sync.Mutex
	blobs   map[string]string
	openErr error
	views   [][2]string
}

func (s *stubDownloads) Open(_ context.Context, key string) (io.ReadCloser, *services.DownloadInfo, error) {
	if key == "" {
		return nil, nil, apperrors.NewValidationError("path", "Missing path")
	}
	if s.openErr != nil {
		return nil, nil, s.openErr
	}
	body, ok := s.blobs[key]
	if !ok {
		return nil, nil, apperrors.NewCustomError(apperrors.ErrBlobNotFound, "File not found")
	}
	return io.NopCloser(strings.NewReader(body)), &services.DownloadInfo{
		Key: key, FileName: "1700000000000-abc.pdf", ContentType: "application/pdf", Size: int64(len(body)),
	}, nil
}

func (s *stubDownloads) RecordView(studentID, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, [2]string{studentID, key})
}

type stubAuth struct{}

func (stubAuth) Register(context.Context, *dto.RegisterRequest) (*dto.AuthResponse, error) {
	return nil, apperrors.ErrEmailAlreadyExists
}

func (stubAuth) Login(context.Context, *dto.LoginRequest) (*dto.AuthResponse, error) {
	return nil, apperrors.ErrInvalidCredentials
}

func (stubAuth) GetProfile(_ context.Context, userID string) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: userID}, nil
}

const testMaxUploadBytes = 1024

type testServer struct {
	router    *gin.Engine
	jwt       *auth.JWTService
	questions *stubPastQuestions
	downloads *stubDownloads
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		router:    gin.New(),
		jwt:       auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", AccessTokenExp: time.Hour, TokenIssuer: "test"}),
		questions: &stubPastQuestions{},
		downloads: &stubDownloads{blobs: map[string]string{"t1/1700000000000-abc.pdf": "%PDF-1.7"}},
	}
	SetupRouter(ts.router,
		controllers.NewAuthController(stubAuth{}, zerolog.Nop()),
		controllers.NewPastQuestionController(ts.questions, zerolog.Nop()),
		controllers.NewDownloadController(ts.downloads, zerolog.Nop()),
		middleware.NewAuthMiddleware(ts.jwt),
		testMaxUploadBytes,
	)
	return ts
}

func (ts *testServer) token(t *testing.T, id string, role models.RoleType) string {
	t.Helper()
	tok, _, err := ts.jwt.GenerateAccessToken(&models.User{ID: id, Email: id + "@school.edu", RoleType: role})
	require.NoError(t, err)
	return tok
}

func (ts *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestDownloadStreamsWithHeaders(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/download?path=t1/1700000000000-abc.pdf", nil), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.7", w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="1700000000000-abc.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Empty(t, ts.downloads.views, "anonymous downloads are not recorded")
}

func TestDownloadErrorsUseBareErrorBody(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/download", nil), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing path", decodeError(t, w)["error"])

	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/download?path=t1/missing.pdf", nil), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "File not found", decodeError(t, w)["error"])

	ts.downloads.openErr = apperrors.NewServerError("Failed to read file", io.ErrUnexpectedEOF)
	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/download?path=t1/1700000000000-abc.pdf", nil), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to read file", decodeError(t, w)["error"])
}

func TestDownloadRecordsStudentViewsOnly(t *testing.T) {
	ts := newTestServer(t)
	url := "/api/v1/download?path=t1/1700000000000-abc.pdf"

	w := ts.do(httptest.NewRequest(http.MethodGet, url, nil), ts.token(t, "s1", models.RoleStudent))
	require.Equal(t, http.StatusOK, w.Code)
	w = ts.do(httptest.NewRequest(http.MethodGet, url, nil), ts.token(t, "t1", models.RoleTeacher))
	require.Equal(t, http.StatusOK, w.Code)
	// A bad token degrades to an anonymous download.
	w = ts.do(httptest.NewRequest(http.MethodGet, url, nil), "garbage")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, [][2]string{{"s1", "t1/1700000000000-abc.pdf"}}, ts.downloads.views)
}

func TestListRequiresAuthAndPassesFilters(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/past-questions", nil), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/past-questions?search=csc&year=2023&semester=all", nil),
		ts.token(t, "s1", models.RoleStudent))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, ts.questions.lastList.OwnerID)
	assert.Equal(t, "csc", ts.questions.lastList.Search)
	assert.Equal(t, "2023", ts.questions.lastList.Year)
	assert.Equal(t, "all", ts.questions.lastList.Semester)
	assert.False(t, ts.questions.lastList.WithViewCounts)
}

func TestListMineIsTeacherScoped(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/past-questions/mine", nil), ts.token(t, "s1", models.RoleStudent))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/past-questions/mine", nil), ts.token(t, "t1", models.RoleTeacher))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, ts.questions.lastList.OwnerID)
	assert.Equal(t, "t1", *ts.questions.lastList.OwnerID)
	assert.True(t, ts.questions.lastList.WithViewCounts)
}

func multipartUpload(t *testing.T, fields map[string]string, fileName, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/past-questions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadPassesFormToService(t *testing.T) {
	ts := newTestServer(t)
	fields := map[string]string{"title": "Final", "courseCode": "CSC201", "year": "2023", "semester": "1st", "description": "d"}

	w := ts.do(multipartUpload(t, fields, "final.pdf", "%PDF"), ts.token(t, "t1", models.RoleTeacher))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	in := ts.questions.lastUpload
	assert.Equal(t, "t1", in.OwnerID)
	assert.Equal(t, "Final", in.Title)
	assert.Equal(t, "CSC201", in.CourseCode)
	assert.Equal(t, 2023, in.Year)
	assert.Equal(t, "1st", in.Semester)
	assert.Equal(t, "final.pdf", in.FileName)
	assert.Equal(t, int64(4), in.Size)
	assert.Equal(t, "%PDF", ts.questions.uploadBody)
}

func TestUploadRejectsNonNumericYearAndStudents(t *testing.T) {
	ts := newTestServer(t)
	fields := map[string]string{"title": "Final", "courseCode": "CSC201", "year": "twenty", "semester": "1st"}

	w := ts.do(multipartUpload(t, fields, "final.pdf", "%PDF"), ts.token(t, "t1", models.RoleTeacher))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(multipartUpload(t, fields, "final.pdf", "%PDF"), ts.token(t, "s1", models.RoleStudent))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUploadCutsOffOversizedBody(t *testing.T) {
	ts := newTestServer(t)
	fields := map[string]string{"title": "Final", "courseCode": "CSC201", "year": "2023", "semester": "1st"}
	huge := strings.Repeat("x", testMaxUploadBytes+multipartOverhead+1)

	w := ts.do(multipartUpload(t, fields, "final.pdf", huge), ts.token(t, "t1", models.RoleTeacher))
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "file", resp.Error.Field)
	assert.Empty(t, ts.questions.lastUpload.OwnerID, "service must not be called")
}

func TestUploadBodyLimit(t *testing.T) {
	assert.Zero(t, uploadBodyLimit(0))
	assert.Equal(t, int64(25<<20+multipartOverhead), uploadBodyLimit(25<<20))
}

func TestUploadPersistenceErrorCarriesOrphanKey(t *testing.T) {
	ts := newTestServer(t)
	ts.questions.err = apperrors.NewPersistenceError("failed to save past question", io.ErrClosedPipe).
		WithDetails(map[string]interface{}{"storageKey": "t1/1-x.pdf", "orphaned": true})
	fields := map[string]string{"title": "Final", "courseCode": "CSC201", "year": "2023", "semester": "1st"}

	w := ts.do(multipartUpload(t, fields, "final.pdf", "%PDF"), ts.token(t, "t1", models.RoleTeacher))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodePersistence, resp.Error.Code)
	details, ok := resp.Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "t1/1-x.pdf", details["storageKey"])
}

func TestDeleteMapsServiceErrors(t *testing.T) {
	ts := newTestServer(t)
	teacher := ts.token(t, "t1", models.RoleTeacher)

	w := ts.do(httptest.NewRequest(http.MethodDelete, "/api/v1/past-questions/q-1", nil), teacher)
	assert.Equal(t, http.StatusBadRequest, w.Code, "path is required")

	w = ts.do(httptest.NewRequest(http.MethodDelete, "/api/v1/past-questions/q-1?path=t1/k.pdf", nil), teacher)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.DeleteInput{ActorID: "t1", QuestionID: "q-1", StorageKey: "t1/k.pdf"}, ts.questions.lastDelete)

	cases := map[error]int{
		apperrors.NewCustomError(apperrors.ErrPastQuestionNotFound, "past question not found"): http.StatusNotFound,
		apperrors.NewForbiddenError("not yours"):                                               http.StatusForbidden,
		apperrors.NewValidationError("path", "mismatch"):                                       http.StatusBadRequest,
		apperrors.NewPersistenceError("failed to delete file", io.ErrClosedPipe):               http.StatusInternalServerError,
	}
	for err, status := range cases {
		ts.questions.err = err
		w = ts.do(httptest.NewRequest(http.MethodDelete, "/api/v1/past-questions/q-1?path=t1/k.pdf", nil), teacher)
		assert.Equal(t, status, w.Code, err.Error())
	}
}

func TestAuthRoutes(t *testing.T) {
	ts := newTestServer(t)

	body := `{"email":"ada@school.edu","password":"analytical1","fullName":"Ada","roleType":"TEACHER"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusConflict, ts.do(req, "").Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(`{"email":"ada"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, ts.do(req, "").Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"ada@school.edu","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusUnauthorized, ts.do(req, "").Code)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil), ts.token(t, "u-9", models.RoleStudent))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u-9"`)
}
