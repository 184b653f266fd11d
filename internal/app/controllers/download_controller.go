package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/pastquestions/internal/app/models"
	"github.com/yigit/pastquestions/internal/app/models/dto"
	"github.com/yigit/pastquestions/internal/app/services"
	"github.com/yigit/pastquestions/internal/middleware"
	"github.com/yigit/pastquestions/internal/pkg/apperrors"
	"github.com/yigit/pastquestions/internal/pkg/metrics"
)

// DownloadController streams stored files
type DownloadController struct {
	service services.DownloadService
	logger  zerolog.Logger
}

// NewDownloadController creates a new DownloadController
func NewDownloadController(service services.DownloadService, logger zerolog.Logger) *DownloadController {
	return &DownloadController{
		service: service,
		logger:  logger,
	}
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Download streams the file stored under path
// @Summary Download a past question file
// @Description Streams the stored file as an attachment. Downloads by authenticated students are recorded as views.
// @Tags download
// @Produce application/octet-stream
// @Param path query string true "Storage key"
// @Success 200 {file} binary "File content"
// @Failure 400 {object} dto.DownloadErrorResponse "Missing path"
// @Failure 404 {object} dto.DownloadErrorResponse "File not found"
// @Failure 500 {object} dto.DownloadErrorResponse "Storage error"
// @Router /download [get]
func (c *DownloadController) Download(ctx *gin.Context) {
	key := ctx.Query("path")

	rc, info, err := c.service.Open(ctx.Request.Context(), key)
	if err != nil {
		status, message := downloadError(err)
		ctx.JSON(status, dto.DownloadErrorResponse{Error: message})
		return
	}
	defer rc.Close()

	body := &countingReader{r: rc}
	ctx.DataFromReader(http.StatusOK, info.Size, info.ContentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", info.FileName),
	})
	metrics.DownloadBytesTotal.Add(float64(body.n))

	if len(ctx.Errors) > 0 {
		metrics.DownloadsTotal.WithLabelValues("stream_error").Inc()
		c.logger.Warn().Err(ctx.Errors.Last()).Str("storageKey", key).Msg("Download interrupted")
		return
	}
	metrics.DownloadsTotal.WithLabelValues("success").Inc()

	if userID, ok := middleware.GetUserID(ctx); ok && middleware.GetRoleType(ctx) == string(models.RoleStudent) {
		c.service.RecordView(userID, key)
	}
}

func downloadError(err error) (int, string) {
	var ce *apperrors.CustomError
	message := err.Error()
	if errors.As(err, &ce) && ce.Message != "" {
		message = ce.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, message
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, message
	default:
		return http.StatusInternalServerError, message
	}
}
