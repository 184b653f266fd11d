package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/pastquestions/internal/app/models/dto"
	"github.com/yigit/pastquestions/internal/app/services"
	"github.com/yigit/pastquestions/internal/middleware"
	"github.com/yigit/pastquestions/internal/pkg/apperrors"
)

// PastQuestionController handles past question listing, upload and deletion
type PastQuestionController struct {
	service services.PastQuestionService
	logger  zerolog.Logger
}

// NewPastQuestionController creates a new PastQuestionController
func NewPastQuestionController(service services.PastQuestionService, logger zerolog.Logger) *PastQuestionController {
	return &PastQuestionController{
		service: service,
		logger:  logger,
	}
}

// ListPastQuestions lists every past question
// @Summary List past questions
// @Description Lists all past questions newest first. search matches course code or title; year and semester accept "all".
// @Tags past-questions
// @Produce json
// @Security BearerAuth
// @Param search query string false "Course code or title fragment"
// @Param year query string false "Year or all"
// @Param semester query string false "1st, 2nd or all"
// @Success 200 {object} dto.APIResponse{data=dto.PastQuestionListResponse} "Past questions"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /past-questions [get]
func (c *PastQuestionController) ListPastQuestions(ctx *gin.Context) {
	var filter dto.PastQuestionFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	resp, err := c.service.List(ctx.Request.Context(), services.ListQuery{
		Search:   filter.Search,
		Year:     filter.Year,
		Semester: filter.Semester,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// ListMyPastQuestions lists the authenticated teacher's uploads with their view counts
// @Summary List own past questions
// @Description Lists the caller's uploads newest first, with the number of student downloads of each
// @Tags past-questions
// @Produce json
// @Security BearerAuth
// @Param search query string false "Course code or title fragment"
// @Param year query string false "Year or all"
// @Param semester query string false "1st, 2nd or all"
// @Success 200 {object} dto.APIResponse{data=dto.PastQuestionListResponse} "Own past questions"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Teachers only"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /past-questions/mine [get]
func (c *PastQuestionController) ListMyPastQuestions(ctx *gin.Context) {
	var filter dto.PastQuestionFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	ownerID, _ := middleware.GetUserID(ctx)
	resp, err := c.service.List(ctx.Request.Context(), services.ListQuery{
		OwnerID:        &ownerID,
		Search:         filter.Search,
		Year:           filter.Year,
		Semester:       filter.Semester,
		WithViewCounts: true,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// UploadPastQuestion stores a new past question file with its metadata
// @Summary Upload a past question
// @Description Uploads a file and creates its record. The uploading teacher becomes the owner.
// @Tags past-questions
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param courseCode formData string true "Course code"
// @Param year formData int true "Year"
// @Param semester formData string true "1st or 2nd"
// @Param description formData string false "Description"
// @Param file formData file true "Question file"
// @Success 201 {object} dto.APIResponse{data=dto.PastQuestionResponse} "Uploaded"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Teachers only"
// @Failure 500 {object} dto.ErrorResponse "Persistence failed"
// @Router /past-questions [post]
func (c *PastQuestionController) UploadPastQuestion(ctx *gin.Context) {
	ownerID, _ := middleware.GetUserID(ctx)

	var tooLarge *http.MaxBytesError
	if _, err := ctx.MultipartForm(); errors.As(err, &tooLarge) {
		c.logger.Warn().Str("ownerID", ownerID).Int64("limit", tooLarge.Limit).Msg("Upload body too large")
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("file",
			fmt.Sprintf("request body must not exceed %d bytes", tooLarge.Limit)))
		return
	}

	in := services.UploadInput{
		OwnerID:     ownerID,
		Title:       ctx.PostForm("title"),
		CourseCode:  ctx.PostForm("courseCode"),
		Semester:    ctx.PostForm("semester"),
		Description: ctx.PostForm("description"),
	}

	if raw := strings.TrimSpace(ctx.PostForm("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.NewValidationError("year", "year must be a number"))
			return
		}
		in.Year = year
	}

	var file multipart.File
	if header, err := ctx.FormFile("file"); err == nil {
		file, err = header.Open()
		if err != nil {
			c.logger.Error().Err(err).Msg("Failed to open uploaded file")
			middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("uploaded file could not be read"))
			return
		}
		defer file.Close()
		in.FileName = header.Filename
		in.Size = header.Size
		in.Content = file
	}

	resp, err := c.service.Upload(ctx.Request.Context(), in)
	if err != nil {
		c.logger.Warn().Err(err).Str("ownerID", ownerID).Msg("Upload failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Past question uploaded successfully"))
}

// DeletePastQuestion deletes an owned past question and its file
// @Summary Delete a past question
// @Description Deletes the file, then the record. path must be the record's storage key.
// @Tags past-questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Past question ID"
// @Param path query string true "Storage key of the record"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Failure 500 {object} dto.ErrorResponse "Persistence failed"
// @Router /past-questions/{id} [delete]
func (c *PastQuestionController) DeletePastQuestion(ctx *gin.Context) {
	var req dto.DeletePastQuestionRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	actorID, _ := middleware.GetUserID(ctx)
	err := c.service.Delete(ctx.Request.Context(), services.DeleteInput{
		ActorID:    actorID,
		QuestionID: ctx.Param("id"),
		StorageKey: req.Path,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("questionID", ctx.Param("id")).Msg("Delete failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Past question deleted successfully"))
}
