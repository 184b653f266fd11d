package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/pastquestions/internal/app/controllers"
	"github.com/yigit/pastquestions/internal/app/models"
	"github.com/yigit/pastquestions/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	pastQuestionController *controllers.PastQuestionController,
	downloadController *controllers.DownloadController,
	authMiddleware *middleware.AuthMiddleware,
	maxUploadBytes int64,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.JWTAuth(), authController.Me)
	}

	// Download gateway: anonymous downloads are allowed, student downloads are recorded
	v1.GET("/download", authMiddleware.OptionalAuth(), downloadController.Download)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		pastQuestions := authenticated.Group("/past-questions")
		{
			pastQuestions.GET("", pastQuestionController.ListPastQuestions)

			teacherOnly := pastQuestions.Group("")
			teacherOnly.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
			{
				teacherOnly.GET("/mine", pastQuestionController.ListMyPastQuestions)
				teacherOnly.POST("", middleware.BodyLimit(uploadBodyLimit(maxUploadBytes)), pastQuestionController.UploadPastQuestion)
				teacherOnly.DELETE("/:id", pastQuestionController.DeletePastQuestion)
			}
		}
	}
}

// multipartOverhead covers form fields and part headers around the file
const multipartOverhead = 1 << 20

func uploadBodyLimit(maxUploadBytes int64) int64 {
	if maxUploadBytes <= 0 {
		return 0
	}
	return maxUploadBytes + multipartOverhead
}
