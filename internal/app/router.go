package app

import (
	"devlingo_backend/docs"
	"devlingo_backend/internal/config"
	"devlingo_backend/internal/middleware"
	"devlingo_backend/internal/model"

	"devlingo_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 个人资料
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile", c.auth.UpdateProfile)

		// 题库(只读)
		authGroup.GET("/exercises", c.exercise.ListExercises)
		authGroup.GET("/exercises/:id", c.exercise.GetExercise)

		// 练习
		authGroup.GET("/quiz/start", c.quiz.StartQuiz)
		authGroup.POST("/quiz/submit", c.quiz.SubmitQuiz)
		authGroup.GET("/quiz/history", c.quiz.History)

		// 模拟考试
		authGroup.POST("/exams/start", c.exam.StartExam)
		authGroup.GET("/exams/history", c.exam.History)
		authGroup.GET("/exams/:id/next", c.exam.NextQuestion)
		authGroup.POST("/exams/:id/answer", c.exam.SubmitAnswer)
		authGroup.GET("/exams/:id/result", c.exam.Result)
		authGroup.POST("/exams/:id/abandon", c.exam.Abandon)

		// 口语与听力
		authGroup.POST("/speaking/submit", c.speaking.SubmitRecording)
		authGroup.GET("/speaking/history", c.speaking.History)
		authGroup.GET("/speaking/:id", c.speaking.GetAttempt)
		authGroup.POST("/speech/synthesize", c.speaking.Synthesize)
		authGroup.POST("/writing/feedback", c.speaking.WritingFeedback)

		// 学习进度
		authGroup.GET("/progress", c.progress.Overview)
		authGroup.POST("/progress/clear", c.progress.ClearHistory)
	}

	// 3. 编辑相关接口(内容维护)
	editorGroup := router.Group("/api/editor")
	editorGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Editor))
	{
		editorGroup.POST("/exercises", c.exercise.CreateExercise)
		editorGroup.PUT("/exercises/:id", c.exercise.UpdateExercise)
		editorGroup.DELETE("/exercises/:id", c.exercise.DeleteExercise)
		editorGroup.POST("/exercises/validate", c.exercise.ValidateExercise)
		editorGroup.POST("/exercises/import", c.exercise.ImportBank)
		editorGroup.POST("/exercises/generate", c.exercise.GenerateExercises)
	}

	// 4. 管理员相关接口
	adminGroup := router.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminGroup.GET("/users", c.user.GetUsers)
		adminGroup.PUT("/users/:id", c.user.UpdateUser)
		adminGroup.DELETE("/users/:id", c.user.DeleteUser)
		adminGroup.POST("/users/:id/reset-password", c.user.ResetPassword)
		adminGroup.POST("/users/:id/disable", c.user.DisableUser)
	}
}
