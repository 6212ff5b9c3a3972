package routes

import (
	"engagement-api/controllers"
	"engagement-api/middleware"
	"engagement-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Engagement Project API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Reference data for the capture form
			protected.GET("/reference-choices", controllers.GetReferenceChoices)
			protected.GET("/institutes", controllers.GetInstitutes)
			protected.GET("/institutes/:id", controllers.GetInstitute)
			protected.GET("/institutes/:id/org-levels", controllers.GetOrgLevels)

			// Engagement projects
			projects := protected.Group("/projects")
			{
				projects.GET("", controllers.GetProjects)
				projects.GET("/:id", controllers.GetProject)
				projects.GET("/:id/score", controllers.GetProjectScore)

				// Only project leaders capture questionnaires
				projects.POST("", middleware.RequireRole(models.RoleProjectLeader), controllers.CreateProject)
				projects.PUT("/:id", middleware.RequireRole(models.RoleProjectLeader), controllers.UpdateProject)

				// Reviewer rejection
				projects.POST("/:id/reject",
					middleware.RequireRole(models.RoleSuperuser, models.RoleInstituteAdmin),
					controllers.RejectProject)
			}

			// Output evidence attachments
			outputs := protected.Group("/outputs")
			{
				outputs.POST("/:output_id/attachment",
					middleware.RequireRole(models.RoleProjectLeader),
					controllers.UploadOutputAttachment)
				outputs.GET("/:output_id/attachment", controllers.DownloadOutputAttachment)
			}

			// Reporting periods
			periods := protected.Group("/reporting-periods")
			{
				periods.GET("", controllers.GetReportingPeriods)
				periods.GET("/active", controllers.GetActiveReportingPeriod)
				periods.POST("",
					middleware.RequireRole(models.RoleInstituteAdmin),
					controllers.OpenReportingPeriod)
				periods.POST("/:id/close",
					middleware.RequireRole(models.RoleSuperuser, models.RoleInstituteAdmin),
					controllers.CloseReportingPeriod)
			}

			// Institute administration
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleSuperuser, models.RoleInstituteAdmin))
			{
				admin.POST("/users", controllers.CreateUser)
				admin.GET("/users", controllers.GetInstituteUsers)
				admin.DELETE("/users/:id", controllers.DeactivateUser)
				admin.POST("/institutes/:id/objectives", controllers.CreateStrategicObjective)
				admin.PUT("/objectives/:objective_id", controllers.UpdateStrategicObjective)
			}

			// Reporting
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)
			protected.GET("/export/scores",
				middleware.RequireRole(models.RoleSuperuser, models.RoleInstituteAdmin),
				controllers.ExportProjectScores)
		}
	}
}
