package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	controller "github.com/clearfile/taxportal/controller"
	"github.com/clearfile/taxportal/initializers"
	middleware "github.com/clearfile/taxportal/middleware"
	service "github.com/clearfile/taxportal/service"
)

func main() {
	initializers.LoadEnv()

	cfg, err := initializers.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	if err := initializers.ConnectDB(cfg); err != nil {
		logrus.WithError(err).Fatal("failed to initialize database connection")
	}
	if err := initializers.Migrate(); err != nil {
		logrus.WithError(err).Fatal("failed to run database migrations")
	}

	portalService, err := service.NewPortalService(initializers.DB, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize portal service")
	}

	stopWorkers := portalService.StartBackgroundWorkers()
	defer stopWorkers()

	portalController := controller.NewPortalController(portalService)

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.GlobalRateLimiter.Limit())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Client routes: identity comes from the auth gateway header.
	client := router.Group("/", middleware.RequireUser())
	{
		client.GET("/questionnaire", portalController.GetQuestionnaire)
		client.POST("/questionnaire", portalController.SaveQuestionnaire)

		client.GET("/checklist", portalController.GetChecklist)
		client.PUT("/checklist/:id/not-applicable", portalController.MarkNotApplicable)

		client.POST("/upload",
			middleware.StrictRateLimiter.Limit(),
			portalController.UploadDocuments)
		client.GET("/documents", portalController.GetDocuments)

		client.GET("/returns", portalController.GetReturns)
		client.GET("/returns/:id/stages", portalController.GetStageView)
		client.POST("/returns/:id/advance", portalController.AdvanceFromSignature)

		client.GET("/messages", portalController.GetMessages)
		client.POST("/messages", portalController.PostMessage)
	}

	// Staff routes sit behind the staff gateway; mutations are strictly
	// rate limited.
	staff := router.Group("/staff")
	{
		staff.GET("/dashboard", portalController.GetAllDocuments)
		staff.GET("/search", portalController.SearchDocuments)
		staff.PUT("/documents/:id/status",
			middleware.StrictRateLimiter.Limit(),
			portalController.UpdateDocumentStatus)
		staff.PUT("/returns/:id/status",
			middleware.StrictRateLimiter.Limit(),
			portalController.UpdateReturnStatus)
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}
