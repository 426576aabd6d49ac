package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sweeply/marketplace-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "marketplace-api-service",
		})
	})

	jobHandler := handler.NewJobHandler(deps)
	authHandler := handler.NewAuthHandler(deps)
	wsHandler := handler.NewWSHandler(deps)

	authRequired := AuthMiddleware(deps.Tokens)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/profile", authRequired, authHandler.Profile)
	}

	r.GET("/ws", authRequired, wsHandler.Connect)
	r.GET("/notifications", authRequired, authHandler.GetNotifications)

	jobs := r.Group("/jobs", authRequired)
	{
		// POST /jobs - Post a new job as the authenticated client
		jobs.POST("", jobHandler.CreateJob)

		// GET /jobs - List jobs still open to workers
		jobs.GET("", jobHandler.GetJobs)

		// GET /jobs/client - The caller's own postings with worker names
		jobs.GET("/client", jobHandler.GetClientJobs)

		// GET /jobs/worker - Jobs the caller has accepted
		jobs.GET("/worker", jobHandler.GetMyJobs)

		// GET /jobs/client/:userId - Postings of a given client
		jobs.GET("/client/:userId", jobHandler.GetJobsByClientID)

		// GET /jobs/:id - Job details
		jobs.GET("/:id", jobHandler.GetJobByID)

		// PUT /jobs/:id - Edit a posting
		jobs.PUT("/:id", jobHandler.UpdateJob)

		// POST /jobs/:id/accept - Claim a job as a worker
		jobs.POST("/:id/accept", jobHandler.AcceptJob)

		// POST /jobs/:id/cancel - Walk away from a claimed job
		jobs.POST("/:id/cancel", jobHandler.CancelJob)

		// POST /jobs/:id/cancel-order - Withdraw a posting as its client
		jobs.POST("/:id/cancel-order", jobHandler.CancelOrder)

		// POST /jobs/:id/reactivate - Reopen a withdrawn posting
		jobs.POST("/:id/reactivate", jobHandler.ReactivateJob)
	}

	return r
}
