package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "cigfip/docs" // swagger docs
	"cigfip/internal/config"
	"cigfip/internal/handler"
	"cigfip/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	corsCfg *config.CORSConfig,
	filingH *handler.FilingHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsCfg.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	filings := v1.Group("/filings")
	filings.POST("/parse", filingH.Parse)
	filings.POST("/parse/batch", filingH.ParseBatch)
	filings.POST("/extract", filingH.Extract)
	filings.POST("/reconcile", filingH.Reconcile)

	people := v1.Group("/people/:nit/submissions")
	people.GET("", filingH.ListSubmissions)
	people.GET("/latest", filingH.GetLatest)
	people.GET("/latest/export", filingH.ExportLatest)

	v1.GET("/submissions/:id", filingH.GetSubmission)

	return r
}
