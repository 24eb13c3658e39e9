package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter wires every route onto a gin engine with CORS enabled.
func NewRouter(salary *SalaryHandler, preview *PreviewHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.ExposeHeaders = []string{"Retry-After"}
	r.Use(cors.New(config))

	r.GET("/health", HealthCheck)

	r.POST("/analyze", salary.Analyze)
	r.GET("/analyze", MethodNotAllowed)

	r.GET("/results/:id", salary.GetResult)
	r.GET("/results/:id/metadata", salary.GetMetadata)
	r.GET("/results/:id/share", salary.GetShareLinks)
	r.GET("/stats", salary.Stats)

	r.GET("/og", preview.OGImage)
	return r
}
