package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gifts-prodinf/gifts-jobs/internal/api/handler"
	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
)

// endpointKinds maps each endpoint family under /gifts to its job kind
var endpointKinds = map[string]string{
	"update_ensembl":  domain.KindUpdateEnsembl,
	"process_mapping": domain.KindProcessMapping,
	"publish_mapping": domain.KindPublishMapping,
}

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	jobHandler := handler.NewJobHandler(deps)

	// Three endpoint families under /gifts, one triad each:
	// POST submits, GET lists, GET /:job_id fetches one job.
	gifts := r.Group("/gifts")
	for path, kind := range endpointKinds {
		family := gifts.Group("/" + path)
		{
			family.POST("", jobHandler.SubmitJob(kind))
			family.GET("", jobHandler.ListJobs(kind))
			family.GET("/:job_id", jobHandler.GetJob)
		}
	}

	return r
}
