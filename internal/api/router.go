package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter configures the application routes.
func NewRouter(h *Handler, log *logrus.Logger, allowedOrigins []string) *gin.Engine {
	r := gin.New()

	r.Use(RequestID(), Logger(log), Metrics(), Recovery())

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  allowedOrigins,
			AllowMethods:  []string{"GET", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", headerRequestID},
			ExposeHeaders: []string{"Content-Length", headerRequestID},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.SetHTMLTemplate(pageTemplates())

	r.GET("/", h.Index)
	r.GET("/api/recipes", h.FindRecipes)
	r.GET("/images/thumbnail", h.Thumbnail)
	r.GET("/healthz", h.Health)
	r.GET("/metrics", MetricsHandler())

	return r
}
