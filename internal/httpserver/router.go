package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"skincare-tracker/internal/handler"
	"skincare-tracker/pkg/config"
)

// ReadinessCheck is one dependency probed by /readyz.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Handlers struct {
	Products  *handler.ProductHandler
	Routines  *handler.RoutineHandler
	Tasks     *handler.TaskHandler
	Reviews   *handler.ReviewHandler
	Dashboard *handler.DashboardHandler
}

func NewRouter(h Handlers, jwtCfg config.JWTConfig, checks []ReadinessCheck, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), TraceMiddleware(), RequestLogger(logger))

	// Health endpoints (放在最前面)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/health", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		for _, chk := range checks {
			if err := chk.Check(ctx); err != nil {
				c.JSON(500, gin.H{"status": chk.Name + "_not_ready", "error": err.Error()})
				return
			}
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtCfg))
	{
		auth.GET("/products/:userId", h.Products.List)
		auth.GET("/products/item/:id", h.Products.Get)
		auth.POST("/products", h.Products.Create)
		auth.PATCH("/products/:id", h.Products.Update)
		auth.DELETE("/products/:id", h.Products.Delete)

		auth.GET("/routines/:userId", h.Routines.List)
		auth.GET("/routines/item/:id", h.Routines.Get)
		auth.POST("/routines", h.Routines.Create)
		auth.PATCH("/routines/:id", h.Routines.Update)
		auth.DELETE("/routines/:id", h.Routines.Delete)

		auth.GET("/tasks/:userId", h.Tasks.List)
		auth.GET("/tasks/:userId/:date", h.Tasks.Agenda)
		auth.POST("/tasks", h.Tasks.Create)
		auth.PATCH("/tasks/:taskId", h.Tasks.Update)
		auth.DELETE("/tasks/:taskId", h.Tasks.Delete)
		auth.POST("/tasks/:taskId/complete", h.Tasks.Complete)
		auth.POST("/tasks/:taskId/uncomplete", h.Tasks.Uncomplete)

		auth.GET("/reviews", h.Reviews.List)
		auth.POST("/reviews", h.Reviews.Create)
		auth.POST("/reviews/:id/helpful", h.Reviews.MarkHelpful)
		auth.DELETE("/reviews/:id", h.Reviews.Delete)

		auth.GET("/dashboard/:userId", h.Dashboard.Summary)
		auth.POST("/dashboard/add-suggested-routine", h.Dashboard.AddSuggestedRoutine)
		auth.GET("/activity/:userId", h.Dashboard.Activity)
	}

	return r
}
