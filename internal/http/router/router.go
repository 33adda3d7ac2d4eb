package router

import (
	"context"
	"net/http"
	"time"

	apphttp "leadportal/internal/http"
	"leadportal/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const healthTimeout = 3 * time.Second

// New builds the gin engine: shared middleware, health check, the CORS-enabled
// /api/v1 group, and every module's routes.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())

	engine.GET("/healthz", healthHandler(app.Health))

	v1 := engine.Group("/api/v1")
	v1.Use(cors.New(corsConfig(app.Config)))
	// group middleware only runs on matched routes, so preflights need one
	v1.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rc := &apphttp.RouterContext{
		Engine:        engine,
		Pages:         &engine.RouterGroup,
		V1:            v1,
		SubmitLimiter: httpkit.NewPerMinuteLimiter(app.Config.GetSubmitRatePerMinute(), app.Config.GetSubmitBurst(), app.Logger),
	}

	for _, m := range app.Modules {
		app.Logger.Debug("registering module routes", "module", m.Name())
		m.RegisterRoutes(rc)
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Accept-Language", httpkit.HeaderRequestID},
		ExposeHeaders: []string{httpkit.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}

	switch {
	case cfg.GetCORSAllowAll():
		c.AllowAllOrigins = true
	case len(cfg.GetCORSOrigins()) > 0:
		c.AllowOrigins = cfg.GetCORSOrigins()
	default:
		c.AllowOriginFunc = func(string) bool { return false }
	}
	return c
}

func healthHandler(health apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := health.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "backend": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": "ok"})
	}
}
