// Package http provides HTTP server infrastructure including the Module interface
// that all modules must implement for route registration.
package http

import (
	"leadportal/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module represents a feature area that can register its HTTP routes.
// Each module implements this interface to encapsulate its own
// route setup, keeping the main router decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router context.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
// This avoids passing many parameters to each module's RegisterRoutes method.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access
	// (e.g. the HTML template set).
	Engine *gin.Engine
	// Pages is the root group for server-rendered pages.
	Pages *gin.RouterGroup
	// V1 is the /api/v1 route group with CORS applied.
	V1 *gin.RouterGroup
	// SubmitLimiter is the per-IP limiter for lead submissions.
	SubmitLimiter *httpkit.IPRateLimiter
}
