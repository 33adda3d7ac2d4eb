// Package leads provides the lead capture and lead dashboard module.
// This file wires the backend client, flash store and handlers and mounts their routes.
package leads

import (
	apphttp "leadportal/internal/http"
	"leadportal/internal/leads/client"
	"leadportal/internal/leads/handler"
	"leadportal/internal/notification/flash"
	"leadportal/platform/config"
	"leadportal/platform/logger"
)

// ModuleConfig combines the config interfaces the leads module reads.
type ModuleConfig interface {
	config.BackendConfig
	config.ListingConfig
	config.DisplayConfig
	config.SessionConfig
}

// Module is the leads module implementing http.Module.
type Module struct {
	handler *handler.Handler
	client  *client.Client
}

// NewModule creates the leads module with its backend client.
func NewModule(cfg ModuleConfig, log *logger.Logger) *Module {
	return NewModuleWithClient(client.New(cfg, log), cfg, log)
}

// NewModuleWithClient creates the leads module around an existing backend client.
func NewModuleWithClient(c *client.Client, cfg ModuleConfig, log *logger.Logger) *Module {
	flashes := flash.NewStore(cfg, log)
	return &Module{
		handler: handler.New(c, flashes, cfg, log),
		client:  c,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Client returns the lead backend client.
func (m *Module) Client() *client.Client {
	return m.client
}

// RegisterRoutes mounts the lead pages at the root and the JSON API under /api/v1.
// Form submissions on both share the per-IP submit limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.SetHTMLTemplate(handler.Templates())

	submitGuard := ctx.SubmitLimiter.OnLimit(m.handler.SubmitLimited).RateLimit()
	m.handler.RegisterPageRoutes(ctx.Pages, submitGuard)
	m.handler.RegisterAPIRoutes(ctx.V1, submitGuard)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
