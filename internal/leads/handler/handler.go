// Package handler serves the lead form and the lead dashboard, as HTML pages
// and as a JSON API, over the listing controller and the form submitter.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"leadportal/internal/leads/form"
	"leadportal/internal/leads/listing"
	"leadportal/internal/leads/transport"
	"leadportal/internal/notification"
	"leadportal/internal/notification/flash"
	"leadportal/platform/apperr"
	"leadportal/platform/config"
	"leadportal/platform/httpkit"
	"leadportal/platform/locale"
	"leadportal/platform/logger"
)

const (
	msgInvalidRequest   = "invalid request"
	msgTooManySubmits   = "Too many submissions. Please wait a minute and try again."
	msgConfirmRequired  = "deletion requires confirm=true"
	confirmFieldWebYes  = "yes"
	confirmQueryAPITrue = "true"
)

// LeadBackend is everything the handlers need from the lead backend.
type LeadBackend interface {
	listing.LeadService
	CreateLead(ctx context.Context, req transport.CreateLeadRequest) (*transport.CreateLeadResponse, error)
}

// Config is the configuration the handlers read.
type Config interface {
	config.ListingConfig
	config.DisplayConfig
}

// Handler serves lead pages and the lead JSON API.
type Handler struct {
	svc       LeadBackend
	submitter *form.Submitter
	flashes   *flash.Store
	pageLimit int
	region    string
	log       *logger.Logger
}

// New creates a handler.
func New(svc LeadBackend, flashes *flash.Store, cfg Config, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		svc:       svc,
		submitter: form.NewSubmitter(svc, log),
		flashes:   flashes,
		pageLimit: cfg.GetPageLimit(),
		region:    cfg.GetPhoneRegion(),
		log:       log,
	}
}

// RegisterPageRoutes mounts the HTML pages. submitGuard runs before form
// submissions, typically a rate limiter.
func (h *Handler) RegisterPageRoutes(rg gin.IRouter, submitGuard gin.HandlerFunc) {
	rg.GET("/", h.ShowForm)
	rg.POST("/", submitGuard, h.SubmitForm)
	rg.GET(pathLeads, h.ListLeads)
	rg.POST(pathLeads+"/:id/contacted", h.MarkContacted)
	rg.GET(pathLeads+"/:id/delete", h.ConfirmDelete)
	rg.POST(pathLeads+"/:id/delete", h.DeleteLead)
}

func (h *Handler) controller(sink listing.NotificationSink, gate listing.ConfirmationGate) *listing.Controller {
	return listing.New(h.svc, sink, gate, h.pageLimit, h.log)
}

// ShowForm renders the empty lead form.
func (h *Handler) ShowForm(c *gin.Context) {
	notices := h.flashes.Pop(c.Writer, c.Request)
	c.HTML(http.StatusOK, "form.html", formView{layout: layout{Title: titleForm, Notices: notices}})
}

// SubmitForm validates and submits the lead form. Success redirects to a
// fresh form with a flash; anything else re-renders the form with the input kept.
func (h *Handler) SubmitForm(c *gin.Context) {
	var in form.Input
	if err := c.ShouldBind(&in); err != nil {
		h.renderForm(c, http.StatusBadRequest, in, nil, []notification.Notice{{Kind: notification.KindFailure, Message: msgInvalidRequest}})
		return
	}

	rec := &notification.Recorder{}
	res := h.submitter.Submit(c.Request.Context(), in, rec)
	if res.Created {
		sink := h.flashes.Sink(c.Writer, c.Request)
		replay(rec.Notices(), sink)
		sink.Save()
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	h.renderForm(c, statusFor(c, res.Err), res.Input, res.Errors, rec.Notices())
}

// SubmitLimited answers a rate-limited submission: JSON under the API,
// otherwise the form page with a notice.
func (h *Handler) SubmitLimited(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusTooManyRequests, apiResponse{
			Notices: []notification.Notice{{Kind: notification.KindFailure, Message: msgTooManySubmits}},
			Error:   "rate limit exceeded",
		})
		return
	}
	in := form.Input{
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Phone:    c.PostForm("phone"),
		Feedback: c.PostForm("feedback"),
	}
	h.renderForm(c, http.StatusTooManyRequests, in, nil, []notification.Notice{{Kind: notification.KindFailure, Message: msgTooManySubmits}})
}

func (h *Handler) renderForm(c *gin.Context, status int, in form.Input, errs form.FieldErrors, notices []notification.Notice) {
	c.HTML(status, "form.html", formView{
		layout: layout{Title: titleForm, Notices: notices},
		Input:  in,
		Errors: errs,
	})
}

// ListLeads renders one dashboard page.
func (h *Handler) ListLeads(c *gin.Context) {
	page, query := pageAndQuery(c.Query("page"), c.Query("q"))
	notices := h.flashes.Pop(c.Writer, c.Request)

	rec := &notification.Recorder{}
	vs, err := h.controller(rec, listing.AlwaysConfirm).Open(c.Request.Context(), page, query)
	notices = append(notices, rec.Notices()...)

	tag := locale.Negotiate(c.GetHeader("Accept-Language"))
	c.HTML(statusFor(c, err), "leads.html", h.newListView(vs, tag, notices))
}

// MarkContacted moves a lead to Contacted and redirects back to the dashboard.
func (h *Handler) MarkContacted(c *gin.Context) {
	page, query := pageAndQuery(c.PostForm("page"), c.PostForm("q"))
	sink := h.flashes.Sink(c.Writer, c.Request)

	ctl := h.controller(sink, listing.AlwaysConfirm)
	ctl.Resume(page, query)
	_ = ctl.MarkContacted(c.Request.Context(), c.Param("id"))

	sink.Save()
	vs := ctl.State()
	c.Redirect(http.StatusSeeOther, listURL(vs.Page, vs.SearchQuery))
}

// ConfirmDelete renders the deletion confirmation page.
func (h *Handler) ConfirmDelete(c *gin.Context) {
	page, query := pageAndQuery(c.Query("page"), c.Query("q"))
	id := c.Param("id")

	c.HTML(http.StatusOK, "confirm.html", confirmView{
		layout:    layout{Title: titleConfirm},
		Prompt:    listing.PromptDelete,
		Action:    deleteAction(id),
		CancelURL: listURL(page, query),
		Page:      page,
		Query:     query,
	})
}

// DeleteLead deletes a lead when the form carries confirm=yes.
func (h *Handler) DeleteLead(c *gin.Context) {
	page, query := pageAndQuery(c.PostForm("page"), c.PostForm("q"))
	sink := h.flashes.Sink(c.Writer, c.Request)
	gate := listing.ConfirmFunc(func(string) bool {
		return c.PostForm("confirm") == confirmFieldWebYes
	})

	ctl := h.controller(sink, gate)
	ctl.Resume(page, query)
	_ = ctl.DeleteLead(c.Request.Context(), c.Param("id"))

	sink.Save()
	vs := ctl.State()
	c.Redirect(http.StatusSeeOther, listURL(vs.Page, vs.SearchQuery))
}

func replay(notices []notification.Notice, sink listing.NotificationSink) {
	for _, n := range notices {
		if n.Kind == notification.KindSuccess {
			sink.NotifySuccess(n.Message)
		} else {
			sink.NotifyFailure(n.Message)
		}
	}
}

// pageAndQuery parses the page parameter leniently; anything that is not a
// positive number means page 1.
func pageAndQuery(rawPage, query string) (int, string) {
	page, err := strconv.Atoi(strings.TrimSpace(rawPage))
	if err != nil || page < 1 {
		page = 1
	}
	return page, query
}

// statusFor picks the response status for err. Backend failures are attached
// to the request so the request log carries their cause.
func statusFor(c *gin.Context, err error) int {
	if errors.Is(err, listing.ErrNotConfirmed) {
		return http.StatusBadRequest
	}
	if apperr.IsService(err) {
		_ = c.Error(err)
	}
	return httpkit.StatusFor(err)
}
