package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"leadportal/internal/leads/domain"
	"leadportal/internal/leads/form"
	"leadportal/internal/leads/listing"
	"leadportal/internal/notification"
	"leadportal/platform/apperr"
	"leadportal/platform/httpkit"
)

// apiResponse is the body of every lead API answer. Notices are the messages
// a browser front end would have shown as toasts.
type apiResponse struct {
	State   *listing.ViewState    `json:"state,omitempty"`
	Lead    *domain.Lead          `json:"lead,omitempty"`
	Notices []notification.Notice `json:"notices"`
	Error   string                `json:"error,omitempty"`
	Details interface{}           `json:"details,omitempty"`
}

// RegisterAPIRoutes mounts the JSON API on rg (normally /api/v1).
func (h *Handler) RegisterAPIRoutes(rg gin.IRouter, submitGuard gin.HandlerFunc) {
	rg.GET("/leads", h.APIListLeads)
	rg.POST("/leads", submitGuard, h.APICreateLead)
	rg.PUT("/leads/:id/contacted", h.APIMarkContacted)
	rg.DELETE("/leads/:id", h.APIDeleteLead)
}

// APIListLeads returns the view state for ?page=&q=.
func (h *Handler) APIListLeads(c *gin.Context) {
	page, query := pageAndQuery(c.Query("page"), c.Query("q"))
	rec := &notification.Recorder{}

	vs, err := h.controller(rec, listing.AlwaysConfirm).Open(c.Request.Context(), page, query)
	h.respondState(c, vs, rec, err)
}

// APICreateLead validates and submits a lead.
func (h *Handler) APICreateLead(c *gin.Context) {
	var in form.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindBadRequest, msgInvalidRequest, err).WithOp("decode lead"))
		return
	}

	rec := &notification.Recorder{}
	res := h.submitter.Submit(c.Request.Context(), in, rec)
	if res.Created {
		c.JSON(http.StatusCreated, apiResponse{Lead: res.Lead, Notices: rec.Notices()})
		return
	}

	c.JSON(statusFor(c, res.Err), apiResponse{
		Notices: rec.Notices(),
		Error:   errorMessage(res.Err),
		Details: httpkit.ErrorDetails(res.Err),
	})
}

// APIMarkContacted marks a lead Contacted and returns the refreshed state of
// the page given by ?page=&q=.
func (h *Handler) APIMarkContacted(c *gin.Context) {
	page, query := pageAndQuery(c.Query("page"), c.Query("q"))
	rec := &notification.Recorder{}

	ctl := h.controller(rec, listing.AlwaysConfirm)
	ctl.Resume(page, query)
	err := ctl.MarkContacted(c.Request.Context(), c.Param("id"))
	h.respondState(c, ctl.State(), rec, err)
}

// APIDeleteLead deletes a lead. The caller confirms with ?confirm=true.
func (h *Handler) APIDeleteLead(c *gin.Context) {
	page, query := pageAndQuery(c.Query("page"), c.Query("q"))
	rec := &notification.Recorder{}
	gate := listing.ConfirmFunc(func(string) bool {
		return c.Query("confirm") == confirmQueryAPITrue
	})

	ctl := h.controller(rec, gate)
	ctl.Resume(page, query)
	err := ctl.DeleteLead(c.Request.Context(), c.Param("id"))
	h.respondState(c, ctl.State(), rec, err)
}

func (h *Handler) respondState(c *gin.Context, vs listing.ViewState, rec *notification.Recorder, err error) {
	c.JSON(statusFor(c, err), apiResponse{
		State:   &vs,
		Notices: rec.Notices(),
		Error:   errorMessage(err),
		Details: httpkit.ErrorDetails(err),
	})
}

func errorMessage(err error) string {
	if errors.Is(err, listing.ErrNotConfirmed) {
		return msgConfirmRequired
	}
	return httpkit.ErrorMessage(err)
}
