// Package listing implements the paginated, searchable lead dashboard state.
//
// The Controller owns a single ViewState and keeps it consistent with the
// lead backend: every mutation is followed by a fresh fetch, and when several
// fetches overlap only the most recently dispatched one may update the state.
package listing

import (
	"context"
	"errors"
	"strings"
	"sync"

	"leadportal/internal/leads/domain"
	"leadportal/platform/apperr"
	"leadportal/platform/logger"
)

// User-facing notices.
const (
	MsgFetchFailed     = "Failed to fetch leads"
	MsgMarkedContacted = "Marked as Contacted"
	MsgUpdateFailed    = "Failed to update status"
	MsgDeleted         = "Lead deleted successfully"
	MsgDeleteFailed    = "Failed to delete lead"

	// PromptDelete is shown by the ConfirmationGate before a deletion.
	PromptDelete = "Are you sure you want to delete this lead?"
)

var (
	// ErrStale is returned by fetches whose result was discarded because a newer
	// fetch was dispatched after them. The view state is left untouched.
	ErrStale = errors.New("listing: result superseded by a newer fetch")
	// ErrNotConfirmed is returned by DeleteLead when the user declined.
	ErrNotConfirmed = errors.New("listing: deletion not confirmed")
)

// LeadService is the part of the lead backend the dashboard needs.
type LeadService interface {
	ListLeads(ctx context.Context, page, limit int) (domain.LeadPage, error)
	UpdateLeadStatus(ctx context.Context, id string, status domain.Status) error
	DeleteLead(ctx context.Context, id string) error
}

// NotificationSink receives transient success and failure notices.
type NotificationSink interface {
	NotifySuccess(message string)
	NotifyFailure(message string)
}

// ConfirmationGate asks the user a yes/no question.
type ConfirmationGate interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a plain function to ConfirmationGate.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm is used by front ends that collect confirmation before calling
// into the controller.
var AlwaysConfirm ConfirmationGate = ConfirmFunc(func(string) bool { return true })

// ViewState is a snapshot of what the dashboard shows.
type ViewState struct {
	Items       []domain.Lead `json:"items"`
	Page        int           `json:"page"`
	TotalPages  int           `json:"totalPages"`
	SearchQuery string        `json:"searchQuery"`
	IsLoading   bool          `json:"isLoading"`
}

// HasPrev reports whether a previous page exists.
func (v ViewState) HasPrev() bool { return v.Page > 1 }

// HasNext reports whether a next page exists.
func (v ViewState) HasNext() bool { return v.Page < v.TotalPages }

func (v ViewState) clone() ViewState {
	items := make([]domain.Lead, len(v.Items))
	copy(items, v.Items)
	v.Items = items
	return v
}

// Controller drives the lead dashboard.
type Controller struct {
	svc   LeadService
	sink  NotificationSink
	gate  ConfirmationGate
	limit int
	log   *logger.Logger

	mu    sync.Mutex
	state ViewState
	seq   uint64
}

// New creates a controller showing page 1 with no search query. Nothing is
// fetched until Open or Refresh is called.
func New(svc LeadService, sink NotificationSink, gate ConfirmationGate, limit int, log *logger.Logger) *Controller {
	if gate == nil {
		gate = AlwaysConfirm
	}
	if limit < 1 {
		limit = 1
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Controller{
		svc:   svc,
		sink:  sink,
		gate:  gate,
		limit: limit,
		log:   log,
		state: ViewState{Items: []domain.Lead{}, Page: 1, TotalPages: 1},
	}
}

// State returns a copy of the current view state.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Limit returns the page size used for every fetch.
func (c *Controller) Limit() int { return c.limit }

// Open shows the given page and query, as on first display. A page beyond the
// last one is pulled back to the last page. Like SetPage, nothing is
// committed unless the fetch succeeds.
func (c *Controller) Open(ctx context.Context, page int, query string) (ViewState, error) {
	if page < 1 {
		page = 1
	}

	vs, err := c.Refresh(ctx, page, c.limit, query)
	if err != nil {
		return vs, err
	}
	return c.reconcilePage(ctx, vs)
}

// Resume restores the committed page and query without fetching. Stateless
// front ends use it to rebuild a controller from the request before running
// a mutation, whose follow-up refresh then reconciles the page.
func (c *Controller) Resume(page int, query string) {
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Page = page
	c.state.SearchQuery = query
	if c.state.TotalPages < page {
		c.state.TotalPages = page
	}
}

// Refresh fetches one page from the backend and, if no newer fetch was
// dispatched in the meantime, replaces items and totalPages and commits the
// page and query. On failure the previous items and totalPages are kept and
// a failure notice is emitted. A superseded fetch returns ErrStale without
// touching the state or notifying anyone.
func (c *Controller) Refresh(ctx context.Context, page, limit int, query string) (ViewState, error) {
	if page < 1 || limit < 1 {
		return c.State(), apperr.BadRequest("page and limit must be at least 1").WithOp("refresh leads")
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state.IsLoading = true
	c.mu.Unlock()

	result, err := c.svc.ListLeads(ctx, page, limit)

	c.mu.Lock()
	if seq != c.seq {
		vs := c.state.clone()
		c.mu.Unlock()
		c.log.WithContext(ctx).Debug("discarding stale lead page", "page", page, "seq", seq)
		return vs, ErrStale
	}
	c.state.IsLoading = false
	if err != nil {
		vs := c.state.clone()
		c.mu.Unlock()
		c.log.WithContext(ctx).ServiceError("list leads", err)
		c.notifyFailure(MsgFetchFailed)
		return vs, err
	}

	totalPages := result.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	c.state.Items = Filter(result.Leads, query)
	c.state.TotalPages = totalPages
	c.state.Page = page
	c.state.SearchQuery = query
	vs := c.state.clone()
	c.mu.Unlock()
	return vs, nil
}

// SetPage moves to page n, clamped into [1, totalPages]. The page is only
// committed once the fetch for it succeeds.
func (c *Controller) SetPage(ctx context.Context, n int) (ViewState, error) {
	c.mu.Lock()
	target := clamp(n, c.state.TotalPages)
	query := c.state.SearchQuery
	c.mu.Unlock()

	return c.Refresh(ctx, target, c.limit, query)
}

// SetSearchQuery replaces the query, resets to page 1 and refreshes.
func (c *Controller) SetSearchQuery(ctx context.Context, query string) (ViewState, error) {
	c.mu.Lock()
	c.state.SearchQuery = query
	c.state.Page = 1
	c.mu.Unlock()

	return c.Refresh(ctx, 1, c.limit, query)
}

// MarkContacted moves a lead to Contacted and refreshes the current page.
// Leads shown in a status that cannot move to Contacted are left alone.
func (c *Controller) MarkContacted(ctx context.Context, id string) error {
	if lead, ok := c.item(id); ok && !lead.Status.CanTransitionTo(domain.StatusContacted) {
		return nil
	}

	if err := c.svc.UpdateLeadStatus(ctx, id, domain.StatusContacted); err != nil {
		c.log.WithContext(ctx).ServiceError("update lead status", err)
		c.notifyFailure(MsgUpdateFailed)
		return err
	}
	c.notifySuccess(MsgMarkedContacted)
	c.refreshCurrent(ctx)
	return nil
}

// DeleteLead removes a lead after the ConfirmationGate agrees and refreshes
// the current page. A declined confirmation returns ErrNotConfirmed and
// changes nothing.
func (c *Controller) DeleteLead(ctx context.Context, id string) error {
	if !c.gate.Confirm(PromptDelete) {
		return ErrNotConfirmed
	}

	if err := c.svc.DeleteLead(ctx, id); err != nil {
		c.log.WithContext(ctx).ServiceError("delete lead", err)
		c.notifyFailure(MsgDeleteFailed)
		return err
	}
	c.notifySuccess(MsgDeleted)
	c.refreshCurrent(ctx)
	return nil
}

// refreshCurrent re-fetches the committed page after a mutation. Failures are
// already reported through the sink by Refresh.
func (c *Controller) refreshCurrent(ctx context.Context) {
	c.mu.Lock()
	page, query := c.state.Page, c.state.SearchQuery
	c.mu.Unlock()

	vs, err := c.Refresh(ctx, page, c.limit, query)
	if err != nil {
		return
	}
	_, _ = c.reconcilePage(ctx, vs)
}

// reconcilePage pulls the page back when the backend reports fewer pages than
// the one being shown, e.g. after deleting the only lead on the last page.
func (c *Controller) reconcilePage(ctx context.Context, vs ViewState) (ViewState, error) {
	if vs.Page <= vs.TotalPages {
		return vs, nil
	}
	return c.Refresh(ctx, vs.TotalPages, c.limit, vs.SearchQuery)
}

func (c *Controller) item(id string) (domain.Lead, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, lead := range c.state.Items {
		if lead.ID == id {
			return lead, true
		}
	}
	return domain.Lead{}, false
}

func (c *Controller) notifySuccess(message string) {
	if c.sink != nil {
		c.sink.NotifySuccess(message)
	}
}

func (c *Controller) notifyFailure(message string) {
	if c.sink != nil {
		c.sink.NotifyFailure(message)
	}
}

// Filter keeps the leads whose name, email, or phone contains the query,
// ignoring case. A blank query keeps everything; otherwise the query is
// matched as typed, surrounding spaces included. Order is preserved and the
// result is never nil.
func Filter(leads []domain.Lead, query string) []domain.Lead {
	q := strings.ToLower(query)
	if strings.TrimSpace(query) == "" {
		q = ""
	}
	out := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.MatchesQuery(q) {
			out = append(out, lead)
		}
	}
	return out
}

func clamp(n, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if n > totalPages {
		n = totalPages
	}
	if n < 1 {
		n = 1
	}
	return n
}
