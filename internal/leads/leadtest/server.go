// Package leadtest provides an in-memory lead backend speaking the LeadService
// HTTP contract, for tests of the client, the controller and the web handlers.
package leadtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"leadportal/internal/leads/domain"
	"leadportal/internal/leads/transport"

	"github.com/gin-gonic/gin"
)

// Op names one endpoint of the contract.
type Op string

const (
	OpCreate Op = "create"
	OpList   Op = "list"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Failure is an injected misbehaviour for the next call of an Op.
type Failure int

const (
	// FailStatus answers 500 with a JSON error body.
	FailStatus Failure = iota + 1
	// FailNotApplied answers 200 with success: 0.
	FailNotApplied
	// FailMalformed answers 200 with a body that is not JSON.
	FailMalformed
	// FailMissingLeads answers 200 to a list call without the leads array.
	FailMissingLeads
)

// Call records one request the server received.
type Call struct {
	Op    Op
	Path  string
	Query url.Values
	Body  map[string]interface{}
}

// Server is the fake backend. All methods are safe for concurrent use.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	leads    []transport.Lead // newest first
	nextID   int
	failures map[Op][]Failure
	calls    []Call
	now      func() time.Time
}

// NewServer starts a fake backend that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		failures: make(map[Op][]Failure),
		now:      func() time.Time { return time.Date(2024, time.March, 7, 9, 0, 0, 0, time.UTC) },
	}

	engine := gin.New()
	group := engine.Group("/lead")
	group.POST("/createLead", s.create)
	group.GET("/showLeads", s.list)
	group.PUT("/:id/updateLead", s.update)
	group.DELETE("/:id/deleteLead", s.delete)

	s.Server = httptest.NewServer(engine)
	t.Cleanup(s.Server.Close)
	return s
}

// Add stores leads as if they had been created in the given order.
// Empty ids and statuses are filled in.
func (s *Server) Add(leads ...domain.Lead) []domain.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Lead, 0, len(leads))
	for _, l := range leads {
		if l.ID == "" {
			l.ID = s.newID()
		}
		if l.Status == "" {
			l.Status = domain.StatusNew
		}
		if l.CreatedAt.IsZero() {
			l.CreatedAt = domain.Timestamp{Time: s.now()}
		}
		s.leads = append([]transport.Lead{transport.FromDomain(l)}, s.leads...)
		out = append(out, l)
	}
	return out
}

// Seed adds n generated leads named "Lead 1" .. "Lead n".
func (s *Server) Seed(n int) []domain.Lead {
	leads := make([]domain.Lead, 0, n)
	for i := 1; i <= n; i++ {
		leads = append(leads, domain.Lead{
			Name:     fmt.Sprintf("Lead %d", i),
			Email:    fmt.Sprintf("lead%d@example.com", i),
			Phone:    fmt.Sprintf("98765%05d", i),
			Feedback: "seeded",
		})
	}
	return s.Add(leads...)
}

// Leads returns the stored leads, newest first.
func (s *Server) Leads() []domain.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Lead, 0, len(s.leads))
	for _, l := range s.leads {
		out = append(out, l.ToDomain())
	}
	return out
}

// Lead returns the stored lead with id.
func (s *Server) Lead(id string) (domain.Lead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.leads[idx].ToDomain(), true
	}
	return domain.Lead{}, false
}

// FailNext queues failures for the next calls of op, one per call.
func (s *Server) FailNext(op Op, failures ...Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = append(s.failures[op], failures...)
}

// Calls returns the recorded calls of op.
func (s *Server) Calls(op Op) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Call, 0)
	for _, c := range s.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) newID() string {
	s.nextID++
	return fmt.Sprintf("%024x", s.nextID)
}

func (s *Server) indexOf(id string) int {
	for i, l := range s.leads {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// begin records the call and reports whether an injected failure was written.
func (s *Server) begin(c *gin.Context, op Op, body map[string]interface{}) bool {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Op: op, Path: c.Request.URL.Path, Query: c.Request.URL.Query(), Body: body})
	var failure Failure
	if queue := s.failures[op]; len(queue) > 0 {
		failure = queue[0]
		s.failures[op] = queue[1:]
	}
	s.mu.Unlock()

	switch failure {
	case FailStatus:
		c.JSON(http.StatusInternalServerError, gin.H{"success": 0, "message": "Internal server error"})
	case FailNotApplied:
		c.JSON(http.StatusOK, gin.H{"success": 0, "message": "Operation failed"})
	case FailMalformed:
		c.String(http.StatusOK, "<html>oops</html>")
	case FailMissingLeads:
		c.JSON(http.StatusOK, gin.H{"totalPages": 1})
	default:
		return false
	}
	return true
}

func (s *Server) create(c *gin.Context) {
	raw := map[string]interface{}{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": 0, "message": "Invalid body"})
		return
	}
	if s.begin(c, OpCreate, raw) {
		return
	}
	var req transport.CreateLeadRequest
	req.Name, _ = raw["name"].(string)
	req.Email, _ = raw["email"].(string)
	req.Phone, _ = raw["phone"].(string)
	req.Feedback, _ = raw["feedback"].(string)

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Phone) == "" || strings.TrimSpace(req.Feedback) == "" {
		c.JSON(http.StatusOK, gin.H{"success": 0, "message": "All fields are required"})
		return
	}

	created := s.Add(domain.Lead{Name: req.Name, Email: req.Email, Phone: req.Phone, Feedback: req.Feedback})[0]
	c.JSON(http.StatusCreated, gin.H{
		"success": 1,
		"message": "Lead created successfully",
		"lead":    transport.FromDomain(created),
	})
}

func (s *Server) list(c *gin.Context) {
	if s.begin(c, OpList, nil) {
		return
	}

	page, errPage := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, errLimit := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if errPage != nil || errLimit != nil || page < 1 || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"success": 0, "message": "Invalid pagination"})
		return
	}

	s.mu.Lock()
	total := len(s.leads)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	pageLeads := make([]transport.Lead, 0, end-start)
	for _, l := range s.leads[start:end] {
		// document-store backends serialize the id as _id
		l.MongoID, l.ID = l.ID, ""
		pageLeads = append(pageLeads, l)
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"leads":      pageLeads,
		"totalPages": (total + limit - 1) / limit,
	})
}

func (s *Server) update(c *gin.Context) {
	raw := map[string]interface{}{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": 0, "message": "Invalid body"})
		return
	}
	if s.begin(c, OpUpdate, raw) {
		return
	}
	status, _ := raw["status"].(string)
	if !domain.Status(status).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": 0, "message": "Invalid status"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(c.Param("id"))
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": 0, "message": "Lead not found"})
		return
	}
	s.leads[idx].Status = domain.Status(status)
	c.JSON(http.StatusOK, gin.H{"success": 1, "message": "Lead updated"})
}

func (s *Server) delete(c *gin.Context) {
	if s.begin(c, OpDelete, nil) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(c.Param("id"))
	if idx < 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": 0, "message": "Lead not found"})
		return
	}
	s.leads = append(s.leads[:idx], s.leads[idx+1:]...)
	c.JSON(http.StatusOK, gin.H{"success": 1, "message": "Lead deleted"})
}
