package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leadportal/internal/leads/domain"
	"leadportal/internal/leads/leadtest"
	"leadportal/internal/leads/transport"
	"leadportal/platform/apperr"
	"leadportal/platform/logger"
)

func newTestClient(t *testing.T) (*Client, *leadtest.Server) {
	t.Helper()
	srv := leadtest.NewServer(t)
	return NewWithHTTPClient(srv.URL, srv.Client(), logger.Discard()), srv
}

func TestListLeadsPaginates(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Seed(7)

	page, err := c.ListLeads(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Leads) != 2 {
		t.Fatalf("expected 2 leads on page 2, got %d", len(page.Leads))
	}
	if page.TotalPages != 2 {
		t.Fatalf("expected totalPages 2, got %d", page.TotalPages)
	}
	if page.Leads[0].ID == "" {
		t.Fatalf("expected _id to be mapped onto ID")
	}

	calls := srv.Calls(leadtest.OpList)
	if len(calls) != 1 || calls[0].Query.Get("page") != "2" || calls[0].Query.Get("limit") != "5" {
		t.Fatalf("expected one call with page=2&limit=5, got %+v", calls)
	}
}

func TestListLeadsRejectsInvalidPagination(t *testing.T) {
	c, srv := newTestClient(t)

	_, err := c.ListLeads(context.Background(), 0, 5)
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
	if len(srv.Calls(leadtest.OpList)) != 0 {
		t.Fatalf("expected no request to be sent")
	}
}

func TestListLeadsFailures(t *testing.T) {
	cases := []struct {
		name    string
		failure leadtest.Failure
		kind    apperr.Kind
	}{
		{"status 500", leadtest.FailStatus, apperr.KindUpstream},
		{"malformed body", leadtest.FailMalformed, apperr.KindUpstream},
		{"missing leads array", leadtest.FailMissingLeads, apperr.KindUpstream},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, srv := newTestClient(t)
			srv.FailNext(leadtest.OpList, tc.failure)

			_, err := c.ListLeads(context.Background(), 1, 5)
			if !apperr.Is(err, tc.kind) {
				t.Fatalf("expected kind %v, got %v", tc.kind, err)
			}
			if !apperr.IsService(err) {
				t.Fatalf("expected a service error, got %v", err)
			}
		})
	}
}

func TestCreateLead(t *testing.T) {
	c, srv := newTestClient(t)

	resp, err := c.CreateLead(context.Background(), transport.CreateLeadRequest{
		Name: "Asha", Email: "asha@example.in", Phone: "9876543210", Feedback: "Call me",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Message != "Lead created successfully" {
		t.Fatalf("expected backend message, got %q", resp.Message)
	}
	if resp.Lead == nil || resp.Lead.ToDomain().Status != domain.StatusNew {
		t.Fatalf("expected created lead with status New, got %+v", resp.Lead)
	}
	if len(srv.Leads()) != 1 {
		t.Fatalf("expected lead stored, got %d", len(srv.Leads()))
	}
}

func TestCreateLeadNotAppliedKeepsMessage(t *testing.T) {
	c, srv := newTestClient(t)
	srv.FailNext(leadtest.OpCreate, leadtest.FailNotApplied)

	resp, err := c.CreateLead(context.Background(), transport.CreateLeadRequest{Name: "x"})
	if !apperr.Is(err, apperr.KindRejected) {
		t.Fatalf("expected rejected error, got %v", err)
	}
	if resp == nil || resp.Message != "Operation failed" {
		t.Fatalf("expected decoded response with message, got %+v", resp)
	}
}

func TestUpdateLeadStatus(t *testing.T) {
	c, srv := newTestClient(t)
	lead := srv.Seed(1)[0]

	if err := c.UpdateLeadStatus(context.Background(), lead.ID, domain.StatusContacted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := srv.Lead(lead.ID)
	if stored.Status != domain.StatusContacted {
		t.Fatalf("expected Contacted, got %q", stored.Status)
	}

	calls := srv.Calls(leadtest.OpUpdate)
	if calls[0].Body["status"] != "Contacted" {
		t.Fatalf("expected body status Contacted, got %v", calls[0].Body)
	}
}

func TestUpdateLeadStatusSuccessFlagRequired(t *testing.T) {
	c, srv := newTestClient(t)
	lead := srv.Seed(1)[0]
	srv.FailNext(leadtest.OpUpdate, leadtest.FailNotApplied)

	err := c.UpdateLeadStatus(context.Background(), lead.ID, domain.StatusContacted)
	if !apperr.Is(err, apperr.KindRejected) {
		t.Fatalf("expected rejected error on 2xx with success=0, got %v", err)
	}
}

func TestDeleteLead(t *testing.T) {
	c, srv := newTestClient(t)
	lead := srv.Seed(1)[0]

	if err := c.DeleteLead(context.Background(), lead.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(srv.Leads()) != 0 {
		t.Fatalf("expected lead removed")
	}

	err := c.DeleteLead(context.Background(), lead.ID)
	if !apperr.IsService(err) {
		t.Fatalf("expected service error for unknown lead, got %v", err)
	}
	if err.(*apperr.Error).Message != "Lead not found" {
		t.Fatalf("expected backend message to be kept, got %q", err.(*apperr.Error).Message)
	}
}

func TestDeleteLeadRequiresID(t *testing.T) {
	c, _ := newTestClient(t)
	if err := c.DeleteLead(context.Background(), "  "); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewWithHTTPClient(srv.URL, &http.Client{Timeout: time.Second}, nil)
	_, err := c.ListLeads(context.Background(), 1, 5)
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"leads":[],"totalPages":0}`))
	}))
	defer srv.Close()

	c := NewWithHTTPClient(srv.URL, srv.Client(), nil)
	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "req-42")
	page, err := c.ListLeads(ctx, 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "req-42" {
		t.Fatalf("expected request id header, got %q", got)
	}
	if page.TotalPages != 0 || len(page.Leads) != 0 {
		t.Fatalf("expected raw empty page, got %+v", page)
	}
}

func TestListLeadsTotalPagesAsString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"leads":[],"totalPages":"2"}`))
	}))
	defer srv.Close()

	c := NewWithHTTPClient(srv.URL, srv.Client(), nil)
	page, err := c.ListLeads(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalPages != 2 {
		t.Fatalf("expected totalPages 2, got %d", page.TotalPages)
	}
}

func TestPing(t *testing.T) {
	c, srv := newTestClient(t)

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	calls := srv.Calls(leadtest.OpList)
	if len(calls) != 1 || calls[0].Query.Get("limit") != "1" {
		t.Fatalf("expected one list call with limit 1, got %+v", calls)
	}

	srv.FailNext(leadtest.OpList, leadtest.FailStatus)
	if err := c.Ping(context.Background()); !apperr.IsService(err) {
		t.Fatalf("expected service error, got %v", err)
	}
}
