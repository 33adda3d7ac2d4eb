package listing_test

import (
	"context"
	"testing"

	"leadportal/internal/leads/client"
	"leadportal/internal/leads/leadtest"
	"leadportal/internal/leads/listing"
	"leadportal/platform/logger"
)

type noticeLog struct {
	successes []string
	failures  []string
}

func (n *noticeLog) NotifySuccess(message string) { n.successes = append(n.successes, message) }
func (n *noticeLog) NotifyFailure(message string) { n.failures = append(n.failures, message) }

func TestControllerAgainstBackend(t *testing.T) {
	srv := leadtest.NewServer(t)
	srv.Seed(6)
	svc := client.NewWithHTTPClient(srv.URL, srv.Client(), logger.Discard())
	notices := &noticeLog{}
	c := listing.New(svc, notices, listing.AlwaysConfirm, 5, logger.Discard())
	ctx := context.Background()

	vs, err := c.Open(ctx, 2, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vs.Items) != 1 || vs.TotalPages != 2 {
		t.Fatalf("expected 1 lead on page 2 of 2, got %d of %d", len(vs.Items), vs.TotalPages)
	}

	if err := c.MarkContacted(ctx, vs.Items[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.State().Items[0].IsContacted() {
		t.Fatalf("expected refreshed lead to be Contacted")
	}

	if err := c.DeleteLead(ctx, vs.Items[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vs = c.State()
	if vs.Page != 1 || vs.TotalPages != 1 || len(vs.Items) != 5 {
		t.Fatalf("expected page 1 of 1 with 5 leads, got page %d of %d with %d", vs.Page, vs.TotalPages, len(vs.Items))
	}

	want := []string{listing.MsgMarkedContacted, listing.MsgDeleted}
	if len(notices.successes) != 2 || notices.successes[0] != want[0] || notices.successes[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, notices.successes)
	}
	if len(notices.failures) != 0 {
		t.Fatalf("expected no failures, got %v", notices.failures)
	}
}

func TestControllerReportsBackendFailure(t *testing.T) {
	srv := leadtest.NewServer(t)
	srv.Seed(3)
	svc := client.NewWithHTTPClient(srv.URL, srv.Client(), logger.Discard())
	notices := &noticeLog{}
	c := listing.New(svc, notices, listing.AlwaysConfirm, 5, logger.Discard())
	ctx := context.Background()

	before, err := c.Open(ctx, 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	srv.FailNext(leadtest.OpList, leadtest.FailMissingLeads)
	if _, err := c.SetSearchQuery(ctx, "lead 1"); err == nil {
		t.Fatalf("expected error for a list response without leads")
	}
	after := c.State()
	if len(after.Items) != len(before.Items) {
		t.Fatalf("expected items kept after failure, got %d", len(after.Items))
	}
	if len(notices.failures) != 1 || notices.failures[0] != listing.MsgFetchFailed {
		t.Fatalf("expected fetch failure notice, got %v", notices.failures)
	}

	srv.FailNext(leadtest.OpUpdate, leadtest.FailNotApplied)
	if err := c.MarkContacted(ctx, before.Items[0].ID); err == nil {
		t.Fatalf("expected error when backend does not apply the update")
	}
	if notices.failures[len(notices.failures)-1] != listing.MsgUpdateFailed {
		t.Fatalf("expected update failure notice, got %v", notices.failures)
	}
}
