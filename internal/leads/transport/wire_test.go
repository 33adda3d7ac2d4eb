package transport

import (
	"encoding/json"
	"testing"

	"leadportal/internal/leads/domain"
)

func TestAckApplied(t *testing.T) {
	cases := []struct {
		body string
		want bool
	}{
		{`{"success":1}`, true},
		{`{"success":0}`, false},
		{`{"success":2}`, false},
		{`{}`, false},
		{`{"success":null}`, false},
	}
	for _, tc := range cases {
		var ack Ack
		if err := json.Unmarshal([]byte(tc.body), &ack); err != nil {
			t.Fatalf("unexpected error for %s: %v", tc.body, err)
		}
		if ack.Applied() != tc.want {
			t.Fatalf("body %s: expected applied=%v", tc.body, tc.want)
		}
	}
}

func TestListResponseDistinguishesMissingLeads(t *testing.T) {
	var missing ListLeadsResponse
	if err := json.Unmarshal([]byte(`{"totalPages":3}`), &missing); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing.Leads != nil {
		t.Fatalf("expected nil leads when the field is absent")
	}

	var empty ListLeadsResponse
	if err := json.Unmarshal([]byte(`{"leads":[],"totalPages":1}`), &empty); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.Leads == nil || len(*empty.Leads) != 0 {
		t.Fatalf("expected empty, non-nil leads")
	}
}

func TestTotalPagesAcceptsNumericStrings(t *testing.T) {
	cases := []struct {
		body string
		want int
	}{
		{`{"leads":[],"totalPages":2}`, 2},
		{`{"leads":[],"totalPages":"2"}`, 2},
		{`{"leads":[],"totalPages":"2.0"}`, 2},
		{`{"leads":[],"totalPages":2.5}`, 3},
		{`{"leads":[],"totalPages":""}`, 0},
		{`{"leads":[],"totalPages":-1}`, 0},
		{`{"leads":[]}`, 0},
	}
	for _, tc := range cases {
		var resp ListLeadsResponse
		if err := json.Unmarshal([]byte(tc.body), &resp); err != nil {
			t.Fatalf("unexpected error for %s: %v", tc.body, err)
		}
		if got := resp.TotalPages.Int(); got != tc.want {
			t.Fatalf("body %s: expected %d, got %d", tc.body, tc.want, got)
		}
	}
}

func TestTotalPagesRejectsGarbage(t *testing.T) {
	for _, body := range []string{`{"totalPages":"two"}`, `{"totalPages":true}`} {
		var resp ListLeadsResponse
		if err := json.Unmarshal([]byte(body), &resp); err == nil {
			t.Fatalf("expected error for %s", body)
		}
	}
}

func TestLeadToDomainPrefersIDAndNormalizesStatus(t *testing.T) {
	var wire Lead
	body := `{"_id":"65f0c0ffee","name":"Asha","email":"asha@x.in","phone":"9876543210","feedback":"hi","status":"contacted","createdAt":"2024-01-02T03:04:05Z"}`
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lead := wire.ToDomain()
	if lead.ID != "65f0c0ffee" {
		t.Fatalf("expected _id fallback, got %q", lead.ID)
	}
	if lead.Status != domain.StatusContacted {
		t.Fatalf("expected Contacted, got %q", lead.Status)
	}
	if lead.CreatedAt.Time.IsZero() {
		t.Fatalf("expected createdAt to parse")
	}

	wire.ID = "primary"
	wire.Status = ""
	lead = wire.ToDomain()
	if lead.ID != "primary" {
		t.Fatalf("expected id to win over _id, got %q", lead.ID)
	}
	if lead.Status != domain.StatusNew {
		t.Fatalf("expected empty status to default to New, got %q", lead.Status)
	}
}
