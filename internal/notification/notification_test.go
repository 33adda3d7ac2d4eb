package notification

import (
	"sync"
	"testing"
)

func TestRecorderKeepsOrder(t *testing.T) {
	var r Recorder
	r.NotifyFailure("Name is required")
	r.NotifySuccess("Lead added successfully!")

	got := r.Notices()
	if len(got) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(got))
	}
	if got[0] != (Notice{Kind: KindFailure, Message: "Name is required"}) {
		t.Fatalf("unexpected first notice: %+v", got[0])
	}
	if got[1].Kind != KindSuccess {
		t.Fatalf("expected success second, got %s", got[1].Kind)
	}
}

func TestRecorderEmptyIsNotNil(t *testing.T) {
	var r Recorder
	if r.Notices() == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestRecorderConcurrentUse(t *testing.T) {
	var r Recorder
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.NotifySuccess("ok")
		}()
	}
	wg.Wait()

	if n := len(r.Notices()); n != 20 {
		t.Fatalf("expected 20 notices, got %d", n)
	}
}

func TestLatestTakeClears(t *testing.T) {
	var l Latest
	if _, ok := l.Take(); ok {
		t.Fatalf("expected nothing pending")
	}

	l.NotifySuccess("Marked as Contacted")
	l.NotifyFailure("Failed to fetch leads")

	n, ok := l.Take()
	if !ok || n.Message != "Failed to fetch leads" || n.Kind != KindFailure {
		t.Fatalf("expected latest failure, got %+v", n)
	}
	if _, ok := l.Take(); ok {
		t.Fatalf("expected notice to be cleared")
	}
}
