// Package notification carries the transient success and failure notices
// the portal shows after an action. Front ends pick a sink: the web pages use
// flash cookies (see flash), the JSON API collects notices with a Recorder,
// and the terminal dashboard keeps the latest one in its status line.
package notification

import "sync"

// Kind tells a success notice from a failure notice.
type Kind string

const (
	KindSuccess Kind = "success"
	KindFailure Kind = "failure"
)

// Notice is one message shown to the user.
type Notice struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Recorder collects notices in order. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// NotifySuccess records a success notice.
func (r *Recorder) NotifySuccess(message string) {
	r.add(Notice{Kind: KindSuccess, Message: message})
}

// NotifyFailure records a failure notice.
func (r *Recorder) NotifyFailure(message string) {
	r.add(Notice{Kind: KindFailure, Message: message})
}

func (r *Recorder) add(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of everything recorded so far. Never nil.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Latest is a sink that keeps only the most recent notice.
type Latest struct {
	mu     sync.Mutex
	notice Notice
	set    bool
}

// NotifySuccess replaces the current notice.
func (l *Latest) NotifySuccess(message string) {
	l.store(Notice{Kind: KindSuccess, Message: message})
}

// NotifyFailure replaces the current notice.
func (l *Latest) NotifyFailure(message string) {
	l.store(Notice{Kind: KindFailure, Message: message})
}

func (l *Latest) store(n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notice = n
	l.set = true
}

// Take returns the current notice and clears it.
func (l *Latest) Take() (Notice, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.notice, l.set
	l.notice, l.set = Notice{}, false
	return n, ok
}
