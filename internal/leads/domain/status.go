package domain

// Status is the contact state of a lead.
type Status string

const (
	StatusNew       Status = "New"
	StatusContacted Status = "Contacted"
)

var knownStatuses = map[Status]struct{}{
	StatusNew:       {},
	StatusContacted: {},
}

// IsValid reports whether s is a status the backend may return.
func (s Status) IsValid() bool {
	_, ok := knownStatuses[s]
	return ok
}

// CanTransitionTo reports whether moving a lead in status s to next changes
// anything. The only move is to Contacted, from any status other than
// Contacted itself; nothing moves back to New.
func (s Status) CanTransitionTo(next Status) bool {
	return next == StatusContacted && s != StatusContacted
}
