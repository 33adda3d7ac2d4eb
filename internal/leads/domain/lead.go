// Package domain holds the lead record as the portal sees it.
package domain

import "strings"

// Lead is a server-owned lead record. The portal never edits fields locally;
// every change goes through the lead backend and is observed on the next fetch.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Feedback  string    `json:"feedback"`
	Status    Status    `json:"status"`
	CreatedAt Timestamp `json:"createdAt"`
}

// IsContacted reports whether the lead already reached its final status.
func (l Lead) IsContacted() bool {
	return l.Status == StatusContacted
}

// MatchesQuery reports whether the lowercase query is a substring of the
// lowercase name, email, or phone. The caller passes an already lowercased
// query; an empty query matches everything.
func (l Lead) MatchesQuery(lowerQuery string) bool {
	if lowerQuery == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(l.Email), lowerQuery) ||
		strings.Contains(strings.ToLower(l.Phone), lowerQuery)
}

// LeadPage is one page of leads as returned by the backend, before any local filtering.
// TotalPages is passed through unchanged; zero means the backend did not send it.
type LeadPage struct {
	Leads      []Lead
	TotalPages int
}
