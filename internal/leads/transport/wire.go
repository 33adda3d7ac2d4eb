package transport

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"leadportal/internal/leads/domain"
)

// SuccessApplied is the only value of the success flag that means the backend applied the change.
const SuccessApplied = 1

// CreateLeadRequest is the body of POST /lead/createLead.
type CreateLeadRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Feedback string `json:"feedback"`
}

// UpdateLeadStatusRequest is the body of PUT /lead/{id}/updateLead.
type UpdateLeadStatusRequest struct {
	Status domain.Status `json:"status"`
}

// Ack is the envelope every mutating endpoint answers with.
// Success is a pointer so an absent flag can be told apart from 0.
type Ack struct {
	Success *int   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Applied reports whether the backend reported success == 1.
func (a Ack) Applied() bool {
	return a.Success != nil && *a.Success == SuccessApplied
}

// CreateLeadResponse is the answer of POST /lead/createLead.
type CreateLeadResponse struct {
	Ack
	Lead *Lead `json:"lead,omitempty"`
}

// ListLeadsResponse is the answer of GET /lead/showLeads.
// Leads is a pointer so a missing array can be told apart from an empty page.
type ListLeadsResponse struct {
	Leads      *[]Lead    `json:"leads"`
	TotalPages FlexNumber `json:"totalPages"`
}

// FlexNumber accepts a JSON number or a numeric string. An empty string
// decodes to 0.
type FlexNumber float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexNumber) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexNumber(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		str = strings.TrimSpace(str)
		if str == "" {
			*f = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("cannot parse %q as number: %w", str, err)
		}
		*f = FlexNumber(parsed)
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexNumber", string(data))
}

// Int rounds a fractional count up. Negative and non-finite values
// are 0.
func (f FlexNumber) Int() int {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Ceil(v))
}

// Lead is a lead as serialized by the backend. Document stores send the id as _id.
type Lead struct {
	ID        string           `json:"id,omitempty"`
	MongoID   string           `json:"_id,omitempty"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Feedback  string           `json:"feedback"`
	Status    domain.Status    `json:"status"`
	CreatedAt domain.Timestamp `json:"createdAt"`
}

// ToDomain converts the wire lead, preferring id over _id.
func (l Lead) ToDomain() domain.Lead {
	id := strings.TrimSpace(l.ID)
	if id == "" {
		id = strings.TrimSpace(l.MongoID)
	}
	return domain.Lead{
		ID:        id,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Feedback:  l.Feedback,
		Status:    normalizeStatus(l.Status),
		CreatedAt: l.CreatedAt,
	}
}

// normalizeStatus maps an empty status to New, the creation default, and folds
// case differences onto the known values. Anything else is kept verbatim.
func normalizeStatus(s domain.Status) domain.Status {
	trimmed := strings.TrimSpace(string(s))
	switch {
	case trimmed == "":
		return domain.StatusNew
	case strings.EqualFold(trimmed, string(domain.StatusNew)):
		return domain.StatusNew
	case strings.EqualFold(trimmed, string(domain.StatusContacted)):
		return domain.StatusContacted
	default:
		return domain.Status(trimmed)
	}
}

// FromDomain converts a domain lead into its wire form.
func FromDomain(l domain.Lead) Lead {
	return Lead{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Feedback:  l.Feedback,
		Status:    l.Status,
		CreatedAt: l.CreatedAt,
	}
}
