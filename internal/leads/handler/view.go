package handler

import (
	"embed"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"leadportal/internal/leads/domain"
	"leadportal/internal/leads/form"
	"leadportal/internal/leads/listing"
	"leadportal/internal/notification"
	"leadportal/platform/locale"
	"leadportal/platform/phone"
	"leadportal/platform/sanitize"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates returns the parsed page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

const (
	pathLeads = "/showLeads"

	titleForm    = "Add a lead"
	titleLeads   = "Leads"
	titleConfirm = "Delete lead"
)

type layout struct {
	Title   string
	Notices []notification.Notice
}

type formView struct {
	layout
	Input  form.Input
	Errors form.FieldErrors
}

type leadRow struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	PhoneHref  template.URL
	Feedback   string
	Status     string
	Contacted  bool
	Created    string
	CreatedISO string
	DeleteURL  string
}

type listView struct {
	layout
	Rows       []leadRow
	Page       int
	TotalPages int
	Query      string
	HasPrev    bool
	HasNext    bool
	PrevURL    string
	NextURL    string
}

type confirmView struct {
	layout
	Prompt    string
	Action    string
	CancelURL string
	Page      int
	Query     string
}

// listURL builds the dashboard URL for a page and query.
func listURL(page int, query string) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	if query != "" {
		v.Set("q", query)
	}
	return pathLeads + "?" + v.Encode()
}

func deleteAction(id string) string {
	return pathLeads + "/" + url.PathEscape(id) + "/delete"
}

func deleteURL(id string, page int, query string) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	if query != "" {
		v.Set("q", query)
	}
	return deleteAction(id) + "?" + v.Encode()
}

func (h *Handler) newListView(vs listing.ViewState, tag language.Tag, notices []notification.Notice) listView {
	rows := make([]leadRow, 0, len(vs.Items))
	for _, l := range vs.Items {
		rows = append(rows, h.newRow(l, tag, vs.Page, vs.SearchQuery))
	}
	return listView{
		layout:     layout{Title: titleLeads, Notices: notices},
		Rows:       rows,
		Page:       vs.Page,
		TotalPages: vs.TotalPages,
		Query:      vs.SearchQuery,
		HasPrev:    vs.HasPrev(),
		HasNext:    vs.HasNext(),
		PrevURL:    listURL(vs.Page-1, vs.SearchQuery),
		NextURL:    listURL(vs.Page+1, vs.SearchQuery),
	}
}

func (h *Handler) newRow(l domain.Lead, tag language.Tag, page int, query string) leadRow {
	row := leadRow{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     phone.FormatDisplay(l.Phone, h.region),
		Feedback:  sanitize.Text(l.Feedback),
		Status:    string(l.Status),
		Contacted: l.IsContacted(),
		Created:   l.CreatedAt.Display(locale.DateLayout(tag)),
		DeleteURL: deleteURL(l.ID, page, query),
	}
	// E.164 output is "+" and digits only, so the tel: link needs no escaping.
	if e164 := phone.NormalizeE164(l.Phone, h.region); strings.HasPrefix(e164, "+") {
		row.PhoneHref = template.URL("tel:" + e164)
	}
	if !l.CreatedAt.Time.IsZero() {
		row.CreatedISO = l.CreatedAt.Time.Format(time.RFC3339)
	}
	return row
}
