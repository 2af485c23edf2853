// Package ui serves the browser front end: a server-rendered job board, or a
// prebuilt single page app when one is present on disk.
package ui

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/honeycarbs/job-portal/internal/domain"
	"github.com/honeycarbs/job-portal/internal/domain/job"
	"github.com/honeycarbs/job-portal/pkg/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

const cardDescriptionLength = 200

// JobSource resolves listings and single jobs
type JobSource interface {
	List(ctx context.Context, filter domain.JobFilter) (job.ListResult, error)
	Get(ctx context.Context, id string) (job.GetResult, error)
}

// Card is one listing row
type Card struct {
	Job      JobView
	Location string
	Salary   string
	Posted   string
	Summary  string
	Active   bool
	Link     string
}

// Detail is the selected job panel
type Detail struct {
	Job      JobView
	Location string
	Salary   string
	Posted   string
	Close    string
}

// PageLink is one pagination button
type PageLink struct {
	Number int
	Href   string
	Active bool
}

// PageData is the template model of the job board
type PageData struct {
	Search   string
	Location string
	Remote   string
	Limit    int

	Loaded  bool
	Error   string
	Total   int
	Source  domain.Source
	Cards   []Card
	Detail  *Detail
	Pages   []PageLink
	Prev    string
	Next    string
	ShowNav bool
}

// Page renders the job board
type Page struct {
	jobs   JobSource
	tmpl   *template.Template
	clock  func() time.Time
	logger *logging.Logger
}

// NewPage parses the embedded templates
func NewPage(jobs JobSource, logger *logging.Logger) (*Page, error) {
	if jobs == nil {
		return nil, errors.New("ui: job source is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	tmpl, err := template.New("index.html").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Page{jobs: jobs, tmpl: tmpl, clock: time.Now, logger: logger}, nil
}

// Assets serves the embedded stylesheet under /assets/
func Assets() http.Handler {
	sub, _ := fs.Sub(assetFS, "assets")
	return http.StripPrefix("/assets/", http.FileServer(http.FS(sub)))
}

// ServeHTTP renders the board for the query in r
func (p *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ParseFilter(q)
	selected := strings.TrimSpace(q.Get("job"))

	data := PageData{
		Search:   filter.Search,
		Location: filter.Location,
		Remote:   q.Get("remote"),
		Limit:    domain.ClampLimit(orDefault(filter.Limit, domain.DefaultPageSize)),
	}

	res, err := p.jobs.List(r.Context(), filter)
	if err != nil {
		p.logger.Warn("loading jobs for page failed", "err", err)
		data.Error = "Failed to load jobs. Please try again."
	} else {
		p.fill(&data, q, res, selected)
	}

	if selected != "" && data.Detail == nil && err == nil {
		if got, gerr := p.jobs.Get(r.Context(), selected); gerr == nil {
			data.Detail = p.detail(NewJobView(got.Job), q)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		p.logger.Error("rendering page failed", "err", err)
	}
}

func (p *Page) fill(data *PageData, q url.Values, res job.ListResult, selected string) {
	now := p.clock()

	data.Loaded = true
	data.Total = res.Pagination.Total
	data.Source = res.Source

	for _, j := range res.Jobs {
		v := NewJobView(j)
		card := Card{
			Job:      v,
			Location: LocationText(v),
			Salary:   FormatSalary(v.SalaryRaw),
			Posted:   FormatDate(v.Posted(), now),
			Summary:  Truncate(v.Text(), cardDescriptionLength),
			Active:   v.ID == selected,
			Link:     withParam(q, "job", v.ID),
		}
		data.Cards = append(data.Cards, card)
		if card.Active {
			data.Detail = p.detail(v, q)
		}
	}

	pg := res.Pagination
	if pg.TotalPages > 1 {
		data.ShowNav = true
		for _, n := range PageWindow(pg.Page, pg.TotalPages) {
			data.Pages = append(data.Pages, PageLink{
				Number: n,
				Href:   withParam(q, "page", strconv.Itoa(n)),
				Active: n == pg.Page,
			})
		}
		if pg.Page > 1 {
			data.Prev = withParam(q, "page", strconv.Itoa(pg.Page-1))
		}
		if pg.Page < pg.TotalPages {
			data.Next = withParam(q, "page", strconv.Itoa(pg.Page+1))
		}
	}
}

func (p *Page) detail(v JobView, q url.Values) *Detail {
	return &Detail{
		Job:      v,
		Location: LocationText(v),
		Salary:   FormatSalary(v.SalaryRaw),
		Posted:   FormatDate(v.Posted(), p.clock()),
		Close:    withParam(q, "job", ""),
	}
}

// ParseFilter reads list parameters. location_filter is accepted as an alias of
// location; remote is a tri-state and anything but "true"/"false" means unset.
func ParseFilter(q url.Values) domain.JobFilter {
	f := domain.JobFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Location: strings.TrimSpace(q.Get("location")),
		Page:     atoi(q.Get("page")),
		Limit:    atoi(q.Get("limit")),
	}
	if f.Location == "" {
		f.Location = strings.TrimSpace(q.Get("location_filter"))
	}

	switch strings.ToLower(strings.TrimSpace(q.Get("remote"))) {
	case "true":
		v := true
		f.Remote = &v
	case "false":
		v := false
		f.Remote = &v
	}

	return f
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// withParam copies q with key set to value, or removed when value is empty
func withParam(q url.Values, key, value string) string {
	out := url.Values{}
	for k, vs := range q {
		out[k] = append([]string(nil), vs...)
	}
	if value == "" {
		out.Del(key)
	} else {
		out.Set(key, value)
	}
	if key == "page" {
		out.Del("job")
	}

	enc := out.Encode()
	if enc == "" {
		return "/"
	}
	return "/?" + enc
}
