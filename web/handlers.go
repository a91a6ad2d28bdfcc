package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/workdeck/workdeck/internal/alerts"
	"github.com/workdeck/workdeck/internal/config"
	"github.com/workdeck/workdeck/internal/feeds"
	"github.com/workdeck/workdeck/internal/jobs"
)

const defaultPerPage = 10

// Server renders the site. All pages read from the snapshot; nothing in the
// request path talks to the record store directly once the snapshot is warm.
type Server struct {
	cfg       *config.Config
	repo      *jobs.Repository
	snapshot  *Snapshot
	feeds     *feeds.Builder
	alerts    *alerts.Service
	limiter   *RateLimiter
	pages     map[string]*template.Template
	version   string
	buildTime string
}

func NewServer(cfg *config.Config, repo *jobs.Repository, alertSvc *alerts.Service, version, buildTime string) (*Server, error) {
	pages, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:       cfg,
		repo:      repo,
		snapshot:  NewSnapshot(repo, logger),
		feeds:     feeds.New(cfg),
		alerts:    alertSvc,
		limiter:   NewRateLimiter(cfg.RateLimit),
		pages:     pages,
		version:   version,
		buildTime: buildTime,
	}, nil
}

// Snapshot exposes the cached collection so the caller can schedule refreshes.
func (s *Server) Snapshot() *Snapshot { return s.snapshot }

func (s *Server) Close() error {
	s.snapshot.Stop()
	return s.limiter.Close()
}

// baseData carries what the layout needs on every page.
type baseData struct {
	Site  *config.Config
	Title string
}

func (s *Server) base(title string) baseData {
	if title == "" {
		title = s.cfg.Title
	} else {
		title = title + " | " + s.cfg.Title
	}
	return baseData{Site: s.cfg, Title: title}
}

// JobView is a job prepared for rendering: formatted salary, resolved
// location, display names instead of codes.
type JobView struct {
	Title     string
	Company   string
	URL       string
	ApplyURL  string
	Location  string
	Type      string
	Salary    string
	USDApprox string
	Posted    string
	Featured  bool
	Visa      string
	Levels    []string
	Languages []string

	Description template.HTML
	Benefits    template.HTML
}

func (s *Server) jobView(j jobs.Job) JobView {
	v := JobView{
		Title:    j.Title,
		Company:  j.Company,
		URL:      "/jobs/" + jobs.Slug(j.Title, j.Company),
		ApplyURL: j.ApplyURL,
		Location: jobLocation(j),
		Type:     string(j.Type),
		Salary:   jobs.FormatSalary(j.Salary, true),
		Featured: j.Featured,
		Visa:     string(j.VisaSponsorship),
	}

	if approx := jobs.FormatUSDApproximation(j.Salary); approx != "" {
		v.USDApprox = approx
	}
	if t := jobs.PostedTime(j); !t.IsZero() {
		v.Posted = t.Format("January 2, 2006")
	}
	for _, lvl := range j.CareerLevels {
		if lvl != jobs.LevelNotSpecified {
			v.Levels = append(v.Levels, jobs.CareerLevelName(lvl))
		}
	}
	for _, code := range j.Languages {
		v.Languages = append(v.Languages, jobs.LanguageName(code))
	}

	return v
}

func jobLocation(j jobs.Job) string {
	place := j.WorkplaceCity
	if j.WorkplaceCountry != "" {
		if place != "" {
			place += ", "
		}
		place += j.WorkplaceCountry
	}

	switch j.WorkplaceType {
	case jobs.WorkplaceRemote:
		if j.RemoteRegion != "" {
			return "Remote (" + string(j.RemoteRegion) + ")"
		}
		return "Remote"
	case jobs.WorkplaceHybrid:
		if place != "" {
			return place + " (Hybrid)"
		}
		return "Hybrid"
	default:
		if place != "" {
			return place
		}
		return "Not specified"
	}
}

// parseFilters reads facet selections from the query string. Unknown values
// fall away instead of erroring so stale links keep working.
func parseFilters(r *http.Request) (jobs.Filters, jobs.SortOrder, int, int) {
	q := r.URL.Query()

	var f jobs.Filters
	f.Search = strings.TrimSpace(q.Get("q"))
	f.RemoteOnly = q.Get("remote") == "true"
	f.VisaOnly = q.Get("visa") == "true"

	for _, raw := range splitParam(q["types"]) {
		if t := jobs.JobType(raw); jobs.ValidJobType(t) {
			f.Types = append(f.Types, t)
		}
	}
	for _, raw := range splitParam(q["roles"]) {
		for _, lvl := range jobs.CareerLevelList {
			if strings.EqualFold(raw, string(lvl)) {
				f.Levels = append(f.Levels, lvl)
				break
			}
		}
	}
	for _, raw := range splitParam(q["salary"]) {
		for _, bucket := range jobs.SalaryBuckets {
			if raw == bucket {
				f.SalaryBuckets = append(f.SalaryBuckets, bucket)
				break
			}
		}
	}
	for _, raw := range splitParam(q["languages"]) {
		if code := jobs.LanguageCode(strings.ToLower(raw)); jobs.ValidLanguage(code) {
			f.Languages = append(f.Languages, code)
		}
	}

	order := jobs.ParseSortOrder(q.Get("sort"))

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage < 1 {
		perPage = defaultPerPage
	}

	return f, order, page, perPage
}

func splitParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

type listingData struct {
	baseData
	Jobs       []JobView
	Total      int
	Page       int
	PerPage    int
	TotalPages int
	PrevPage   int
	NextPage   int
	Query      string
	Sort       string
	Buckets    []string
	Types      []jobs.JobType
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	f, order, page, perPage := parseFilters(r)

	all := s.snapshot.Jobs(r.Context())
	matched := jobs.Apply(all, f, order)
	pageJobs := jobs.Paginate(matched, page, perPage)

	views := make([]JobView, 0, len(pageJobs))
	for _, j := range pageJobs {
		views = append(views, s.jobView(j))
	}

	totalPages := (len(matched) + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}

	s.render(w, http.StatusOK, "home.html", listingData{
		baseData:   s.base(""),
		Jobs:       views,
		Total:      len(matched),
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
		Query:      f.Search,
		Sort:       string(order),
		Buckets:    jobs.SalaryBuckets,
		Types:      jobs.JobTypes,
	})
}

type countEntry struct {
	Name  string
	URL   string
	Count int
}

type directoryData struct {
	baseData
	Total     int
	Types     []countEntry
	Levels    []countEntry
	Languages []countEntry
	Locations []countEntry
	Remote    int
}

func sortEntries(entries []countEntry) {
	sort.Slice(entries, func(i, k int) bool {
		if entries[i].Count != entries[k].Count {
			return entries[i].Count > entries[k].Count
		}
		return entries[i].Name < entries[k].Name
	})
}

func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	all := s.snapshot.Jobs(r.Context())
	counts := jobs.Count(all)

	data := directoryData{
		baseData: s.base("Browse Jobs"),
		Total:    counts.Total,
		Remote:   counts.Remote,
	}

	for t, n := range counts.Types {
		data.Types = append(data.Types, countEntry{
			Name:  string(t),
			URL:   "/jobs/type/" + strings.ToLower(string(t)),
			Count: n,
		})
	}
	for lvl, n := range counts.Levels {
		data.Levels = append(data.Levels, countEntry{
			Name:  jobs.CareerLevelName(lvl),
			URL:   "/jobs/level/" + strings.ToLower(string(lvl)),
			Count: n,
		})
	}
	for code, n := range counts.Languages {
		data.Languages = append(data.Languages, countEntry{
			Name:  jobs.LanguageName(code),
			URL:   "/jobs/language/" + string(code),
			Count: n,
		})
	}
	for country, n := range counts.Countries {
		data.Locations = append(data.Locations, countEntry{
			Name:  country,
			URL:   "/jobs/location/" + jobs.Slug(country, ""),
			Count: n,
		})
	}

	sortEntries(data.Types)
	sortEntries(data.Levels)
	sortEntries(data.Languages)
	sortEntries(data.Locations)

	s.render(w, http.StatusOK, "directory.html", data)
}

type jobDetailData struct {
	baseData
	Job                     JobView
	ApplicationRequirements string
	Skills                  string
	Qualifications          string
	Industry                string
}

func (s *Server) handleJobDetail(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	job, err := s.repo.GetJobBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) || errors.Is(err, jobs.ErrNotConfigured) {
			s.handleNotFound(w, r)
			return
		}
		logger.Error("job lookup failed", slog.String("slug", slug), slog.String("error", err.Error()))
		s.handleNotFound(w, r)
		return
	}

	view := s.jobView(*job)
	view.Description = renderMarkdown(job.Description)
	view.Benefits = renderMarkdown(job.Benefits)

	s.render(w, http.StatusOK, "job.html", jobDetailData{
		baseData:                s.base(job.Title + " at " + job.Company),
		Job:                     view,
		ApplicationRequirements: job.ApplicationRequirements,
		Skills:                  job.Skills,
		Qualifications:          job.Qualifications,
		Industry:                job.Industry,
	})
}

type categoryData struct {
	baseData
	Heading string
	Jobs    []JobView
	Total   int
}

func (s *Server) renderCategory(w http.ResponseWriter, r *http.Request, heading string, pred func(jobs.Job) bool) {
	all := s.snapshot.Jobs(r.Context())

	var matched []jobs.Job
	for _, j := range all {
		if pred(j) {
			matched = append(matched, j)
		}
	}
	matched = jobs.Apply(matched, jobs.Filters{}, jobs.SortNewest)

	views := make([]JobView, 0, len(matched))
	for _, j := range matched {
		views = append(views, s.jobView(j))
	}

	s.render(w, http.StatusOK, "category.html", categoryData{
		baseData: s.base(heading),
		Heading:  heading,
		Jobs:     views,
		Total:    len(views),
	})
}

func (s *Server) handleTypePage(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["type"]

	var match jobs.JobType
	for _, t := range jobs.JobTypes {
		if strings.EqualFold(raw, string(t)) {
			match = t
			break
		}
	}
	if match == "" {
		s.handleNotFound(w, r)
		return
	}

	s.renderCategory(w, r, string(match)+" Jobs", func(j jobs.Job) bool {
		return j.Type == match
	})
}

func (s *Server) handleLevelPage(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["level"]

	var match jobs.CareerLevel
	for _, lvl := range jobs.CareerLevelList {
		if strings.EqualFold(raw, string(lvl)) {
			match = lvl
			break
		}
	}
	if match == "" || match == jobs.LevelNotSpecified {
		s.handleNotFound(w, r)
		return
	}

	s.renderCategory(w, r, jobs.CareerLevelName(match)+" Jobs", func(j jobs.Job) bool {
		for _, lvl := range j.CareerLevels {
			if lvl == match {
				return true
			}
		}
		return false
	})
}

func (s *Server) handleLanguagePage(w http.ResponseWriter, r *http.Request) {
	code := jobs.LanguageCode(strings.ToLower(mux.Vars(r)["language"]))
	if !jobs.ValidLanguage(code) {
		s.handleNotFound(w, r)
		return
	}

	s.renderCategory(w, r, jobs.LanguageName(code)+" Jobs", func(j jobs.Job) bool {
		for _, c := range j.Languages {
			if c == code {
				return true
			}
		}
		return false
	})
}

func (s *Server) handleLocationPage(w http.ResponseWriter, r *http.Request) {
	loc := mux.Vars(r)["location"]

	if loc == "remote" {
		s.renderCategory(w, r, "Remote Jobs", func(j jobs.Job) bool {
			return j.WorkplaceType == jobs.WorkplaceRemote
		})
		return
	}

	// Countries are addressed by their slugged name.
	all := s.snapshot.Jobs(r.Context())
	var country string
	for _, j := range all {
		if j.WorkplaceCountry != "" && jobs.Slug(j.WorkplaceCountry, "") == loc {
			country = j.WorkplaceCountry
			break
		}
	}
	if country == "" {
		s.handleNotFound(w, r)
		return
	}

	s.renderCategory(w, r, "Jobs in "+country, func(j jobs.Job) bool {
		return j.WorkplaceCountry == country
	})
}

type pricingData struct {
	baseData
	Pricing config.PricingConfig
}

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Pricing.Enabled {
		s.handleNotFound(w, r)
		return
	}
	s.render(w, http.StatusOK, "pricing.html", pricingData{
		baseData: s.base(s.cfg.Pricing.Title),
		Pricing:  s.cfg.Pricing,
	})
}

type faqEntry struct {
	Question string
	Answer   template.HTML
}

type faqCategoryView struct {
	Title string
	Items []faqEntry
}

type faqData struct {
	baseData
	FAQ        config.FAQConfig
	Categories []faqCategoryView
}

func (s *Server) handleFAQ(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.FAQ.Enabled {
		s.handleNotFound(w, r)
		return
	}

	data := faqData{
		baseData: s.base(s.cfg.FAQ.Title),
		FAQ:      s.cfg.FAQ,
	}
	for _, cat := range s.cfg.FAQ.Categories {
		view := faqCategoryView{Title: cat.Title}
		for _, item := range cat.Items {
			answer := template.HTML(template.HTMLEscapeString(item.Answer))
			if item.RichText {
				answer = renderMarkdown(item.Answer)
			}
			view.Items = append(view.Items, faqEntry{Question: item.Question, Answer: answer})
		}
		data.Categories = append(data.Categories, view)
	}

	s.render(w, http.StatusOK, "faq.html", data)
}

type alertsData struct {
	baseData
	Enabled bool
	Message string
	IsError bool
}

func (s *Server) handleAlertsPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "alerts.html", alertsData{
		baseData: s.base("Job Alerts"),
		Enabled:  s.alerts.Enabled(),
	})
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	name := strings.TrimSpace(r.PostFormValue("name"))

	err := s.alerts.Subscribe(r.Context(), email, name)
	switch {
	case err == nil:
		s.render(w, http.StatusOK, "alerts.html", alertsData{
			baseData: s.base("Job Alerts"),
			Enabled:  true,
			Message:  "You're subscribed. We'll email you when new jobs land.",
		})
	case errors.Is(err, alerts.ErrInvalidEmail):
		s.render(w, http.StatusBadRequest, "alerts.html", alertsData{
			baseData: s.base("Job Alerts"),
			Enabled:  true,
			Message:  "That email address doesn't look right.",
			IsError:  true,
		})
	case errors.Is(err, alerts.ErrDisabled):
		s.handleNotFound(w, r)
	default:
		logger.Error("subscription failed", slog.String("error", err.Error()))
		s.render(w, http.StatusBadGateway, "alerts.html", alertsData{
			baseData: s.base("Job Alerts"),
			Enabled:  true,
			Message:  "Something went wrong on our side. Please try again later.",
			IsError:  true,
		})
	}
}

func (s *Server) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	email, err := s.alerts.VerifyUnsubscribeToken(token)
	if err != nil {
		s.render(w, http.StatusBadRequest, "alerts.html", alertsData{
			baseData: s.base("Job Alerts"),
			Enabled:  s.alerts.Enabled(),
			Message:  "This unsubscribe link is invalid or has expired.",
			IsError:  true,
		})
		return
	}

	logger.Info("unsubscribed", slog.String("email", email))
	s.render(w, http.StatusOK, "alerts.html", alertsData{
		baseData: s.base("Job Alerts"),
		Enabled:  s.alerts.Enabled(),
		Message:  fmt.Sprintf("%s has been unsubscribed from job alerts.", email),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusNotFound, "notfound.html", s.base("Page Not Found"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.snapshot.mu.RLock()
	loaded := s.snapshot.loaded
	count := len(s.snapshot.jobs)
	fetched := s.snapshot.fetchedAt
	s.snapshot.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"snapshot_loaded":  loaded,
		"jobs":             count,
		"last_refreshed":   fetched.Format(time.RFC3339),
		"store_configured": s.cfg.Store.Configured(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version":    s.version,
		"build_time": s.buildTime,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}
