package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/workdeck/workdeck/internal/alerts"
	"github.com/workdeck/workdeck/internal/config"
	"github.com/workdeck/workdeck/internal/jobs"
	"github.com/workdeck/workdeck/pkg/airtable"
)

type fakeSource struct {
	records []airtable.Record
}

// ListRecords honors the status formula the repository sends, like the
// hosted store does.
func (f *fakeSource) ListRecords(ctx context.Context, params airtable.ListParams) ([]airtable.Record, error) {
	if params.FilterByFormula == "" {
		return f.records, nil
	}
	var out []airtable.Record
	for _, rec := range f.records {
		if status, _ := rec.Fields["status"].(string); status == "active" {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeSource) GetRecord(ctx context.Context, id string) (*airtable.Record, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			r := rec
			return &r, nil
		}
	}
	return nil, airtable.ErrNotFound
}

func sampleRecords() []airtable.Record {
	return []airtable.Record{
		{
			ID: "rec1",
			Fields: map[string]any{
				"title":           "Backend Engineer",
				"company":         "Acme",
				"type":            "Full-time",
				"status":          "active",
				"apply_url":       "https://acme.example/apply",
				"posted_date":     "2026-01-05",
				"description":     "Build **services**.",
				"salary_min":      float64(140000),
				"salary_max":      float64(180000),
				"salary_currency": "USD",
				"salary_unit":     "year",
				"career_level":    []any{"Senior"},
				"workplace_type":  "Remote",
				"remote_region":   "US Only",
				"languages":       []any{"English (en)"},
				"featured":        true,
			},
		},
		{
			ID: "rec2",
			Fields: map[string]any{
				"title":             "Data Scientist",
				"company":           "Umlaut GmbH",
				"type":              "Contract",
				"status":            "active",
				"apply_url":         "https://umlaut.example/apply",
				"posted_date":       "2026-02-01",
				"description":       "Forecasting work.",
				"workplace_type":    "Hybrid",
				"workplace_city":    "Berlin",
				"workplace_country": "Germany",
				"languages":         []any{"German (de)"},
			},
		},
		{
			ID: "rec3",
			Fields: map[string]any{
				"title":     "Closed Role",
				"company":   "Acme",
				"status":    "inactive",
				"apply_url": "https://acme.example/closed",
			},
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Addr:        ":0",
		Title:       "Workdeck",
		Description: "Find your next role.",
		URL:         "https://workdeck.example",
		Feeds: config.FeedConfig{
			Enabled:           true,
			RSS:               true,
			Atom:              true,
			JSON:              false,
			DescriptionLength: 500,
		},
		Pricing: config.PricingConfig{
			Enabled: true,
			Title:   "Pricing",
			Plans:   []config.Plan{{Name: "Free", Price: 0, CTALabel: "Start", CTAURL: "/"}},
		},
		FAQ: config.FAQConfig{
			Enabled: true,
			Title:   "FAQ",
			Categories: []config.FAQCategory{{
				Title: "General",
				Items: []config.FAQItem{{Question: "Is it free?", Answer: "Yes."}},
			}},
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, src jobs.Source) http.Handler {
	t.Helper()

	if cfg == nil {
		cfg = testConfig()
	}

	repo := jobs.NewRepository(src, nil)
	alertSvc := alerts.NewService(cfg.Alerts, nil, nil)

	srv, err := NewServer(cfg, repo, alertSvc, "test", "now")
	if err != nil {
		t.Fatalf("NewServer returned error: %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })

	return SetupRoutes(srv)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHomeListsActiveJobs(t *testing.T) {
	h := newTestServer(t, nil, &fakeSource{records: sampleRecords()})

	rr := get(t, h, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "Backend Engineer") {
		t.Errorf("expected featured job in listing")
	}
	if !strings.Contains(body, "Data Scientist") {
		t.Errorf("expected second job in listing")
	}
	if strings.Contains(body, "Closed Role") {
		t.Errorf("inactive job should not be listed")
	}
	if !strings.Contains(body, "$140k-180k/year (USD)") {
		t.Errorf("expected formatted salary, got body without it")
	}
	if !strings.Contains(body, "2 jobs found") {
		t.Errorf("expected total count in body")
	}
}

func TestHomeFeaturedFirst(t *testing.T) {
	h := newTestServer(t, nil, &fakeSource{records: sampleRecords()})

	body := get(t, h, "/").Body.String()

	// rec2 is newer but rec1 is featured, so rec1 renders first.
	featured := strings.Index(body, "Backend Engineer")
	other := strings.Index(body, "Data Scientist")
	if featured == -1 || other == -1 || featured > other {
		t.Fatalf("expected featured job before newer job (featured=%d other=%d)", featured, other)
	}
}

func TestHomeSearchFilter(t *testing.T) {
	h := newTestServer(t, nil, &fakeSource{records: sampleRecords()})

	body := get(t, h, "/?q=berlin").Body.String()
	if strings.Contains(body, "Backend Engineer") {
		t.Errorf("search should exclude non-matching job")
	}
	if !strings.Contains(body, "Data Scientist") {
		t.Errorf("search should keep matching job")
	}
}

func TestHomeTypeFilter(t *testing.T) {
	h := newTestServer(t, nil, &fakeSource{records: sampleRecords()})

	body := get(t, h, "/?types=Contract").Body.String()
	if strings.Contains(body, "Backend Engineer") {
		t.Errorf("type filter should exclude full-time job")
	}
	if !strings.Contains(body, "Data Scientist") {
		t.Errorf("type filter should keep contract job")
	}
}

func TestJobDetailBySlug(t *testing.T) {
	h := newTestServer(t, nil, &fakeSource{records: sampleRecords()})

	rr := get(t, h, "/jobs/backend-engineer-acme")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "https://acme.example/apply") {
		t.Errorf("expected apply link on detail page")
	}
	if !strings.Contains(body, "<strong>services</strong>") {
		t.Errorf("expected markdown-rendered description")
	}
	if !strings.Contains(body, "Remote (US Only)") {
		t.Errorf("expected resolved location")
	}
}

func TestJobDetailUnknownSlug(t *testing.T) {
	h := newTestServer(t, nil, &fakeSource{records: sampleRecords()})

	rr := get(t, h, "/jobs/no-such-job")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDirectoryCounts(t *testing.T) {
	h := newTestServer(t, nil, &fakeSource{records: sampleRecords()})

	rr := get(t, h, "/jobs")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "Full-time") || !strings.Contains(body, "Contract") {
		t.Errorf("expected type entries in directory")
	}
	if !strings.Contains(body, "Germany") {
		t.Errorf("expected country entry in directory")
	}
}

func TestCategoryPages(t *testing.T) {
	h := newTestServer(t, nil, &fakeSource{records: sampleRecords()})

	tests := []struct {
		path    string
		want    string
		exclude string
	}{
		{"/jobs/type/full-time", "Backend Engineer", "Data Scientist"},
		{"/jobs/level/senior", "Backend Engineer", "Data Scientist"},
		{"/jobs/language/de", "Data Scientist", "Backend Engineer"},
		{"/jobs/location/remote", "Backend Engineer", "Data Scientist"},
		{"/jobs/location/germany", "Data Scientist", "Backend Engineer"},
	}

	for _, tc := range tests {
		rr := get(t, h, tc.path)
		if rr.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", tc.path, rr.Code)
			continue
		}
		body := rr.Body.String()
		if !strings.Contains(body, tc.want) {
			t.Errorf("%s: expected %q in body", tc.path, tc.want)
		}
		if strings.Contains(body, tc.exclude) {
			t.Errorf("%s: did not expect %q in body", tc.path, tc.exclude)
		}
	}
}

func TestCategoryPageUnknown(t *testing.T) {
	h := newTestServer(t, nil, &fakeSource{records: sampleRecords()})

	for _, path := range []string{"/jobs/type/gig", "/jobs/level/wizard", "/jobs/language/xx"} {
		if rr := get(t, h, path); rr.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404, got %d", path, rr.Code)
		}
	}
}

func TestFeedEndpoints(t *testing.T) {
	h := newTestServer(t, nil, &fakeSource{records: sampleRecords()})

	rr := get(t, h, "/feed.xml")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for rss, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.Contains(ct, "rss") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "Backend Engineer at Acme") {
		t.Errorf("expected job item in feed")
	}

	// JSON feed is disabled in the test config.
	if rr := get(t, h, "/feed.json"); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for disabled json feed, got %d", rr.Code)
	}
}

func TestPricingAndFAQ(t *testing.T) {
	h := newTestServer(t, nil, &fakeSource{records: sampleRecords()})

	if rr := get(t, h, "/pricing"); rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Free") {
		t.Errorf("expected pricing page with plan, got %d", rr.Code)
	}
	if rr := get(t, h, "/faq"); rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Is it free?") {
		t.Errorf("expected faq page with question, got %d", rr.Code)
	}

	cfg := testConfig()
	cfg.Pricing.Enabled = false
	h2 := newTestServer(t, cfg, &fakeSource{records: nil})
	if rr := get(t, h2, "/pricing"); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 when pricing disabled, got %d", rr.Code)
	}
}

func TestHealthAndVersion(t *testing.T) {
	h := newTestServer(t, nil, &fakeSource{records: sampleRecords()})

	rr := get(t, h, "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"healthy"`) {
		t.Errorf("expected healthy status, got %s", rr.Body.String())
	}

	rr = get(t, h, "/version")
	if !strings.Contains(rr.Body.String(), `"version":"test"`) {
		t.Errorf("expected version in response, got %s", rr.Body.String())
	}
}

func TestSubscribeFlow(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer provider.Close()

	cfg := testConfig()
	cfg.Alerts = config.AlertsConfig{
		Enabled:     true,
		ProviderURL: provider.URL,
		JWTSecret:   "test-secret",
	}
	h := newTestServer(t, cfg, &fakeSource{records: nil})

	form := url.Values{"email": {"jo@example.com"}, "name": {"Jo"}}
	req := httptest.NewRequest("POST", "/job-alerts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "subscribed") {
		t.Errorf("expected confirmation message")
	}

	// Invalid email renders an error with a 400.
	form = url.Values{"email": {"not-an-email"}}
	req = httptest.NewRequest("POST", "/job-alerts", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %d", rr.Code)
	}
}

func TestParseFilters(t *testing.T) {
	req := httptest.NewRequest("GET", "/?q=go&types=Full-time,Contract&roles=senior&remote=true&visa=true&languages=en&sort=salary&page=2&per_page=5", nil)

	f, order, page, perPage := parseFilters(req)

	if f.Search != "go" {
		t.Errorf("expected search 'go', got %q", f.Search)
	}
	if len(f.Types) != 2 {
		t.Errorf("expected 2 types, got %v", f.Types)
	}
	if len(f.Levels) != 1 || f.Levels[0] != jobs.LevelSenior {
		t.Errorf("expected senior level, got %v", f.Levels)
	}
	if !f.RemoteOnly || !f.VisaOnly {
		t.Errorf("expected remote and visa flags set")
	}
	if len(f.Languages) != 1 || f.Languages[0] != "en" {
		t.Errorf("expected language en, got %v", f.Languages)
	}
	if order != jobs.SortSalary {
		t.Errorf("expected salary sort, got %s", order)
	}
	if page != 2 || perPage != 5 {
		t.Errorf("expected page 2 per_page 5, got %d %d", page, perPage)
	}

	// Unknown facet values fall away.
	req = httptest.NewRequest("GET", "/?types=Gig&languages=zz&sort=bogus&page=-3", nil)
	f, order, page, _ = parseFilters(req)
	if len(f.Types) != 0 || len(f.Languages) != 0 {
		t.Errorf("expected unknown facets dropped, got %v %v", f.Types, f.Languages)
	}
	if order != jobs.SortNewest {
		t.Errorf("expected default sort, got %s", order)
	}
	if page != 1 {
		t.Errorf("expected page clamped to 1, got %d", page)
	}
}
