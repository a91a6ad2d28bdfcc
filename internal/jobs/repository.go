package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/workdeck/workdeck/pkg/airtable"
)

var (
	// ErrNotConfigured means no record-store credentials are present.
	ErrNotConfigured = errors.New("record store not configured")
	// ErrNotFound means the id or slug resolved to no active job.
	ErrNotFound = errors.New("job not found")
)

// Source is the slice of the record-store client the repository needs.
type Source interface {
	ListRecords(ctx context.Context, params airtable.ListParams) ([]airtable.Record, error)
	GetRecord(ctx context.Context, id string) (*airtable.Record, error)
}

// Repository fetches active records from the store and turns them into
// the canonical Job collection. It never panics on malformed records;
// the callers decide how to surface the typed errors it returns.
type Repository struct {
	source Source
	schema *RecordSchema
	logger *slog.Logger
}

// NewRepository builds a repository over source. A nil source models the
// unconfigured state and makes every fetch return ErrNotConfigured.
func NewRepository(source Source, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{source: source, schema: compileRecordSchema(logger), logger: logger}
}

// GetJobs returns every active job, newest first. Within one request the
// result is served from the request cache; the store is hit at most once
// per request cycle.
func (r *Repository) GetJobs(ctx context.Context) ([]Job, error) {
	if c := cacheFrom(ctx); c != nil {
		return c.jobs(ctx, r.fetchJobs)
	}
	return r.fetchJobs(ctx)
}

func (r *Repository) fetchJobs(ctx context.Context) ([]Job, error) {
	if r.source == nil {
		return nil, ErrNotConfigured
	}

	records, err := r.source.ListRecords(ctx, airtable.ListParams{
		FilterByFormula: "{status} = 'active'",
		SortField:       "posted_date",
		SortDirection:   "desc",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jobs: %w", err)
	}

	list := make([]Job, 0, len(records))
	for _, rec := range records {
		r.schema.Check(ctx, rec)
		list = append(list, FromRecord(rec))
	}
	return list, nil
}

// GetJob fetches one record by its store-assigned identifier and returns
// ErrNotFound when it is missing or not active.
func (r *Repository) GetJob(ctx context.Context, id string) (*Job, error) {
	if r.source == nil {
		return nil, ErrNotConfigured
	}

	rec, err := r.source.GetRecord(ctx, id)
	if err != nil {
		if errors.Is(err, airtable.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch job %s: %w", id, err)
	}

	if status, _ := rec.Fields["status"].(string); status != StatusActive {
		return nil, ErrNotFound
	}

	r.schema.Check(ctx, *rec)
	job := FromRecord(*rec)
	return &job, nil
}

// GetJobBySlug resolves a slug by linear scan over the active jobs in
// their current order. Identical title+company pairs collide; the first
// match wins, which is the documented behavior.
func (r *Repository) GetJobBySlug(ctx context.Context, slug string) (*Job, error) {
	all, err := r.GetJobs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if Slug(all[i].Title, all[i].Company) == slug {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

// FromRecord normalizes one raw record into a Job. Every field degrades
// to its documented fallback; no input can make this panic.
func FromRecord(rec airtable.Record) Job {
	f := rec.Fields
	if f == nil {
		f = map[string]any{}
	}

	var salary *Salary
	min, max := asFloat(f["salary_min"]), asFloat(f["salary_max"])
	if min != nil || max != nil {
		salary = &Salary{
			Min:      min,
			Max:      max,
			Currency: NormalizeCurrency(f["salary_currency"]),
			Unit:     normalizeSalaryUnit(f["salary_unit"]),
		}
	}

	return Job{
		ID:                      rec.ID,
		Title:                   asText(f["title"]),
		Company:                 asText(f["company"]),
		Type:                    normalizeJobType(f["type"]),
		Salary:                  salary,
		Description:             NormalizeMarkdown(f["description"]),
		Benefits:                NormalizeBenefits(f["benefits"]),
		ApplicationRequirements: NormalizeApplicationRequirements(f["application_requirements"]),
		ApplyURL:                asText(f["apply_url"]),
		PostedDate:              asText(f["posted_date"]),
		ValidThrough:            asText(f["valid_through"]),
		JobIdentifier:           asText(f["job_identifier"]),
		JobSourceName:           asText(f["job_source_name"]),
		Status:                  asText(f["status"]),
		CareerLevels:            NormalizeCareerLevels(f["career_level"]),
		VisaSponsorship:         NormalizeVisaSponsorship(f["visa_sponsorship"]),
		Featured:                asBool(f["featured"]),
		WorkplaceType:           NormalizeWorkplaceType(f["workplace_type"]),
		RemoteRegion:            NormalizeRemoteRegion(f["remote_region"]),
		TimezoneRequirements:    asText(f["timezone_requirements"]),
		WorkplaceCity:           asText(f["workplace_city"]),
		WorkplaceCountry:        asText(f["workplace_country"]),
		Languages:               NormalizeLanguages(f["languages"]),
		Skills:                  asText(f["skills"]),
		Qualifications:          asText(f["qualifications"]),
		EducationRequirements:   asText(f["education_requirements"]),
		ExperienceRequirements:  asText(f["experience_requirements"]),
		Industry:                asText(f["industry"]),
		OccupationalCategory:    asText(f["occupational_category"]),
		Responsibilities:        asText(f["responsibilities"]),
	}
}

// RequestCache memoizes one request cycle's job fetch. The web layer
// puts a fresh cache into each request context; repeated GetJobs calls
// during the render reuse the first result, errors included.
type RequestCache struct {
	mu     sync.Mutex
	loaded bool
	list   []Job
	err    error
}

func (c *RequestCache) jobs(ctx context.Context, fetch func(context.Context) ([]Job, error)) ([]Job, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.list, c.err = fetch(ctx)
		c.loaded = true
	}
	return c.list, c.err
}

type cacheKey struct{}

// WithRequestCache attaches a fresh request-scoped cache to ctx.
func WithRequestCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, cacheKey{}, &RequestCache{})
}

func cacheFrom(ctx context.Context) *RequestCache {
	c, _ := ctx.Value(cacheKey{}).(*RequestCache)
	return c
}
