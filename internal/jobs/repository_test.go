package jobs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/workdeck/workdeck/internal/jobs"
	"github.com/workdeck/workdeck/pkg/airtable"
)

type fakeSource struct {
	records   []airtable.Record
	listCalls int
	listErr   error
}

func (f *fakeSource) ListRecords(ctx context.Context, params airtable.ListParams) ([]airtable.Record, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeSource) GetRecord(ctx context.Context, id string) (*airtable.Record, error) {
	for i := range f.records {
		if f.records[i].ID == id {
			return &f.records[i], nil
		}
	}
	return nil, airtable.ErrNotFound
}

func record(id, title, company, status string, extra map[string]any) airtable.Record {
	fields := map[string]any{
		"title":       title,
		"company":     company,
		"type":        "Full-time",
		"apply_url":   "https://example.com/apply",
		"posted_date": "2025-04-01",
		"status":      status,
	}
	for k, v := range extra {
		fields[k] = v
	}
	return airtable.Record{ID: id, Fields: fields}
}

func TestRepositoryGetJobsNormalizes(t *testing.T) {
	src := &fakeSource{records: []airtable.Record{
		record("rec1", "Go Engineer", "Acme", "active", map[string]any{
			"salary_min":       float64(90_000),
			"salary_max":       float64(120_000),
			"salary_currency":  "USD (United States Dollar)",
			"salary_unit":      "year",
			"career_level":     []any{"Entry Level"},
			"languages":        []any{"English (en)", "Esperanto"},
			"workplace_type":   "Remote",
			"remote_region":    "Europe Only",
			"visa_sponsorship": "YES",
			"featured":         true,
		}),
	}}
	repo := jobs.NewRepository(src, nil)

	list, err := repo.GetJobs(context.Background())
	if err != nil {
		t.Fatalf("GetJobs: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 job, got %d", len(list))
	}

	j := list[0]
	if j.ID != "rec1" || j.Title != "Go Engineer" {
		t.Fatalf("unexpected job identity: %+v", j)
	}
	if !j.Salary.IsSet() || j.Salary.Currency != "USD" || j.Salary.Unit != jobs.UnitYear {
		t.Fatalf("salary not normalized: %+v", j.Salary)
	}
	if len(j.CareerLevels) != 1 || j.CareerLevels[0] != jobs.LevelEntryLevel {
		t.Fatalf("career levels = %v", j.CareerLevels)
	}
	if len(j.Languages) != 1 || j.Languages[0] != "en" {
		t.Fatalf("languages = %v", j.Languages)
	}
	if j.WorkplaceType != jobs.WorkplaceRemote || j.RemoteRegion != jobs.RegionEurope {
		t.Fatalf("workplace = %v / %v", j.WorkplaceType, j.RemoteRegion)
	}
	if j.VisaSponsorship != jobs.VisaYes || !j.Featured {
		t.Fatalf("visa/featured = %v / %v", j.VisaSponsorship, j.Featured)
	}
}

func TestRepositoryRequestCache(t *testing.T) {
	src := &fakeSource{records: []airtable.Record{
		record("rec1", "A", "X", "active", nil),
	}}
	repo := jobs.NewRepository(src, nil)
	ctx := jobs.WithRequestCache(context.Background())

	if _, err := repo.GetJobs(ctx); err != nil {
		t.Fatalf("first GetJobs: %v", err)
	}
	if _, err := repo.GetJobs(ctx); err != nil {
		t.Fatalf("second GetJobs: %v", err)
	}
	if src.listCalls != 1 {
		t.Fatalf("expected 1 store fetch within a request, got %d", src.listCalls)
	}

	// a new request cycle fetches again
	if _, err := repo.GetJobs(jobs.WithRequestCache(context.Background())); err != nil {
		t.Fatalf("third GetJobs: %v", err)
	}
	if src.listCalls != 2 {
		t.Fatalf("expected a fresh fetch per request, got %d calls", src.listCalls)
	}
}

func TestRepositoryNotConfigured(t *testing.T) {
	repo := jobs.NewRepository(nil, nil)

	if _, err := repo.GetJobs(context.Background()); !errors.Is(err, jobs.ErrNotConfigured) {
		t.Fatalf("GetJobs err = %v, want ErrNotConfigured", err)
	}
	if _, err := repo.GetJob(context.Background(), "rec1"); !errors.Is(err, jobs.ErrNotConfigured) {
		t.Fatalf("GetJob err = %v, want ErrNotConfigured", err)
	}
}

func TestRepositoryFetchErrorWrapped(t *testing.T) {
	src := &fakeSource{listErr: errors.New("boom")}
	repo := jobs.NewRepository(src, nil)

	_, err := repo.GetJobs(context.Background())
	if err == nil || errors.Is(err, jobs.ErrNotConfigured) {
		t.Fatalf("expected wrapped fetch error, got %v", err)
	}
}

func TestRepositoryGetJob(t *testing.T) {
	src := &fakeSource{records: []airtable.Record{
		record("rec1", "A", "X", "active", nil),
		record("rec2", "B", "Y", "inactive", nil),
	}}
	repo := jobs.NewRepository(src, nil)
	ctx := context.Background()

	j, err := repo.GetJob(ctx, "rec1")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if j.ID != "rec1" {
		t.Fatalf("got job %s", j.ID)
	}

	if _, err := repo.GetJob(ctx, "rec2"); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("inactive job err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetJob(ctx, "missing"); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("missing job err = %v, want ErrNotFound", err)
	}
}

func TestRepositoryGetJobBySlugFirstMatch(t *testing.T) {
	src := &fakeSource{records: []airtable.Record{
		record("rec1", "Go Engineer", "Acme", "active", nil),
		record("rec2", "Go Engineer", "Acme", "active", nil), // same slug, later in order
	}}
	repo := jobs.NewRepository(src, nil)

	j, err := repo.GetJobBySlug(context.Background(), "go-engineer-acme")
	if err != nil {
		t.Fatalf("GetJobBySlug: %v", err)
	}
	if j.ID != "rec1" {
		t.Fatalf("slug collision resolved to %s, want first match rec1", j.ID)
	}

	if _, err := repo.GetJobBySlug(context.Background(), "nope"); !errors.Is(err, jobs.ErrNotFound) {
		t.Fatalf("unknown slug err = %v, want ErrNotFound", err)
	}
}
