package jobs_test

import (
	"testing"

	"github.com/workdeck/workdeck/internal/jobs"
)

func TestSlug(t *testing.T) {
	cases := []struct {
		title   string
		company string
		want    string
	}{
		{"Senior Go Engineer", "Acme Corp", "senior-go-engineer-acme-corp"},
		{"C++ Developer (Remote)", "Foo, Inc.", "c-developer-remote-foo-inc"},
		{"  Staff   Engineer  ", "Bar", "staff-engineer-bar"},
		{"Engineer", "", "engineer"},
		{"", "", ""},
		{"---", "!!!", ""},
		{"Data Scientist", "Ümlaut GmbH", "data-scientist-mlaut-gmbh"},
	}

	for _, tc := range cases {
		if got := jobs.Slug(tc.title, tc.company); got != tc.want {
			t.Fatalf("Slug(%q, %q) = %q, want %q", tc.title, tc.company, got, tc.want)
		}
	}
}

func TestSlugDeterministic(t *testing.T) {
	a := jobs.Slug("DevOps Engineer", "Cloudy")
	b := jobs.Slug("DevOps Engineer", "Cloudy")
	if a != b {
		t.Fatalf("slug not deterministic: %q vs %q", a, b)
	}
}
