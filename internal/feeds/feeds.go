// Package feeds builds the RSS/Atom/JSON syndication documents from the
// normalized job collection. It consumes fully normalized jobs and never
// re-normalizes fields itself.
package feeds

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/workdeck/workdeck/internal/config"
	"github.com/workdeck/workdeck/internal/jobs"
)

// Builder renders feeds for one site configuration.
type Builder struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Builder {
	return &Builder{cfg: cfg}
}

// Enabled reports whether the given format ("rss", "atom", "json") is
// switched on in configuration.
func (b *Builder) Enabled(format string) bool {
	if !b.cfg.Feeds.Enabled {
		return false
	}
	switch format {
	case "rss":
		return b.cfg.Feeds.RSS
	case "atom":
		return b.cfg.Feeds.Atom
	case "json":
		return b.cfg.Feeds.JSON
	default:
		return false
	}
}

// Build assembles the feed from the job collection. Only active jobs are
// included; everything else is skipped, not rejected.
func (b *Builder) Build(all []jobs.Job) *feeds.Feed {
	title := b.cfg.Feeds.Title
	if title == "" {
		title = b.cfg.Title + " | Job Feed"
	}

	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: b.cfg.URL},
		Description: b.cfg.Description,
		Id:          b.cfg.URL,
		Created:     time.Now(),
		Copyright:   fmt.Sprintf("All rights reserved %d", time.Now().Year()),
	}

	for _, job := range all {
		if job.Status != jobs.StatusActive {
			continue
		}

		jobURL := b.cfg.URL + "/jobs/" + jobs.Slug(job.Title, job.Company)
		desc := b.jobDescription(job)

		created := jobs.PostedTime(job)
		if created.IsZero() {
			created = time.Now()
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Title:       fmt.Sprintf("%s at %s", job.Title, job.Company),
			Link:        &feeds.Link{Href: jobURL},
			Id:          jobURL,
			Description: desc,
			Content:     desc,
			Author:      &feeds.Author{Name: job.Company},
			Created:     created,
		})
	}

	return feed
}

// jobDescription renders the rich markdown body feed readers show.
func (b *Builder) jobDescription(job jobs.Job) string {
	location := string(job.WorkplaceType)
	if job.WorkplaceCity != "" {
		location += " - " + job.WorkplaceCity
	}
	if job.WorkplaceCountry != "" {
		location += ", " + job.WorkplaceCountry
	}

	salaryLine := "Not specified"
	if job.Salary.IsSet() {
		salaryLine = jobs.FormatSalary(job.Salary, true)
	}

	length := b.cfg.Feeds.DescriptionLength
	if length <= 0 {
		length = 500
	}
	body := job.Description
	if runes := []rune(body); len(runes) > length {
		body = string(runes[:length]) + "..."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s at %s\n\n", job.Title, job.Company)
	fmt.Fprintf(&sb, "**Type:** %s\n", job.Type)
	fmt.Fprintf(&sb, "**Location:** %s\n", location)
	fmt.Fprintf(&sb, "**Salary:** %s\n", salaryLine)
	fmt.Fprintf(&sb, "**Posted:** %s\n\n", formatJobDate(job.PostedDate))
	fmt.Fprintf(&sb, "%s\n\n", body)
	fmt.Fprintf(&sb, "**Apply Now:** %s\n", job.ApplyURL)
	return sb.String()
}

func formatJobDate(posted string) string {
	if posted == "" {
		return "Date not available"
	}
	t := jobs.PostedTime(jobs.Job{PostedDate: posted})
	if t.IsZero() {
		return "Invalid date"
	}
	return t.Format("January 2, 2006")
}

// RSS renders the feed as RSS 2.0.
func (b *Builder) RSS(all []jobs.Job) (string, error) {
	return b.Build(all).ToRss()
}

// Atom renders the feed as Atom.
func (b *Builder) Atom(all []jobs.Job) (string, error) {
	return b.Build(all).ToAtom()
}

// JSON renders the feed as JSON Feed v1.
func (b *Builder) JSON(all []jobs.Job) (string, error) {
	return b.Build(all).ToJSON()
}
