package jobs

import (
	"sort"
	"strings"
	"time"
)

// SortOrder selects how a listing is ordered before featured pinning.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
	SortSalary SortOrder = "salary"
)

// ParseSortOrder maps a query-param value to a sort order, defaulting to
// newest.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortOldest, SortSalary:
		return SortOrder(s)
	default:
		return SortNewest
	}
}

// Salary bucket labels, also used verbatim as filter parameter values.
const (
	BucketUnder50K  = "< $50K"
	Bucket50To100K  = "$50K - $100K"
	Bucket100To200K = "$100K - $200K"
	BucketOver200K  = "> $200K"
)

// SalaryBuckets lists the four buckets in ascending order.
var SalaryBuckets = []string{BucketUnder50K, Bucket50To100K, Bucket100To200K, BucketOver200K}

func bucketMatches(bucket string, annual float64) bool {
	switch bucket {
	case BucketUnder50K:
		return annual < 50_000
	case Bucket50To100K:
		return annual >= 50_000 && annual <= 100_000
	case Bucket100To200K:
		return annual > 100_000 && annual <= 200_000
	case BucketOver200K:
		return annual > 200_000
	default:
		return false
	}
}

// Filters is one listing request's facet selection. Empty slices and
// false flags mean "no constraint on that dimension".
type Filters struct {
	Search        string
	Types         []JobType
	Levels        []CareerLevel
	RemoteOnly    bool
	VisaOnly      bool
	SalaryBuckets []string
	Languages     []LanguageCode
}

// Empty reports whether no facet is active.
func (f Filters) Empty() bool {
	return f.Search == "" && len(f.Types) == 0 && len(f.Levels) == 0 &&
		!f.RemoteOnly && !f.VisaOnly && len(f.SalaryBuckets) == 0 && len(f.Languages) == 0
}

// Apply runs the listing pipeline over the full job collection: search,
// facet filters, sort, then featured pinning. The stage order is fixed.
// The input slice is never mutated.
func Apply(all []Job, f Filters, order SortOrder) []Job {
	filtered := make([]Job, len(all))
	copy(filtered, all)

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		filtered = keep(filtered, func(j Job) bool {
			return strings.Contains(strings.ToLower(j.Title), needle) ||
				strings.Contains(strings.ToLower(j.Company), needle) ||
				strings.Contains(strings.ToLower(j.WorkplaceCity), needle) ||
				strings.Contains(strings.ToLower(j.WorkplaceCountry), needle)
		})
	}

	if len(f.Types) > 0 {
		filtered = keep(filtered, func(j Job) bool {
			for _, t := range f.Types {
				if j.Type == t {
					return true
				}
			}
			return false
		})
	}

	if len(f.Levels) > 0 {
		filtered = keep(filtered, func(j Job) bool {
			for _, want := range f.Levels {
				for _, have := range j.CareerLevels {
					if want == have {
						return true
					}
				}
			}
			return false
		})
	}

	if f.RemoteOnly {
		filtered = keep(filtered, func(j Job) bool {
			return j.WorkplaceType == WorkplaceRemote
		})
	}

	if f.VisaOnly {
		filtered = keep(filtered, func(j Job) bool {
			return j.VisaSponsorship == VisaYes
		})
	}

	if len(f.SalaryBuckets) > 0 {
		filtered = keep(filtered, func(j Job) bool {
			if !j.Salary.IsSet() {
				return false
			}
			annual := NormalizeAnnualSalary(j.Salary)
			for _, b := range f.SalaryBuckets {
				if bucketMatches(b, annual) {
					return true
				}
			}
			return false
		})
	}

	if len(f.Languages) > 0 {
		filtered = keep(filtered, func(j Job) bool {
			for _, want := range f.Languages {
				for _, have := range j.Languages {
					if want == have {
						return true
					}
				}
			}
			return false
		})
	}

	sortJobs(filtered, order)
	pinFeatured(filtered, order)
	return filtered
}

func keep(in []Job, pred func(Job) bool) []Job {
	out := in[:0]
	for _, j := range in {
		if pred(j) {
			out = append(out, j)
		}
	}
	return out
}

func sortJobs(list []Job, order SortOrder) {
	switch order {
	case SortOldest:
		sort.SliceStable(list, func(i, k int) bool {
			return postedTime(list[i]).Before(postedTime(list[k]))
		})
	case SortSalary:
		// Jobs without a salary carry the -1 sentinel and sort last.
		sort.SliceStable(list, func(i, k int) bool {
			a, b := NormalizeAnnualSalary(list[i].Salary), NormalizeAnnualSalary(list[k].Salary)
			if a == -1 && b == -1 {
				return false
			}
			if a == -1 {
				return false
			}
			if b == -1 {
				return true
			}
			return a > b
		})
	default: // newest
		sort.SliceStable(list, func(i, k int) bool {
			return postedTime(list[i]).After(postedTime(list[k]))
		})
	}
}

// pinFeatured stably moves featured jobs to the front after the main
// sort. Inside the pinned comparison, missing salaries count as 0 rather
// than -1; this mirrors the source system and is deliberately preserved.
func pinFeatured(list []Job, order SortOrder) {
	sort.SliceStable(list, func(i, k int) bool {
		a, b := list[i], list[k]
		if a.Featured != b.Featured {
			return a.Featured
		}
		switch order {
		case SortNewest:
			return postedTime(a).After(postedTime(b))
		case SortOldest:
			return postedTime(a).Before(postedTime(b))
		case SortSalary:
			var sa, sb float64
			if a.Salary != nil {
				sa = NormalizeAnnualSalary(a.Salary)
			}
			if b.Salary != nil {
				sb = NormalizeAnnualSalary(b.Salary)
			}
			return sa > sb
		default:
			return false
		}
	})
}

// Paginate slices one page out of the pipeline result. Pages are
// 1-based; out-of-range pages yield an empty slice.
func Paginate(list []Job, page, perPage int) []Job {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	start := (page - 1) * perPage
	if start >= len(list) {
		return []Job{}
	}
	end := start + perPage
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

var postedDateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"}

func postedTime(j Job) time.Time {
	for _, layout := range postedDateLayouts {
		if t, err := time.Parse(layout, j.PostedDate); err == nil {
			return t
		}
	}
	return time.Time{}
}

// PostedTime exposes the parsed posted date for presentation and feeds.
// Unparseable dates come back as the zero time.
func PostedTime(j Job) time.Time { return postedTime(j) }
