package jobs

// Counts aggregates the job collection along the category dimensions the
// directory pages display.
type Counts struct {
	Total     int
	Types     map[JobType]int
	Levels    map[CareerLevel]int
	Countries map[string]int
	Cities    map[string]int
	Remote    int
	Languages map[LanguageCode]int
}

// Count tallies jobs by type, career level, location, and language.
// NotSpecified levels are skipped; they are not a browsable category.
func Count(all []Job) Counts {
	c := Counts{
		Total:     len(all),
		Types:     make(map[JobType]int),
		Levels:    make(map[CareerLevel]int),
		Countries: make(map[string]int),
		Cities:    make(map[string]int),
		Languages: make(map[LanguageCode]int),
	}

	for _, j := range all {
		if j.Type != "" {
			c.Types[j.Type]++
		}
		for _, l := range j.CareerLevels {
			if l != LevelNotSpecified {
				c.Levels[l]++
			}
		}
		if j.WorkplaceCountry != "" {
			c.Countries[j.WorkplaceCountry]++
		}
		if j.WorkplaceCity != "" {
			c.Cities[j.WorkplaceCity]++
		}
		if j.WorkplaceType == WorkplaceRemote {
			c.Remote++
		}
		for _, lang := range j.Languages {
			c.Languages[lang]++
		}
	}

	return c
}
