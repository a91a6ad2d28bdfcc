// Package jobs holds the canonical job model, the field normalizers that
// coerce raw record-store values into it, the salary engine, slug identity,
// and the listing pipeline used by every listing page.
package jobs

// JobType is the employment type of a posting.
type JobType string

const (
	TypeFullTime  JobType = "Full-time"
	TypePartTime  JobType = "Part-time"
	TypeContract  JobType = "Contract"
	TypeFreelance JobType = "Freelance"
)

// JobTypes lists the four employment types in display order.
var JobTypes = []JobType{TypeFullTime, TypePartTime, TypeContract, TypeFreelance}

// ValidJobType reports whether t is one of the known employment types.
func ValidJobType(t JobType) bool {
	for _, known := range JobTypes {
		if t == known {
			return true
		}
	}
	return false
}

// CareerLevel is a seniority bucket. Values match the record store's
// display values with whitespace removed.
type CareerLevel string

const (
	LevelInternship    CareerLevel = "Internship"
	LevelEntryLevel    CareerLevel = "EntryLevel"
	LevelAssociate     CareerLevel = "Associate"
	LevelJunior        CareerLevel = "Junior"
	LevelMidLevel      CareerLevel = "MidLevel"
	LevelSenior        CareerLevel = "Senior"
	LevelStaff         CareerLevel = "Staff"
	LevelPrincipal     CareerLevel = "Principal"
	LevelLead          CareerLevel = "Lead"
	LevelManager       CareerLevel = "Manager"
	LevelSeniorManager CareerLevel = "SeniorManager"
	LevelDirector      CareerLevel = "Director"
	LevelSeniorDir     CareerLevel = "SeniorDirector"
	LevelVP            CareerLevel = "VP"
	LevelSVP           CareerLevel = "SVP"
	LevelEVP           CareerLevel = "EVP"
	LevelCLevel        CareerLevel = "CLevel"
	LevelFounder       CareerLevel = "Founder"
	LevelNotSpecified  CareerLevel = "NotSpecified"
)

// CareerLevelList lists every valid level in display order.
var CareerLevelList = []CareerLevel{
	LevelInternship, LevelEntryLevel, LevelAssociate, LevelJunior,
	LevelMidLevel, LevelSenior, LevelStaff, LevelPrincipal, LevelLead,
	LevelManager, LevelSeniorManager, LevelDirector, LevelSeniorDir,
	LevelVP, LevelSVP, LevelEVP, LevelCLevel, LevelFounder,
	LevelNotSpecified,
}

// CareerLevelNames maps enum values back to human display names.
var CareerLevelNames = map[CareerLevel]string{
	LevelInternship:    "Internship",
	LevelEntryLevel:    "Entry Level",
	LevelAssociate:     "Associate",
	LevelJunior:        "Junior",
	LevelMidLevel:      "Mid Level",
	LevelSenior:        "Senior",
	LevelStaff:         "Staff",
	LevelPrincipal:     "Principal",
	LevelLead:          "Lead",
	LevelManager:       "Manager",
	LevelSeniorManager: "Senior Manager",
	LevelDirector:      "Director",
	LevelSeniorDir:     "Senior Director",
	LevelVP:            "VP",
	LevelSVP:           "SVP",
	LevelEVP:           "EVP",
	LevelCLevel:        "C-Level",
	LevelFounder:       "Founder",
	LevelNotSpecified:  "Not Specified",
}

// CareerLevelName returns the display name for a level, falling back to the
// raw value for anything unknown.
func CareerLevelName(l CareerLevel) string {
	if name, ok := CareerLevelNames[l]; ok {
		return name
	}
	return string(l)
}

// WorkplaceType is where the work happens.
type WorkplaceType string

const (
	WorkplaceOnSite       WorkplaceType = "On-site"
	WorkplaceHybrid       WorkplaceType = "Hybrid"
	WorkplaceRemote       WorkplaceType = "Remote"
	WorkplaceNotSpecified WorkplaceType = "Not specified"
)

// RemoteRegion restricts a remote role to a hiring region. The empty
// string means no region is set.
type RemoteRegion string

const (
	RegionWorldwide   RemoteRegion = "Worldwide"
	RegionAmericas    RemoteRegion = "Americas Only"
	RegionEurope      RemoteRegion = "Europe Only"
	RegionAsiaPacific RemoteRegion = "Asia-Pacific Only"
	RegionUS          RemoteRegion = "US Only"
	RegionEU          RemoteRegion = "EU Only"
	RegionUKEU        RemoteRegion = "UK/EU Only"
	RegionUSCanada    RemoteRegion = "US/Canada Only"
)

// RemoteRegions lists the eight allowed region values.
var RemoteRegions = []RemoteRegion{
	RegionWorldwide, RegionAmericas, RegionEurope, RegionAsiaPacific,
	RegionUS, RegionEU, RegionUKEU, RegionUSCanada,
}

// VisaSponsorship states whether the company sponsors work visas.
type VisaSponsorship string

const (
	VisaYes          VisaSponsorship = "Yes"
	VisaNo           VisaSponsorship = "No"
	VisaNotSpecified VisaSponsorship = "Not specified"
)

// SalaryUnit is the period a salary figure covers.
type SalaryUnit string

const (
	UnitHour    SalaryUnit = "hour"
	UnitDay     SalaryUnit = "day"
	UnitWeek    SalaryUnit = "week"
	UnitMonth   SalaryUnit = "month"
	UnitYear    SalaryUnit = "year"
	UnitProject SalaryUnit = "project"
)

// Salary is a compensation range. Min and Max are nil when the record
// does not carry the bound; a zero value is treated the same as absent.
type Salary struct {
	Min      *float64   `json:"min"`
	Max      *float64   `json:"max"`
	Currency Currency   `json:"currency"`
	Unit     SalaryUnit `json:"unit"`
}

// IsSet reports whether the salary carries at least one non-zero bound.
func (s *Salary) IsSet() bool {
	return s != nil && (deref(s.Min) != 0 || deref(s.Max) != 0)
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// Float is a convenience for building salary bounds in literals and tests.
func Float(v float64) *float64 { return &v }

// StatusActive marks the only status the repository ever returns.
const StatusActive = "active"

// Job is the canonical unit of content. Jobs are rebuilt from the record
// store on every fetch and are immutable once normalization completes.
type Job struct {
	ID                      string          `json:"id"`
	Title                   string          `json:"title"`
	Company                 string          `json:"company"`
	Type                    JobType         `json:"type"`
	Salary                  *Salary         `json:"salary"`
	Description             string          `json:"description"`
	Benefits                string          `json:"benefits,omitempty"`
	ApplicationRequirements string          `json:"application_requirements,omitempty"`
	ApplyURL                string          `json:"apply_url"`
	PostedDate              string          `json:"posted_date"`
	ValidThrough            string          `json:"valid_through,omitempty"`
	JobIdentifier           string          `json:"job_identifier,omitempty"`
	JobSourceName           string          `json:"job_source_name,omitempty"`
	Status                  string          `json:"status"`
	CareerLevels            []CareerLevel   `json:"career_level"`
	VisaSponsorship         VisaSponsorship `json:"visa_sponsorship"`
	Featured                bool            `json:"featured"`
	WorkplaceType           WorkplaceType   `json:"workplace_type"`
	RemoteRegion            RemoteRegion    `json:"remote_region,omitempty"`
	TimezoneRequirements    string          `json:"timezone_requirements,omitempty"`
	WorkplaceCity           string          `json:"workplace_city,omitempty"`
	WorkplaceCountry        string          `json:"workplace_country,omitempty"`
	Languages               []LanguageCode  `json:"languages"`

	// Structured-data fields carried through unmodified.
	Skills                 string `json:"skills,omitempty"`
	Qualifications         string `json:"qualifications,omitempty"`
	EducationRequirements  string `json:"education_requirements,omitempty"`
	ExperienceRequirements string `json:"experience_requirements,omitempty"`
	Industry               string `json:"industry,omitempty"`
	OccupationalCategory   string `json:"occupational_category,omitempty"`
	Responsibilities       string `json:"responsibilities,omitempty"`
}
