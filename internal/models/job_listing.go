package models

// JobListing is a posted position, keyed by JobID. ID is the surrogate key
// assigned by the store and used by the skill child tables.
type JobListing struct {
	ID                     int             `json:"id,omitempty"`
	JobID                  string          `json:"jobId"`
	Title                  string          `json:"title"`
	Company                string          `json:"company"`
	Description            string          `json:"description"`
	Location               string          `json:"location"`
	RemoteType             RemoteType      `json:"remoteType"`
	JobType                JobType         `json:"jobType"`
	ExperienceLevel        ExperienceLevel `json:"experienceLevel"`
	SalaryMin              float64         `json:"salaryMin"`
	SalaryMax              float64         `json:"salaryMax"`
	SalaryCurrency         string          `json:"salaryCurrency"`
	MinimumYearsExperience int             `json:"minimumYearsExperience"`
	ApplicationDeadline    string          `json:"applicationDeadline"`
	PostedDate             string          `json:"postedDate"`
	ApplicationURL         string          `json:"applicationUrl"`
	ContactEmail           string          `json:"contactEmail"`
	CompanySize            string          `json:"companySize"`
	Industry               string          `json:"industry"`
	CompanyWebsite         string          `json:"companyWebsite"`
	IsActive               bool            `json:"isActive"`
	Department             string          `json:"department"`
	ReportingTo            string          `json:"reportingTo"`

	// Not persisted: the skill tables are declared but not written.
	RequiredSkills  Skills `json:"requiredSkills"`
	PreferredSkills Skills `json:"preferredSkills"`

	// In-memory only.
	RequiredEducation       []string    `json:"requiredEducation,omitempty"`
	RequiredExperiences     Experiences `json:"requiredExperiences"`
	PreferredEducation      []string    `json:"preferredEducation,omitempty"`
	PreferredExperiences    Experiences `json:"preferredExperiences"`
	PreferredCertifications []string    `json:"preferredCertifications,omitempty"`
	Benefits                []string    `json:"benefits,omitempty"`
	Responsibilities        []string    `json:"responsibilities,omitempty"`
	Tags                    []string    `json:"tags,omitempty"`
}

// DefaultCurrency is used when a listing has no salary currency.
const DefaultCurrency = "USD"

// NewJobListing returns an active, on-site, full-time, entry-level listing
// priced in USD.
func NewJobListing(jobID, title, company string) *JobListing {
	return &JobListing{
		JobID:           jobID,
		Title:           title,
		Company:         company,
		RemoteType:      OnSite,
		JobType:         FullTime,
		ExperienceLevel: EntryLevel,
		SalaryCurrency:  DefaultCurrency,
		IsActive:        true,
		RequiredSkills:  NewSkills("Required"),
		PreferredSkills: NewSkills("Preferred"),
	}
}

// SetSalaryRange sets both bounds and the currency; an empty currency keeps USD.
func (l *JobListing) SetSalaryRange(minSalary, maxSalary float64, currency string) {
	l.SalaryMin = minSalary
	l.SalaryMax = maxSalary
	if currency == "" {
		currency = DefaultCurrency
	}
	l.SalaryCurrency = currency
}

func (l *JobListing) AddBenefit(b string) { l.Benefits = append(l.Benefits, b) }

func (l *JobListing) AddResponsibility(r string) {
	l.Responsibilities = append(l.Responsibilities, r)
}

func (l *JobListing) AddTag(tag string) { l.Tags = append(l.Tags, tag) }
