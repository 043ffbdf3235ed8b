package models

// JobApplication tracks one application, keyed by a caller-supplied
// ApplicationID. Interview and follow-up dates are owned child rows.
type JobApplication struct {
	ApplicationID     string            `json:"applicationId"`
	JobID             string            `json:"jobId"`
	JobTitle          string            `json:"jobTitle"`
	Company           string            `json:"company"`
	DateApplied       string            `json:"dateApplied"`
	Status            ApplicationStatus `json:"status"`
	ContactName       string            `json:"contactName"`
	ContactEmail      string            `json:"contactEmail"`
	ContactPhone      string            `json:"contactPhone"`
	Comments          string            `json:"comments"`
	ApplicationURL    string            `json:"applicationUrl"`
	SalaryOffered     string            `json:"salaryOffered"`
	ExpectedSalary    string            `json:"expectedSalary"`
	ResponseDeadline  string            `json:"responseDeadline"`
	ReferralSource    string            `json:"referralSource"`
	ApplicationMethod string            `json:"applicationMethod"`
	Notes             string            `json:"notes"`
	InterviewDates    []string          `json:"interviewDates"`
	FollowUpDates     []string          `json:"followUpDates"`
}

// NewJobApplication returns an application in the APPLIED state.
func NewJobApplication(applicationID, jobID, jobTitle, company, dateApplied string) *JobApplication {
	return &JobApplication{
		ApplicationID: applicationID,
		JobID:         jobID,
		JobTitle:      jobTitle,
		Company:       company,
		DateApplied:   dateApplied,
		Status:        StatusApplied,
	}
}

func (a *JobApplication) AddInterviewDate(date string) {
	a.InterviewDates = append(a.InterviewDates, date)
}

func (a *JobApplication) AddFollowUpDate(date string) {
	a.FollowUpDates = append(a.FollowUpDates, date)
}

// RemoveInterviewDate drops every occurrence of date.
func (a *JobApplication) RemoveInterviewDate(date string) {
	a.InterviewDates = removeAll(a.InterviewDates, func(d string) bool { return d == date })
}

// RemoveFollowUpDate drops every occurrence of date.
func (a *JobApplication) RemoveFollowUpDate(date string) {
	a.FollowUpDates = removeAll(a.FollowUpDates, func(d string) bool { return d == date })
}
