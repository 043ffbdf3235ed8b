package schema

// CSV export headers, one per column, in output order.

var JobApplicationCSVHeader = []string{
	"Application ID", "Job ID", "Job Title", "Company", "Date Applied", "Status",
	"Contact Name", "Contact Email", "Contact Phone", "Comments", "Application URL",
	"Salary Offered", "Expected Salary", "Response Deadline", "Referral Source",
	"Application Method", "Notes", "Interview Dates", "Follow Up Dates",
}

var JobListingCSVHeader = []string{
	"Job ID", "Title", "Company", "Location", "Remote Type", "Job Type",
	"Experience Level", "Salary Min", "Salary Max", "Currency",
	"Min Years Experience", "Posted Date", "Application Deadline",
	"Application URL", "Contact Email", "Is Active",
}

var ResumeCSVHeader = []string{
	"ID", "Name", "Email", "City", "Phone", "LinkedIn", "Website", "Interests",
}

// JSON export root keys.
const (
	JobApplicationsJSONKey = "applications"
	JobListingsJSONKey     = "jobListings"
	ResumesJSONKey         = "resumes"
)
