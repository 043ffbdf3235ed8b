package schema

// Table names.
const (
	JobApplications    = "job_applications"
	InterviewDates     = "interview_dates"
	FollowUpDates      = "followup_dates"
	JobListings        = "job_listings"
	JobRequiredSkills  = "job_required_skills"
	JobPreferredSkills = "job_preferred_skills"
	Resumes            = "resumes"
	ResumeSkills       = "resume_skills"
	ResumeEducation    = "resume_education"
	ResumeExperiences  = "resume_experiences"
)

// JobApplicationFields are the writable job_applications columns in bind
// order. application_id comes first so it is always $1.
var JobApplicationFields = []FieldSpec{
	{Name: "application_id", Type: FieldText},
	{Name: "job_id", Type: FieldText},
	{Name: "job_title", Type: FieldText},
	{Name: "company", Type: FieldText},
	{Name: "date_applied", Type: FieldDate, Nullable: true},
	{Name: "status", Type: FieldInt},
	{Name: "contact_name", Type: FieldText},
	{Name: "contact_email", Type: FieldText},
	{Name: "contact_phone", Type: FieldText},
	{Name: "comments", Type: FieldText},
	{Name: "application_url", Type: FieldText},
	{Name: "salary_offered", Type: FieldText},
	{Name: "expected_salary", Type: FieldText},
	{Name: "response_deadline", Type: FieldDate, Nullable: true},
	{Name: "referral_source", Type: FieldText},
	{Name: "application_method", Type: FieldText},
	{Name: "notes", Type: FieldText},
}

// JobListingFields are the writable job_listings columns in bind order.
// job_id comes first so it is always $1.
var JobListingFields = []FieldSpec{
	{Name: "job_id", Type: FieldText},
	{Name: "title", Type: FieldText},
	{Name: "company", Type: FieldText},
	{Name: "description", Type: FieldText},
	{Name: "location", Type: FieldText},
	{Name: "remote_type", Type: FieldInt},
	{Name: "job_type", Type: FieldInt},
	{Name: "experience_level", Type: FieldInt},
	{Name: "salary_min", Type: FieldNumeric},
	{Name: "salary_max", Type: FieldNumeric},
	{Name: "salary_currency", Type: FieldText},
	{Name: "minimum_years_experience", Type: FieldInt},
	{Name: "application_deadline", Type: FieldDate, Nullable: true},
	{Name: "posted_date", Type: FieldDate, Today: true},
	{Name: "application_url", Type: FieldText},
	{Name: "contact_email", Type: FieldText},
	{Name: "company_size", Type: FieldText},
	{Name: "industry", Type: FieldText},
	{Name: "company_website", Type: FieldText},
	{Name: "is_active", Type: FieldBool},
	{Name: "department", Type: FieldText},
	{Name: "reporting_to", Type: FieldText},
}

// JobListingUpdateFields leave posted_date untouched.
var JobListingUpdateFields = Without(JobListingFields, "posted_date")

// ResumeFields are the writable resumes columns in bind order.
var ResumeFields = []FieldSpec{
	{Name: "name", Type: FieldText},
	{Name: "email", Type: FieldText},
	{Name: "city", Type: FieldText},
	{Name: "phone", Type: FieldText},
	{Name: "linkedin", Type: FieldText},
	{Name: "website", Type: FieldText},
	{Name: "interests", Type: FieldText},
}
