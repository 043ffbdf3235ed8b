package models

// Resume is a person's profile. ID is assigned by the store; Email is unique.
type Resume struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	City      string `json:"city"`
	Phone     string `json:"phone"`
	LinkedIn  string `json:"linkedin"`
	Website   string `json:"website"`
	Interests string `json:"interests"`

	// Only skills, education and experiences have (stubbed) store paths.
	Skills      Skills      `json:"skills"`
	Educations  Educations  `json:"educations"`
	Experiences Experiences `json:"experiences"`

	Projects       []Project       `json:"projects,omitempty"`
	Publications   []Publication   `json:"publications,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	Awards         []Award         `json:"awards,omitempty"`
	Languages      []Language      `json:"languages,omitempty"`
}

// NewResume returns a resume with basic contact details.
func NewResume(name, email, city, phone string) *Resume {
	return &Resume{Name: name, Email: email, City: city, Phone: phone}
}

type Project struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	URL         string  `json:"url,omitempty"`
	SkillsUsed  []Skill `json:"skillsUsed,omitempty"`
	Course      string  `json:"course,omitempty"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate"`
}

type Publication struct {
	Title       string `json:"title"`
	Publisher   string `json:"publisher"`
	URL         string `json:"url,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

type Certification struct {
	Name           string `json:"name"`
	Authority      string `json:"authority"`
	LicenseNumber  string `json:"licenseNumber,omitempty"`
	URL            string `json:"url,omitempty"`
	IssueDate      string `json:"issueDate"`
	ExpirationDate string `json:"expirationDate,omitempty"`
	DoesNotExpire  bool   `json:"doesNotExpire"`
}

type Award struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Issuer      string `json:"issuer"`
	Description string `json:"description,omitempty"`
}

// LanguageProficiency runs from Elementary (1) to Native (5).
type LanguageProficiency int

const (
	Elementary LanguageProficiency = iota + 1
	LimitedWorking
	ProfessionalWorking
	FullProfessional
	Native
)

type Language struct {
	Name        string              `json:"name"`
	Proficiency LanguageProficiency `json:"proficiency"`
}

// RemoveLanguage drops every language entry with the given name.
func (r *Resume) RemoveLanguage(name string) {
	r.Languages = removeAll(r.Languages, func(l Language) bool { return l.Name == name })
}

// RemoveProject drops every project with the given name.
func (r *Resume) RemoveProject(name string) {
	r.Projects = removeAll(r.Projects, func(p Project) bool { return p.Name == name })
}
