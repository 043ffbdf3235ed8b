package models

// Skill is a named competency with years of use and a level.
type Skill struct {
	Name  string     `json:"name"`
	Years int        `json:"years"`
	Level SkillLevel `json:"level"`
}

// Skills is a typed, insertion-ordered skill list ("Languages", "Tools", ...).
type Skills struct {
	Type  string  `json:"type,omitempty"`
	Items []Skill `json:"items"`
}

// NewSkills returns an empty list of the given type.
func NewSkills(skillType string) Skills {
	return Skills{Type: skillType}
}

func (s *Skills) Add(skill Skill) { s.Items = append(s.Items, skill) }

// Has reports whether a skill with the given name is present.
func (s *Skills) Has(name string) bool {
	for _, sk := range s.Items {
		if sk.Name == name {
			return true
		}
	}
	return false
}

// Remove deletes every skill with the given name, not just the first.
func (s *Skills) Remove(name string) {
	s.Items = removeAll(s.Items, func(sk Skill) bool { return sk.Name == name })
}

func (s *Skills) Clear() { s.Items = nil }

func (s *Skills) Len() int { return len(s.Items) }

// Education is one degree or program.
type Education struct {
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	FieldOfStudy string   `json:"fieldOfStudy"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	GPA          float64  `json:"gpa"`
	Courses      []string `json:"courses,omitempty"`
}

// NoGPA marks an education entry without a grade average.
const NoGPA = -1.0

// NewEducation returns an entry with GPA unset.
func NewEducation(institution, degree, field, start, end string) Education {
	return Education{
		Institution:  institution,
		Degree:       degree,
		FieldOfStudy: field,
		StartDate:    start,
		EndDate:      end,
		GPA:          NoGPA,
	}
}

// Educations is an insertion-ordered list of education entries.
type Educations struct {
	Items []Education `json:"items"`
}

func (e *Educations) Add(ed Education) { e.Items = append(e.Items, ed) }

// Remove deletes every entry for the institution.
func (e *Educations) Remove(institution string) {
	e.Items = removeAll(e.Items, func(ed Education) bool { return ed.Institution == institution })
}

func (e *Educations) Clear() { e.Items = nil }

func (e *Educations) Len() int { return len(e.Items) }

// Experience is a named area of experience rated 1 (novice) to 5 (master).
type Experience struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Experiences is an insertion-ordered list of experience entries.
type Experiences struct {
	Items []Experience `json:"items"`
}

func (e *Experiences) Add(ex Experience) { e.Items = append(e.Items, ex) }

// Remove deletes every entry with the given name.
func (e *Experiences) Remove(name string) {
	e.Items = removeAll(e.Items, func(ex Experience) bool { return ex.Name == name })
}

func (e *Experiences) Clear() { e.Items = nil }

func (e *Experiences) Len() int { return len(e.Items) }

func removeAll[T any](items []T, match func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if !match(it) {
			out = append(out, it)
		}
	}
	return out
}
