// Package models holds the domain entities persisted by the controllers and
// the enumerations they use. Enum values are stored as their integer codes.
package models

import (
	"strconv"
	"strings"
)

// ApplicationStatus is the lifecycle state of a job application. Any status
// may move to any other status.
type ApplicationStatus int

const (
	StatusApplied ApplicationStatus = iota + 1
	StatusReviewing
	StatusInterviewScheduled
	StatusInterviewing
	StatusWaitingResponse
	StatusOfferReceived
	StatusRejected
	StatusWithdrawn
	StatusAccepted
)

var statusNames = map[ApplicationStatus]string{
	StatusApplied:            "APPLIED",
	StatusReviewing:          "REVIEWING",
	StatusInterviewScheduled: "INTERVIEW_SCHEDULED",
	StatusInterviewing:       "INTERVIEWING",
	StatusWaitingResponse:    "WAITING_RESPONSE",
	StatusOfferReceived:      "OFFER_RECEIVED",
	StatusRejected:           "REJECTED",
	StatusWithdrawn:          "WITHDRAWN",
	StatusAccepted:           "ACCEPTED",
}

// AllStatuses lists the statuses in order.
func AllStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		StatusApplied, StatusReviewing, StatusInterviewScheduled, StatusInterviewing,
		StatusWaitingResponse, StatusOfferReceived, StatusRejected, StatusWithdrawn,
		StatusAccepted,
	}
}

// String returns the upper-case name, or UNKNOWN.
func (s ApplicationStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Valid reports whether s is one of the nine defined statuses.
func (s ApplicationStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseApplicationStatus maps a name back to a status. Unknown names yield
// StatusApplied.
func ParseApplicationStatus(name string) ApplicationStatus {
	name = strings.ToUpper(strings.TrimSpace(name))
	for s, n := range statusNames {
		if n == name {
			return s
		}
	}
	return StatusApplied
}

// JobType is the employment arrangement of a listing.
type JobType int

const (
	FullTime JobType = iota + 1
	PartTime
	Contract
	Internship
	Freelance
)

// ExperienceLevel is the seniority a listing targets.
type ExperienceLevel int

const (
	EntryLevel ExperienceLevel = iota + 1
	Junior
	MidLevel
	Senior
	Lead
	Executive
)

// RemoteType is the work location policy of a listing.
type RemoteType int

const (
	OnSite RemoteType = iota + 1
	Remote
	Hybrid
)

// enumName pairs a display string with the constant-style name accepted by
// the parsers.
type enumName struct {
	display  string
	constant string
}

var jobTypeNames = map[JobType]enumName{
	FullTime:   {"Full-time", "FULL_TIME"},
	PartTime:   {"Part-time", "PART_TIME"},
	Contract:   {"Contract", "CONTRACT"},
	Internship: {"Internship", "INTERNSHIP"},
	Freelance:  {"Freelance", "FREELANCE"},
}

var experienceLevelNames = map[ExperienceLevel]enumName{
	EntryLevel: {"Entry Level", "ENTRY_LEVEL"},
	Junior:     {"Junior", "JUNIOR"},
	MidLevel:   {"Mid Level", "MID_LEVEL"},
	Senior:     {"Senior", "SENIOR"},
	Lead:       {"Lead", "LEAD"},
	Executive:  {"Executive", "EXECUTIVE"},
}

var remoteTypeNames = map[RemoteType]enumName{
	OnSite: {"On-site", "ON_SITE"},
	Remote: {"Remote", "REMOTE"},
	Hybrid: {"Hybrid", "HYBRID"},
}

func (t JobType) String() string {
	if n, ok := jobTypeNames[t]; ok {
		return n.display
	}
	return "Unknown"
}

func (l ExperienceLevel) String() string {
	if n, ok := experienceLevelNames[l]; ok {
		return n.display
	}
	return "Unknown"
}

func (r RemoteType) String() string {
	if n, ok := remoteTypeNames[r]; ok {
		return n.display
	}
	return "Unknown"
}

// ParseJobType accepts the display or constant name. Unknown input yields FullTime.
func ParseJobType(s string) JobType {
	return parseEnum(jobTypeNames, s, FullTime)
}

// ParseExperienceLevel accepts the display or constant name. Unknown input
// yields EntryLevel.
func ParseExperienceLevel(s string) ExperienceLevel {
	return parseEnum(experienceLevelNames, s, EntryLevel)
}

// ParseRemoteType accepts the display or constant name. Unknown input yields OnSite.
func ParseRemoteType(s string) RemoteType {
	return parseEnum(remoteTypeNames, s, OnSite)
}

// LookupJobType is ParseJobType without the fallback. It also accepts the
// numeric code.
func LookupJobType(s string) (JobType, bool) {
	return lookupEnum(jobTypeNames, s)
}

// LookupExperienceLevel is ParseExperienceLevel without the fallback. It
// also accepts the numeric code.
func LookupExperienceLevel(s string) (ExperienceLevel, bool) {
	return lookupEnum(experienceLevelNames, s)
}

func parseEnum[E ~int](names map[E]enumName, s string, fallback E) E {
	if v, ok := lookupEnum(names, s); ok {
		return v
	}
	return fallback
}

func lookupEnum[E ~int](names map[E]enumName, s string) (E, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if _, ok := names[E(n)]; ok {
			return E(n), true
		}
		return 0, false
	}
	for v, n := range names {
		if s == n.display || strings.EqualFold(s, n.constant) {
			return v, true
		}
	}
	return 0, false
}

// SkillLevel is a self-assessed proficiency.
type SkillLevel int

const (
	Beginner SkillLevel = iota + 1
	Intermediate
	Advanced
	Expert
)

func (l SkillLevel) String() string {
	switch l {
	case Beginner:
		return "Beginner"
	case Intermediate:
		return "Intermediate"
	case Advanced:
		return "Advanced"
	case Expert:
		return "Expert"
	}
	return "Unknown"
}
