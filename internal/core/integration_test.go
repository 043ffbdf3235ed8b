package core

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/JonMunkholm/rezz/internal/db"
	"github.com/JonMunkholm/rezz/internal/models"
)

// integrationSuite runs the controllers against a real Postgres named by
// REZZ_TEST_DATABASE_URL. Every test starts from empty tables.
type integrationSuite struct {
	suite.Suite
	ctx context.Context
	svc *Service
}

func TestIntegration(t *testing.T) {
	if os.Getenv("REZZ_TEST_DATABASE_URL") == "" {
		t.Skip("REZZ_TEST_DATABASE_URL not set")
	}
	suite.Run(t, new(integrationSuite))
}

func (s *integrationSuite) SetupSuite() {
	s.ctx = context.Background()
	h := db.NewHandle(db.WithLogger(quietLogger()))
	s.Require().NoError(h.ConnectString(s.ctx, os.Getenv("REZZ_TEST_DATABASE_URL")))
	s.svc = NewService(h, WithLogger(quietLogger()))
	s.Require().NoError(s.svc.ApplySchema(s.ctx))
}

func (s *integrationSuite) TearDownSuite() {
	s.NoError(s.svc.Handle().Disconnect(s.ctx))
}

func (s *integrationSuite) SetupTest() {
	s.Require().NoError(s.svc.Handle().ExecuteNonQuery(s.ctx,
		"TRUNCATE job_applications, interview_dates, followup_dates, job_listings, job_required_skills, job_preferred_skills, resumes, resume_skills, resume_education, resume_experiences RESTART IDENTITY CASCADE"))
}

func (s *integrationSuite) TestApplicationRoundTrip() {
	app := models.NewJobApplication("APP_1", "JOB_1", "Engineer", "Acme", "2024-01-15")
	app.AddInterviewDate("2024-02-15")
	app.AddInterviewDate("2024-02-01")
	app.ResponseDeadline = ""
	s.Require().NoError(s.svc.Applications.Create(s.ctx, app))

	got, err := s.svc.Applications.GetByID(s.ctx, "APP_1")
	s.Require().NoError(err)
	s.Equal("Acme", got.Company)
	s.Equal(models.StatusApplied, got.Status)
	s.Equal([]string{"2024-02-01", "2024-02-15"}, got.InterviewDates)
	s.Equal("", got.ResponseDeadline)

	byCompany, err := s.svc.Applications.GetByCompany(s.ctx, "acm")
	s.Require().NoError(err)
	s.Len(byCompany, 1)

	n, err := s.svc.Applications.CountByStatus(s.ctx, models.StatusApplied)
	s.Require().NoError(err)
	s.Equal(1, n)

	s.ErrorIs(s.svc.Applications.Create(s.ctx, app), ErrAlreadyExists)
}

func (s *integrationSuite) TestApplicationCreateIsAtomic() {
	app := models.NewJobApplication("APP_2", "JOB_1", "Engineer", "Acme", "2024-01-15")
	app.AddInterviewDate("2024-02-01")
	app.AddFollowUpDate("not-a-date")

	s.Require().Error(s.svc.Applications.Create(s.ctx, app))
	s.False(s.svc.Handle().InTransaction())

	ok, err := s.svc.Applications.Exists(s.ctx, "APP_2")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *integrationSuite) TestApplicationUpdateReplacesDates() {
	app := models.NewJobApplication("APP_3", "JOB_1", "Engineer", "Acme", "2024-01-15")
	app.AddInterviewDate("2024-02-01")
	app.AddFollowUpDate("2024-02-05")
	s.Require().NoError(s.svc.Applications.Create(s.ctx, app))

	app.InterviewDates = []string{"2024-03-01"}
	app.FollowUpDates = nil
	app.Status = models.StatusInterviewing
	s.Require().NoError(s.svc.Applications.Update(s.ctx, app))

	got, err := s.svc.Applications.GetByID(s.ctx, "APP_3")
	s.Require().NoError(err)
	s.Equal([]string{"2024-03-01"}, got.InterviewDates)
	s.Empty(got.FollowUpDates)
	s.Equal(models.StatusInterviewing, got.Status)

	s.Require().NoError(s.svc.Applications.Delete(s.ctx, "APP_3"))
	s.Require().NoError(s.svc.Applications.Delete(s.ctx, "APP_3"))
	_, err = s.svc.Applications.GetByID(s.ctx, "APP_3")
	s.ErrorIs(err, ErrNotFound)
}

func (s *integrationSuite) TestListingLifecycle() {
	l := models.NewJobListing("J1", "Go Dev", "Acme")
	l.SetSalaryRange(100000, 150000, "EUR")
	id, err := s.svc.Listings.Create(s.ctx, l)
	s.Require().NoError(err)
	s.Positive(id)

	got, err := s.svc.Listings.GetByJobID(s.ctx, "J1")
	s.Require().NoError(err)
	s.Equal(id, got.ID)
	s.NotEmpty(got.PostedDate, "posted date defaults to today")
	s.True(got.IsActive)

	inRange, err := s.svc.Listings.GetBySalaryRange(s.ctx, 90000, 160000)
	s.Require().NoError(err)
	s.Len(inRange, 1)

	s.Require().NoError(s.svc.Listings.UpdateStatus(s.ctx, "J1", false))
	active, err := s.svc.Listings.CountActive(s.ctx)
	s.Require().NoError(err)
	s.Zero(active)

	s.Require().NoError(s.svc.Listings.Delete(s.ctx, "J1"))
	s.Require().NoError(s.svc.Listings.Delete(s.ctx, "J1"))
}

func (s *integrationSuite) TestResumeEmailIsUnique() {
	id, err := s.svc.Resumes.Create(s.ctx, models.NewResume("Ada", "ada@example.com", "Berlin", ""))
	s.Require().NoError(err)

	_, err = s.svc.Resumes.Create(s.ctx, models.NewResume("Other Ada", "ada@example.com", "", ""))
	s.ErrorIs(err, ErrAlreadyExists)

	s.Require().NoError(s.svc.Resumes.UpdateBasicInfo(s.ctx, id, "Ada L.", "ada@example.com", "London", "555"))
	got, err := s.svc.Resumes.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("London", got.City)

	s.Require().NoError(s.svc.Resumes.DeleteByEmail(s.ctx, "ada@example.com"))
	s.Require().NoError(s.svc.Resumes.DeleteByEmail(s.ctx, "ada@example.com"))
}
