package core

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/JonMunkholm/rezz/internal/db"
	"github.com/JonMunkholm/rezz/internal/models"
	"github.com/JonMunkholm/rezz/internal/schema"
)

// childDates is one of the date tables owned by an application.
type childDates struct {
	table  string
	column string
}

var (
	interviewDates = childDates{table: schema.InterviewDates, column: "interview_date"}
	followUpDates  = childDates{table: schema.FollowUpDates, column: "followup_date"}
)

var (
	applicationColumns = schema.Names(schema.JobApplicationFields)

	insertApplicationSQL = fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		schema.JobApplications,
		schema.ColumnList(schema.JobApplicationFields),
		schema.Placeholders(schema.JobApplicationFields, 1),
	)

	updateApplicationSQL = fmt.Sprintf(
		"UPDATE %s SET %s, updated_at = CURRENT_TIMESTAMP WHERE application_id = $1",
		schema.JobApplications,
		schema.Assignments(schema.JobApplicationFields[1:], 2),
	)
)

// JobApplicationController persists job applications together with their
// interview and follow-up dates.
type JobApplicationController struct {
	base
}

// NewJobApplicationController returns a controller bound to h.
func NewJobApplicationController(h *db.Handle, opts ...Option) *JobApplicationController {
	return &JobApplicationController{base: newBase(h, "job_application", opts)}
}

// ApplicationFilter combines the list filters. Zero fields are ignored.
type ApplicationFilter struct {
	Company string
	Status  models.ApplicationStatus
	From    string
	To      string
}

// Create inserts app and all of its dates in one transaction.
// Returns ErrAlreadyExists when the application id is taken.
func (c *JobApplicationController) Create(ctx context.Context, app *models.JobApplication) error {
	if app == nil || app.ApplicationID == "" {
		return fmt.Errorf("create application: %w: application id is required", ErrInvalidInput)
	}
	if err := c.ensureConnected(ctx); err != nil {
		return err
	}

	exists, err := c.Exists(ctx, app.ApplicationID)
	if err != nil {
		return fmt.Errorf("create application %s: %w", app.ApplicationID, err)
	}
	if exists {
		c.logger.Warn("application already exists", "application_id", app.ApplicationID)
		return fmt.Errorf("create application %s: %w", app.ApplicationID, ErrAlreadyExists)
	}

	return c.inTx(ctx, "create application", func() error {
		if err := c.exec(ctx, insertApplicationSQL, applicationParams(app)...); err != nil {
			if db.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
			}
			return err
		}
		if err := c.insertDates(ctx, interviewDates, app.ApplicationID, app.InterviewDates); err != nil {
			return err
		}
		return c.insertDates(ctx, followUpDates, app.ApplicationID, app.FollowUpDates)
	})
}

// GetByID loads one application with its dates, or ErrNotFound.
func (c *JobApplicationController) GetByID(ctx context.Context, applicationID string) (*models.JobApplication, error) {
	apps, err := c.list(ctx, equal("application_id", applicationID))
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, fmt.Errorf("application %s: %w", applicationID, ErrNotFound)
	}
	return &apps[0], nil
}

// GetAll returns every application, most recently applied first.
func (c *JobApplicationController) GetAll(ctx context.Context) ([]models.JobApplication, error) {
	return c.list(ctx, orderBy("date_applied DESC"))
}

// GetByCompany matches company as a case-insensitive substring.
func (c *JobApplicationController) GetByCompany(ctx context.Context, company string) ([]models.JobApplication, error) {
	return c.list(ctx, containsFold("company", company), orderBy("date_applied DESC"))
}

func (c *JobApplicationController) GetByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.JobApplication, error) {
	return c.list(ctx, equal("status", itoa(int(status))), orderBy("date_applied DESC"))
}

// GetByDateRange returns applications whose date_applied falls within
// [from, to], both inclusive.
func (c *JobApplicationController) GetByDateRange(ctx context.Context, from, to string) ([]models.JobApplication, error) {
	return c.list(ctx, between("date_applied", from, to), orderBy("date_applied DESC"))
}

// Find applies every non-zero filter field.
func (c *JobApplicationController) Find(ctx context.Context, f ApplicationFilter) ([]models.JobApplication, error) {
	var opts []ListOption
	if f.Company != "" {
		opts = append(opts, containsFold("company", f.Company))
	}
	if f.Status.Valid() {
		opts = append(opts, equal("status", itoa(int(f.Status))))
	}
	if f.From != "" && f.To != "" {
		opts = append(opts, between("date_applied", f.From, f.To))
	}
	return c.list(ctx, append(opts, orderBy("date_applied DESC"))...)
}

// Update rewrites the application row and replaces both date lists
// wholesale. Returns ErrNotFound when the application does not exist.
func (c *JobApplicationController) Update(ctx context.Context, app *models.JobApplication) error {
	if app == nil || app.ApplicationID == "" {
		return fmt.Errorf("update application: %w: application id is required", ErrInvalidInput)
	}
	if err := c.ensureConnected(ctx); err != nil {
		return err
	}

	exists, err := c.Exists(ctx, app.ApplicationID)
	if err != nil {
		return fmt.Errorf("update application %s: %w", app.ApplicationID, err)
	}
	if !exists {
		c.logger.Warn("application does not exist", "application_id", app.ApplicationID)
		return fmt.Errorf("update application %s: %w", app.ApplicationID, ErrNotFound)
	}

	return c.inTx(ctx, "update application", func() error {
		if err := c.exec(ctx, updateApplicationSQL, applicationParams(app)...); err != nil {
			return err
		}
		if err := c.deleteDates(ctx, interviewDates, app.ApplicationID); err != nil {
			return err
		}
		if err := c.deleteDates(ctx, followUpDates, app.ApplicationID); err != nil {
			return err
		}
		if err := c.insertDates(ctx, interviewDates, app.ApplicationID, app.InterviewDates); err != nil {
			return err
		}
		return c.insertDates(ctx, followUpDates, app.ApplicationID, app.FollowUpDates)
	})
}

// UpdateStatus sets the status alone. Any status may follow any other.
func (c *JobApplicationController) UpdateStatus(ctx context.Context, applicationID string, status models.ApplicationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("update status: %w: status %d", ErrInvalidInput, int(status))
	}
	if err := c.ensureConnected(ctx); err != nil {
		return err
	}

	cur, err := c.query(ctx,
		"UPDATE job_applications SET status = $2, updated_at = CURRENT_TIMESTAMP WHERE application_id = $1",
		applicationID, itoa(int(status)))
	if err != nil {
		return fmt.Errorf("update status %s: %w", applicationID, err)
	}
	if cur.RowsAffected() == 0 {
		return fmt.Errorf("update status %s: %w", applicationID, ErrNotFound)
	}
	return nil
}

// AddInterviewDate appends one interview date outside of any transaction.
func (c *JobApplicationController) AddInterviewDate(ctx context.Context, applicationID, date string) error {
	if err := c.ensureConnected(ctx); err != nil {
		return err
	}
	return c.addDate(ctx, interviewDates, applicationID, date)
}

// AddFollowUpDate appends one follow-up date outside of any transaction.
func (c *JobApplicationController) AddFollowUpDate(ctx context.Context, applicationID, date string) error {
	if err := c.ensureConnected(ctx); err != nil {
		return err
	}
	return c.addDate(ctx, followUpDates, applicationID, date)
}

// GetInterviewDates returns the interview dates in ascending order.
func (c *JobApplicationController) GetInterviewDates(ctx context.Context, applicationID string) ([]string, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	return c.dates(ctx, interviewDates, applicationID)
}

// GetFollowUpDates returns the follow-up dates in ascending order.
func (c *JobApplicationController) GetFollowUpDates(ctx context.Context, applicationID string) ([]string, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	return c.dates(ctx, followUpDates, applicationID)
}

// Delete removes the dates and then the application in one transaction.
// Deleting an unknown id succeeds.
func (c *JobApplicationController) Delete(ctx context.Context, applicationID string) error {
	if err := c.ensureConnected(ctx); err != nil {
		return err
	}

	return c.inTx(ctx, "delete application", func() error {
		if err := c.deleteDates(ctx, interviewDates, applicationID); err != nil {
			return err
		}
		if err := c.deleteDates(ctx, followUpDates, applicationID); err != nil {
			return err
		}
		return c.exec(ctx, "DELETE FROM job_applications WHERE application_id = $1", applicationID)
	})
}

// DeleteByCompany removes every application whose company equals company,
// ignoring case. Dates go with them through the foreign key cascade.
func (c *JobApplicationController) DeleteByCompany(ctx context.Context, company string) (int64, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return 0, err
	}
	cur, err := c.query(ctx, "DELETE FROM job_applications WHERE LOWER(company) = LOWER($1)", company)
	if err != nil {
		return 0, fmt.Errorf("delete applications for %s: %w", company, err)
	}
	return cur.RowsAffected(), nil
}

// Count returns the number of applications; 0 with an error on failure.
func (c *JobApplicationController) Count(ctx context.Context) (int, error) {
	return c.count(ctx, psql.Select("COUNT(*)").From(schema.JobApplications))
}

func (c *JobApplicationController) CountByStatus(ctx context.Context, status models.ApplicationStatus) (int, error) {
	return c.count(ctx, psql.Select("COUNT(*)").From(schema.JobApplications).
		Where(sq.Eq{"status": itoa(int(status))}))
}

// Exists reports whether an application with the id is stored.
func (c *JobApplicationController) Exists(ctx context.Context, applicationID string) (bool, error) {
	return c.exists(ctx, psql.Select("COUNT(*)").From(schema.JobApplications).
		Where(sq.Eq{"application_id": applicationID}))
}

// ExportToJSON renders every application under "applications".
func (c *JobApplicationController) ExportToJSON(ctx context.Context) (string, error) {
	apps, err := c.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("export applications: %w", err)
	}

	doc := newJSONDoc(schema.JobApplicationsJSONKey)
	for i := range apps {
		doc.element(applicationJSON(&apps[i]))
	}
	return doc.String(), nil
}

// ExportToCSV renders every application as one CSV row. Date lists are
// joined with ";".
func (c *JobApplicationController) ExportToCSV(ctx context.Context) (string, error) {
	apps, err := c.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("export applications: %w", err)
	}

	doc := newCSVDoc(schema.JobApplicationCSVHeader)
	for _, a := range apps {
		doc.row(
			a.ApplicationID, a.JobID, a.JobTitle, a.Company, a.DateApplied,
			a.Status.String(), a.ContactName, a.ContactEmail, a.ContactPhone,
			a.Comments, a.ApplicationURL, a.SalaryOffered, a.ExpectedSalary,
			a.ResponseDeadline, a.ReferralSource, a.ApplicationMethod, a.Notes,
			joinList(a.InterviewDates), joinList(a.FollowUpDates),
		)
	}
	return doc.String(), nil
}

func (c *JobApplicationController) ImportFromJSON(ctx context.Context, doc string) error {
	return fmt.Errorf("applications: %w", ErrNotImplemented)
}

func (c *JobApplicationController) list(ctx context.Context, opts ...ListOption) ([]models.JobApplication, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	sb := apply(psql.Select(applicationColumns...).From(schema.JobApplications), opts)
	cur, err := c.selectRows(ctx, sb)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	apps := make([]models.JobApplication, 0, cur.RowCount())
	for cur.Next() {
		a := scanApplication(cur)
		if a.InterviewDates, err = c.dates(ctx, interviewDates, a.ApplicationID); err != nil {
			return nil, err
		}
		if a.FollowUpDates, err = c.dates(ctx, followUpDates, a.ApplicationID); err != nil {
			return nil, err
		}
		apps = append(apps, a)
	}
	return apps, nil
}

func (c *JobApplicationController) dates(ctx context.Context, t childDates, applicationID string) ([]string, error) {
	sb := psql.Select(t.column).From(t.table).
		Where(sq.Eq{"application_id": applicationID}).
		OrderBy(t.column)

	cur, err := c.selectRows(ctx, sb)
	if err != nil {
		return nil, fmt.Errorf("load %s for %s: %w", t.table, applicationID, err)
	}

	out := make([]string, 0, cur.RowCount())
	for cur.Next() {
		out = append(out, cur.GetString(0))
	}
	return out, nil
}

func (c *JobApplicationController) addDate(ctx context.Context, t childDates, applicationID, date string) error {
	sql := fmt.Sprintf("INSERT INTO %s (application_id, %s) VALUES ($1, $2)", t.table, t.column)
	if err := c.exec(ctx, sql, applicationID, date); err != nil {
		if db.IsForeignKeyViolation(err) {
			return fmt.Errorf("add %s for %s: %w", t.column, applicationID, ErrNotFound)
		}
		return fmt.Errorf("add %s for %s: %w", t.column, applicationID, err)
	}
	return nil
}

// insertDates writes one row per date; the first failure stops the loop.
func (c *JobApplicationController) insertDates(ctx context.Context, t childDates, applicationID string, dates []string) error {
	for _, d := range dates {
		if err := c.addDate(ctx, t, applicationID, d); err != nil {
			return err
		}
	}
	return nil
}

func (c *JobApplicationController) deleteDates(ctx context.Context, t childDates, applicationID string) error {
	sql := fmt.Sprintf("DELETE FROM %s WHERE application_id = $1", t.table)
	if err := c.exec(ctx, sql, applicationID); err != nil {
		return fmt.Errorf("delete %s for %s: %w", t.table, applicationID, err)
	}
	return nil
}

// applicationParams follows schema.JobApplicationFields.
func applicationParams(a *models.JobApplication) []string {
	return []string{
		a.ApplicationID,
		a.JobID,
		a.JobTitle,
		a.Company,
		a.DateApplied,
		itoa(int(a.Status)),
		a.ContactName,
		a.ContactEmail,
		a.ContactPhone,
		a.Comments,
		a.ApplicationURL,
		a.SalaryOffered,
		a.ExpectedSalary,
		a.ResponseDeadline,
		a.ReferralSource,
		a.ApplicationMethod,
		a.Notes,
	}
}

func scanApplication(cur *db.Cursor) models.JobApplication {
	return models.JobApplication{
		ApplicationID:     cur.GetStringByName("application_id"),
		JobID:             cur.GetStringByName("job_id"),
		JobTitle:          cur.GetStringByName("job_title"),
		Company:           cur.GetStringByName("company"),
		DateApplied:       cur.GetStringByName("date_applied"),
		Status:            models.ApplicationStatus(cur.GetIntByName("status")),
		ContactName:       cur.GetStringByName("contact_name"),
		ContactEmail:      cur.GetStringByName("contact_email"),
		ContactPhone:      cur.GetStringByName("contact_phone"),
		Comments:          cur.GetStringByName("comments"),
		ApplicationURL:    cur.GetStringByName("application_url"),
		SalaryOffered:     cur.GetStringByName("salary_offered"),
		ExpectedSalary:    cur.GetStringByName("expected_salary"),
		ResponseDeadline:  cur.GetStringByName("response_deadline"),
		ReferralSource:    cur.GetStringByName("referral_source"),
		ApplicationMethod: cur.GetStringByName("application_method"),
		Notes:             cur.GetStringByName("notes"),
	}
}

func applicationJSON(a *models.JobApplication) []jsonField {
	return []jsonField{
		jsonString("applicationId", a.ApplicationID),
		jsonString("jobId", a.JobID),
		jsonString("jobTitle", a.JobTitle),
		jsonString("company", a.Company),
		jsonString("dateApplied", a.DateApplied),
		jsonString("status", a.Status.String()),
		jsonString("contactName", a.ContactName),
		jsonString("contactEmail", a.ContactEmail),
		jsonString("contactPhone", a.ContactPhone),
		jsonString("comments", a.Comments),
		jsonString("applicationUrl", a.ApplicationURL),
		jsonString("salaryOffered", a.SalaryOffered),
		jsonString("expectedSalary", a.ExpectedSalary),
		jsonString("responseDeadline", a.ResponseDeadline),
		jsonString("referralSource", a.ReferralSource),
		jsonString("applicationMethod", a.ApplicationMethod),
		jsonString("notes", a.Notes),
		jsonStrings("interviewDates", a.InterviewDates),
		jsonStrings("followUpDates", a.FollowUpDates),
	}
}
