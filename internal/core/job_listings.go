package core

import (
	"context"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/JonMunkholm/rezz/internal/db"
	"github.com/JonMunkholm/rezz/internal/models"
	"github.com/JonMunkholm/rezz/internal/schema"
)

var (
	listingColumns = append([]string{"id"}, schema.Names(schema.JobListingFields)...)

	insertListingSQL = fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		schema.JobListings,
		schema.ColumnList(schema.JobListingFields),
		schema.Placeholders(schema.JobListingFields, 1),
	)

	updateListingSQL = fmt.Sprintf(
		"UPDATE %s SET %s, updated_at = CURRENT_TIMESTAMP WHERE job_id = $1",
		schema.JobListings,
		schema.Assignments(schema.JobListingUpdateFields[1:], 2),
	)
)

// JobListingController persists job listings. Listings are addressed by
// job id; the numeric id assigned on insert keys the skill tables.
type JobListingController struct {
	base
}

// NewJobListingController returns a controller bound to h.
func NewJobListingController(h *db.Handle, opts ...Option) *JobListingController {
	return &JobListingController{base: newBase(h, "job_listing", opts)}
}

// ListingFilter combines the list filters. Zero fields are ignored.
type ListingFilter struct {
	Company    string
	Location   string
	Type       models.JobType
	Level      models.ExperienceLevel
	MinSalary  float64
	MaxSalary  float64
	ActiveOnly bool
}

// Create inserts l and returns the id the store assigned. l.ID is set too.
func (c *JobListingController) Create(ctx context.Context, l *models.JobListing) (int, error) {
	if l == nil || l.JobID == "" {
		return 0, fmt.Errorf("create listing: %w: job id is required", ErrInvalidInput)
	}
	if err := c.ensureConnected(ctx); err != nil {
		return 0, err
	}

	exists, err := c.Exists(ctx, l.JobID)
	if err != nil {
		return 0, fmt.Errorf("create listing %s: %w", l.JobID, err)
	}
	if exists {
		c.logger.Warn("listing already exists", "job_id", l.JobID)
		return 0, fmt.Errorf("create listing %s: %w", l.JobID, ErrAlreadyExists)
	}

	var id int
	err = c.inTx(ctx, "create listing", func() error {
		cur, err := c.query(ctx, insertListingSQL, listingParams(l, true)...)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
			}
			return err
		}
		if !cur.Next() {
			return fmt.Errorf("insert listing %s: %w", l.JobID, db.ErrNoRows)
		}
		id = cur.GetIntByName("id")

		if err := c.insertRequiredSkills(ctx, id, l.RequiredSkills); err != nil {
			return err
		}
		return c.insertPreferredSkills(ctx, id, l.PreferredSkills)
	})
	if err != nil {
		return 0, err
	}

	l.ID = id
	return id, nil
}

// GetByJobID loads one listing, or ErrNotFound.
func (c *JobListingController) GetByJobID(ctx context.Context, jobID string) (*models.JobListing, error) {
	return c.one(ctx, "listing "+jobID, equal("job_id", jobID))
}

// GetByID loads one listing by its numeric id, or ErrNotFound.
func (c *JobListingController) GetByID(ctx context.Context, id int) (*models.JobListing, error) {
	return c.one(ctx, "listing #"+itoa(id), equal("id", itoa(id)))
}

// GetAll returns every listing, newest posting first.
func (c *JobListingController) GetAll(ctx context.Context) ([]models.JobListing, error) {
	return c.list(ctx, orderBy("posted_date DESC"))
}

// GetByCompany matches company as a case-insensitive substring.
func (c *JobListingController) GetByCompany(ctx context.Context, company string) ([]models.JobListing, error) {
	return c.list(ctx, containsFold("company", company), orderBy("posted_date DESC"))
}

// GetByLocation matches location as a case-insensitive substring.
func (c *JobListingController) GetByLocation(ctx context.Context, location string) ([]models.JobListing, error) {
	return c.list(ctx, containsFold("location", location), orderBy("posted_date DESC"))
}

func (c *JobListingController) GetByType(ctx context.Context, t models.JobType) ([]models.JobListing, error) {
	return c.list(ctx, equal("job_type", itoa(int(t))), orderBy("posted_date DESC"))
}

func (c *JobListingController) GetByExperienceLevel(ctx context.Context, level models.ExperienceLevel) ([]models.JobListing, error) {
	return c.list(ctx, equal("experience_level", itoa(int(level))), orderBy("posted_date DESC"))
}

// GetBySalaryRange returns listings whose whole range lies inside
// [minSalary, maxSalary], highest maximum first.
func (c *JobListingController) GetBySalaryRange(ctx context.Context, minSalary, maxSalary float64) ([]models.JobListing, error) {
	return c.list(ctx, salaryAtLeast(minSalary), salaryAtMost(maxSalary), orderBy("salary_max DESC"))
}

// GetActive returns the listings still accepting applications.
func (c *JobListingController) GetActive(ctx context.Context) ([]models.JobListing, error) {
	return c.list(ctx, equal("is_active", "true"), orderBy("posted_date DESC"))
}

// Find applies every non-zero filter field. A salary bound switches the
// order to highest maximum first.
func (c *JobListingController) Find(ctx context.Context, f ListingFilter) ([]models.JobListing, error) {
	var opts []ListOption
	if f.Company != "" {
		opts = append(opts, containsFold("company", f.Company))
	}
	if f.Location != "" {
		opts = append(opts, containsFold("location", f.Location))
	}
	if f.Type != 0 {
		opts = append(opts, equal("job_type", itoa(int(f.Type))))
	}
	if f.Level != 0 {
		opts = append(opts, equal("experience_level", itoa(int(f.Level))))
	}
	if f.ActiveOnly {
		opts = append(opts, equal("is_active", "true"))
	}

	order := "posted_date DESC"
	if f.MinSalary > 0 {
		opts = append(opts, salaryAtLeast(f.MinSalary))
		order = "salary_max DESC"
	}
	if f.MaxSalary > 0 {
		opts = append(opts, salaryAtMost(f.MaxSalary))
		order = "salary_max DESC"
	}
	return c.list(ctx, append(opts, orderBy(order))...)
}

// Update rewrites the listing row, leaving posted_date alone, and replaces
// the skill lists. Returns ErrNotFound when the job id does not exist.
func (c *JobListingController) Update(ctx context.Context, l *models.JobListing) error {
	if l == nil || l.JobID == "" {
		return fmt.Errorf("update listing: %w: job id is required", ErrInvalidInput)
	}
	if err := c.ensureConnected(ctx); err != nil {
		return err
	}

	exists, err := c.Exists(ctx, l.JobID)
	if err != nil {
		return fmt.Errorf("update listing %s: %w", l.JobID, err)
	}
	if !exists {
		c.logger.Warn("listing does not exist", "job_id", l.JobID)
		return fmt.Errorf("update listing %s: %w", l.JobID, ErrNotFound)
	}

	return c.inTx(ctx, "update listing", func() error {
		if err := c.exec(ctx, updateListingSQL, listingParams(l, false)...); err != nil {
			return err
		}

		id, found, err := c.surrogateID(ctx, l.JobID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("listing %s: %w", l.JobID, ErrNotFound)
		}
		return c.replaceSkills(ctx, id, l)
	})
}

// UpdateStatus opens or closes a listing.
func (c *JobListingController) UpdateStatus(ctx context.Context, jobID string, active bool) error {
	if err := c.ensureConnected(ctx); err != nil {
		return err
	}
	cur, err := c.query(ctx,
		"UPDATE job_listings SET is_active = $2, updated_at = CURRENT_TIMESTAMP WHERE job_id = $1",
		jobID, strconv.FormatBool(active))
	if err != nil {
		return fmt.Errorf("update listing status %s: %w", jobID, err)
	}
	if cur.RowsAffected() == 0 {
		return fmt.Errorf("update listing status %s: %w", jobID, ErrNotFound)
	}
	return nil
}

// UpdateSalary sets the salary range. An empty currency stores USD.
func (c *JobListingController) UpdateSalary(ctx context.Context, jobID string, minSalary, maxSalary float64, currency string) error {
	if err := c.ensureConnected(ctx); err != nil {
		return err
	}
	if currency == "" {
		currency = models.DefaultCurrency
	}
	cur, err := c.query(ctx,
		"UPDATE job_listings SET salary_min = $2, salary_max = $3, salary_currency = $4, updated_at = CURRENT_TIMESTAMP WHERE job_id = $1",
		jobID, ftoa(minSalary), ftoa(maxSalary), currency)
	if err != nil {
		return fmt.Errorf("update listing salary %s: %w", jobID, err)
	}
	if cur.RowsAffected() == 0 {
		return fmt.Errorf("update listing salary %s: %w", jobID, ErrNotFound)
	}
	return nil
}

// Delete removes the skill rows and the listing in one transaction.
// Deleting an unknown job id succeeds without touching the store.
func (c *JobListingController) Delete(ctx context.Context, jobID string) error {
	if err := c.ensureConnected(ctx); err != nil {
		return err
	}

	id, found, err := c.surrogateID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("delete listing %s: %w", jobID, err)
	}
	if !found {
		c.logger.Debug("delete of unknown listing", "job_id", jobID)
		return nil
	}

	return c.inTx(ctx, "delete listing", func() error {
		if err := c.deleteSkills(ctx, schema.JobRequiredSkills, id); err != nil {
			return err
		}
		if err := c.deleteSkills(ctx, schema.JobPreferredSkills, id); err != nil {
			return err
		}
		return c.exec(ctx, "DELETE FROM job_listings WHERE job_id = $1", jobID)
	})
}

// DeleteByCompany removes every listing whose company equals company,
// ignoring case.
func (c *JobListingController) DeleteByCompany(ctx context.Context, company string) (int64, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return 0, err
	}
	cur, err := c.query(ctx, "DELETE FROM job_listings WHERE LOWER(company) = LOWER($1)", company)
	if err != nil {
		return 0, fmt.Errorf("delete listings for %s: %w", company, err)
	}
	return cur.RowsAffected(), nil
}

func (c *JobListingController) Count(ctx context.Context) (int, error) {
	return c.count(ctx, psql.Select("COUNT(*)").From(schema.JobListings))
}

func (c *JobListingController) CountActive(ctx context.Context) (int, error) {
	return c.count(ctx, psql.Select("COUNT(*)").From(schema.JobListings).Where("is_active = true"))
}

// CountByCompany counts exact, case-insensitive company matches.
func (c *JobListingController) CountByCompany(ctx context.Context, company string) (int, error) {
	return c.count(ctx, apply(psql.Select("COUNT(*)").From(schema.JobListings),
		[]ListOption{equalFold("company", company)}))
}

// Exists reports whether a listing with the job id is stored.
func (c *JobListingController) Exists(ctx context.Context, jobID string) (bool, error) {
	return c.exists(ctx, psql.Select("COUNT(*)").From(schema.JobListings).
		Where(sq.Eq{"job_id": jobID}))
}

// ExportToJSON renders every listing under "jobListings".
func (c *JobListingController) ExportToJSON(ctx context.Context) (string, error) {
	listings, err := c.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("export listings: %w", err)
	}

	doc := newJSONDoc(schema.JobListingsJSONKey)
	for i := range listings {
		doc.element(listingJSON(&listings[i]))
	}
	return doc.String(), nil
}

// ExportToCSV renders the listing summary columns, one row per listing.
func (c *JobListingController) ExportToCSV(ctx context.Context) (string, error) {
	listings, err := c.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("export listings: %w", err)
	}

	doc := newCSVDoc(schema.JobListingCSVHeader)
	for _, l := range listings {
		doc.row(
			l.JobID, l.Title, l.Company, l.Location,
			l.RemoteType.String(), l.JobType.String(), l.ExperienceLevel.String(),
			ftoa(l.SalaryMin), ftoa(l.SalaryMax), l.SalaryCurrency,
			itoa(l.MinimumYearsExperience), l.PostedDate, l.ApplicationDeadline,
			l.ApplicationURL, l.ContactEmail, yesNo(l.IsActive),
		)
	}
	return doc.String(), nil
}

func (c *JobListingController) ImportFromJSON(ctx context.Context, doc string) error {
	return fmt.Errorf("listings: %w", ErrNotImplemented)
}

func (c *JobListingController) one(ctx context.Context, what string, opt ListOption) (*models.JobListing, error) {
	listings, err := c.list(ctx, opt)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return &listings[0], nil
}

func (c *JobListingController) list(ctx context.Context, opts ...ListOption) ([]models.JobListing, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	sb := apply(psql.Select(listingColumns...).From(schema.JobListings), opts)
	cur, err := c.selectRows(ctx, sb)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}

	listings := make([]models.JobListing, 0, cur.RowCount())
	for cur.Next() {
		l := scanListing(cur)
		l.RequiredSkills = c.requiredSkills(ctx, l.ID)
		l.PreferredSkills = c.preferredSkills(ctx, l.ID)
		listings = append(listings, l)
	}
	return listings, nil
}

func (c *JobListingController) surrogateID(ctx context.Context, jobID string) (int, bool, error) {
	cur, err := c.query(ctx, "SELECT id FROM job_listings WHERE job_id = $1", jobID)
	if err != nil {
		return 0, false, err
	}
	if !cur.Next() {
		return 0, false, nil
	}
	return cur.GetInt(0), true, nil
}

func (c *JobListingController) replaceSkills(ctx context.Context, id int, l *models.JobListing) error {
	if err := c.deleteSkills(ctx, schema.JobRequiredSkills, id); err != nil {
		return err
	}
	if err := c.deleteSkills(ctx, schema.JobPreferredSkills, id); err != nil {
		return err
	}
	if err := c.insertRequiredSkills(ctx, id, l.RequiredSkills); err != nil {
		return err
	}
	return c.insertPreferredSkills(ctx, id, l.PreferredSkills)
}

func (c *JobListingController) deleteSkills(ctx context.Context, table string, id int) error {
	sql := fmt.Sprintf("DELETE FROM %s WHERE job_listing_id = $1", table)
	if err := c.exec(ctx, sql, itoa(id)); err != nil {
		return fmt.Errorf("delete %s for #%d: %w", table, id, err)
	}
	return nil
}

// Skill persistence for listings is not wired yet: inserts succeed without
// writing and reads return an empty list. The deletes above are real.

func (c *JobListingController) insertRequiredSkills(ctx context.Context, id int, skills models.Skills) error {
	return nil
}

func (c *JobListingController) insertPreferredSkills(ctx context.Context, id int, skills models.Skills) error {
	return nil
}

func (c *JobListingController) requiredSkills(ctx context.Context, id int) models.Skills {
	return models.NewSkills("Required")
}

func (c *JobListingController) preferredSkills(ctx context.Context, id int) models.Skills {
	return models.NewSkills("Preferred")
}

func salaryAtLeast(v float64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Expr("salary_min >= ?", ftoa(v)))
	}
}

func salaryAtMost(v float64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Where(sq.Expr("salary_max <= ?", ftoa(v)))
	}
}

// listingParams follows schema.JobListingFields. Updates leave out
// posted_date.
func listingParams(l *models.JobListing, withPosted bool) []string {
	currency := l.SalaryCurrency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	params := []string{
		l.JobID,
		l.Title,
		l.Company,
		l.Description,
		l.Location,
		itoa(int(l.RemoteType)),
		itoa(int(l.JobType)),
		itoa(int(l.ExperienceLevel)),
		ftoa(l.SalaryMin),
		ftoa(l.SalaryMax),
		currency,
		itoa(l.MinimumYearsExperience),
		l.ApplicationDeadline,
	}
	if withPosted {
		params = append(params, l.PostedDate)
	}
	return append(params,
		l.ApplicationURL,
		l.ContactEmail,
		l.CompanySize,
		l.Industry,
		l.CompanyWebsite,
		strconv.FormatBool(l.IsActive),
		l.Department,
		l.ReportingTo,
	)
}

func scanListing(cur *db.Cursor) models.JobListing {
	return models.JobListing{
		ID:                     cur.GetIntByName("id"),
		JobID:                  cur.GetStringByName("job_id"),
		Title:                  cur.GetStringByName("title"),
		Company:                cur.GetStringByName("company"),
		Description:            cur.GetStringByName("description"),
		Location:               cur.GetStringByName("location"),
		RemoteType:             models.RemoteType(cur.GetIntByName("remote_type")),
		JobType:                models.JobType(cur.GetIntByName("job_type")),
		ExperienceLevel:        models.ExperienceLevel(cur.GetIntByName("experience_level")),
		SalaryMin:              cur.GetDoubleByName("salary_min"),
		SalaryMax:              cur.GetDoubleByName("salary_max"),
		SalaryCurrency:         cur.GetStringByName("salary_currency"),
		MinimumYearsExperience: cur.GetIntByName("minimum_years_experience"),
		ApplicationDeadline:    cur.GetStringByName("application_deadline"),
		PostedDate:             cur.GetStringByName("posted_date"),
		ApplicationURL:         cur.GetStringByName("application_url"),
		ContactEmail:           cur.GetStringByName("contact_email"),
		CompanySize:            cur.GetStringByName("company_size"),
		Industry:               cur.GetStringByName("industry"),
		CompanyWebsite:         cur.GetStringByName("company_website"),
		IsActive:               cur.GetBoolByName("is_active"),
		Department:             cur.GetStringByName("department"),
		ReportingTo:            cur.GetStringByName("reporting_to"),
	}
}

func listingJSON(l *models.JobListing) []jsonField {
	return []jsonField{
		jsonString("jobId", l.JobID),
		jsonString("title", l.Title),
		jsonString("company", l.Company),
		jsonString("description", l.Description),
		jsonString("location", l.Location),
		jsonString("remoteType", l.RemoteType.String()),
		jsonString("jobType", l.JobType.String()),
		jsonString("experienceLevel", l.ExperienceLevel.String()),
		jsonNumber("salaryMin", l.SalaryMin),
		jsonNumber("salaryMax", l.SalaryMax),
		jsonString("salaryCurrency", l.SalaryCurrency),
		jsonInt("minimumYearsExperience", l.MinimumYearsExperience),
		jsonString("applicationDeadline", l.ApplicationDeadline),
		jsonString("postedDate", l.PostedDate),
		jsonString("applicationUrl", l.ApplicationURL),
		jsonString("contactEmail", l.ContactEmail),
		jsonString("companySize", l.CompanySize),
		jsonString("industry", l.Industry),
		jsonString("companyWebsite", l.CompanyWebsite),
		jsonBool("isActive", l.IsActive),
		jsonString("department", l.Department),
		jsonString("reportingTo", l.ReportingTo),
	}
}
