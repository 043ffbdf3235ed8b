package schema

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		spec FieldSpec
		n    int
		want string
	}{
		{"text", FieldSpec{Name: "company", Type: FieldText}, 3, "$3"},
		{"int", FieldSpec{Name: "status", Type: FieldInt}, 6, "$6"},
		{"required date", FieldSpec{Name: "d", Type: FieldDate}, 1, "$1"},
		{"nullable date", FieldSpec{Name: "d", Type: FieldDate, Nullable: true}, 5, "NULLIF($5, '')::date"},
		{"today date", FieldSpec{Name: "d", Type: FieldDate, Today: true}, 14, "COALESCE(NULLIF($14, '')::date, CURRENT_DATE)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Placeholder(tt.spec, tt.n); got != tt.want {
				t.Errorf("Placeholder() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssignmentsAndPlaceholders(t *testing.T) {
	specs := []FieldSpec{
		{Name: "title", Type: FieldText},
		{Name: "deadline", Type: FieldDate, Nullable: true},
	}

	if got, want := Placeholders(specs, 2), "$2, NULLIF($3, '')::date"; got != want {
		t.Errorf("Placeholders() = %q, want %q", got, want)
	}
	if got, want := Assignments(specs, 1), "title = $1, deadline = NULLIF($2, '')::date"; got != want {
		t.Errorf("Assignments() = %q, want %q", got, want)
	}
	if got, want := ColumnList(specs), "title, deadline"; got != want {
		t.Errorf("ColumnList() = %q, want %q", got, want)
	}
}

func TestTableSpecs(t *testing.T) {
	if JobApplicationFields[0].Name != "application_id" {
		t.Errorf("application_id must bind first, got %s", JobApplicationFields[0].Name)
	}
	if JobListingFields[0].Name != "job_id" {
		t.Errorf("job_id must bind first, got %s", JobListingFields[0].Name)
	}
	if len(JobListingUpdateFields) != len(JobListingFields)-1 {
		t.Errorf("update fields = %d, want %d", len(JobListingUpdateFields), len(JobListingFields)-1)
	}
	for _, f := range JobListingUpdateFields {
		if f.Name == "posted_date" {
			t.Error("posted_date must not be updated")
		}
	}
	if len(JobApplicationCSVHeader) != len(JobApplicationFields)+2 {
		t.Errorf("application header has %d columns, want fields plus two date lists", len(JobApplicationCSVHeader))
	}
}

type recordingExecer struct {
	batches []string
	failOn  string
}

func (r *recordingExecer) ExecuteNonQuery(_ context.Context, sql string) error {
	r.batches = append(r.batches, sql)
	if r.failOn != "" && strings.Contains(sql, r.failOn) {
		return errors.New("relation conflict")
	}
	return nil
}

func TestApply(t *testing.T) {
	t.Run("applies every file in order", func(t *testing.T) {
		names, err := Files()
		if err != nil {
			t.Fatalf("Files() error = %v", err)
		}
		if len(names) != 3 {
			t.Fatalf("Files() = %v, want 3 files", names)
		}

		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

		ex := &recordingExecer{}
		if err := Apply(context.Background(), ex, logger); err != nil {
			t.Fatalf("Apply() error = %v", err)
		}
		if len(ex.batches) != len(names) {
			t.Fatalf("executed %d batches, want %d", len(ex.batches), len(names))
		}

		order := []string{Resumes, JobListings, JobApplications}
		for i, table := range order {
			if !strings.Contains(ex.batches[i], "CREATE TABLE IF NOT EXISTS "+table+" (") {
				t.Errorf("batch %d does not create %s", i, table)
			}
		}
		if got := strings.Count(logs.String(), "schema file applied"); got != len(names) {
			t.Errorf("logged %d applied files to the given logger, want %d", got, len(names))
		}
	})

	t.Run("stops at first failure", func(t *testing.T) {
		ex := &recordingExecer{failOn: "job_listings"}
		err := Apply(context.Background(), ex, nil)
		if err == nil || !strings.Contains(err.Error(), "002_job_listings.sql") {
			t.Fatalf("Apply() error = %v, want failure naming the file", err)
		}
		if len(ex.batches) != 2 {
			t.Errorf("executed %d batches, want 2", len(ex.batches))
		}
	})

	t.Run("every table is declared", func(t *testing.T) {
		var all strings.Builder
		names, _ := Files()
		for _, n := range names {
			ddl, err := DDL(n)
			if err != nil {
				t.Fatal(err)
			}
			all.WriteString(ddl)
		}
		for _, table := range []string{
			JobApplications, InterviewDates, FollowUpDates,
			JobListings, JobRequiredSkills, JobPreferredSkills,
			Resumes, ResumeSkills, ResumeEducation, ResumeExperiences,
		} {
			if !strings.Contains(all.String(), "CREATE TABLE IF NOT EXISTS "+table+" (") {
				t.Errorf("no DDL for %s", table)
			}
		}
	})
}
