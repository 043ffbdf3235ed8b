package core

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/rezz/internal/db"
	"github.com/JonMunkholm/rezz/internal/db/dbtest"
	"github.com/JonMunkholm/rezz/internal/models"
)

const countResumes = "SELECT COUNT(*) FROM resumes"

func resumeRow(id, name, email string) []*string {
	return dbtest.Null(dbtest.Row(id, name, email, "Berlin", "555-0199", "", "", "climbing, chess"), 5, 6)
}

func TestResumeController_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id", func(t *testing.T) {
		svc, fake := newFakeService(t)
		fake.On(countResumes).Return([]string{"count"}, dbtest.Row("0"))
		fake.On("RETURNING id").Return([]string{"id"}, dbtest.Row("3"))

		r := models.NewResume("Ada", "ada@example.com", "Berlin", "555-0199")
		id, err := svc.Resumes.Create(ctx, r)
		require.NoError(t, err)
		assert.Equal(t, 3, id)
		assert.Equal(t, 3, r.ID)
		assert.Equal(t, []string{"SELECT", "BEGIN", "INSERT INTO resumes", "COMMIT"}, verbs(fake))
		assert.Equal(t, []string{"ada@example.com"}, statement(t, fake, "COUNT(*)").Args)
	})

	t.Run("taken email", func(t *testing.T) {
		svc, fake := newFakeService(t)
		fake.On(countResumes).Return([]string{"count"}, dbtest.Row("1"))

		_, err := svc.Resumes.Create(ctx, models.NewResume("Ada", "ada@example.com", "", ""))
		assert.ErrorIs(t, err, ErrAlreadyExists)
		assert.Equal(t, 0, fake.Count("INSERT"))
	})

	t.Run("email required", func(t *testing.T) {
		svc, _ := newFakeService(t)
		_, err := svc.Resumes.Create(ctx, &models.Resume{Name: "Ada"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestResumeController_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("clears child tables", func(t *testing.T) {
		svc, fake := newFakeService(t)
		fake.On(countResumes).Return([]string{"count"}, dbtest.Row("1"))

		r := models.NewResume("Ada", "ada@example.com", "Berlin", "")
		r.ID = 3
		require.NoError(t, svc.Resumes.Update(ctx, r))
		assert.Equal(t, []string{
			"SELECT",
			"BEGIN",
			"UPDATE resumes",
			"DELETE FROM resume_skills",
			"DELETE FROM resume_education",
			"DELETE FROM resume_experiences",
			"COMMIT",
		}, verbs(fake))
		assert.Equal(t, "3", statement(t, fake, "UPDATE resumes").Args[0])
	})

	t.Run("email collision", func(t *testing.T) {
		svc, fake := newFakeService(t)
		fake.On(countResumes).Return([]string{"count"}, dbtest.Row("1"))
		fake.On("UPDATE resumes").Fail(uniqueViolation())

		r := models.NewResume("Ada", "taken@example.com", "", "")
		r.ID = 3
		err := svc.Resumes.Update(ctx, r)
		assert.ErrorIs(t, err, ErrAlreadyExists)
		assert.Equal(t, 1, fake.Count("ROLLBACK"))
	})

	t.Run("basic info on missing id", func(t *testing.T) {
		svc, fake := newFakeService(t)
		fake.On("UPDATE resumes").Tag("UPDATE 0")
		err := svc.Resumes.UpdateBasicInfo(ctx, 99, "Ada", "ada@example.com", "Berlin", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestResumeController_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("by email resolves the id", func(t *testing.T) {
		svc, fake := newFakeService(t)
		fake.On("SELECT id FROM resumes").Return([]string{"id"}, dbtest.Row("3"))

		require.NoError(t, svc.Resumes.DeleteByEmail(ctx, "ada@example.com"))
		assert.Equal(t, []string{
			"SELECT",
			"BEGIN",
			"DELETE FROM resume_skills",
			"DELETE FROM resume_education",
			"DELETE FROM resume_experiences",
			"DELETE FROM resumes",
			"COMMIT",
		}, verbs(fake))
		assert.Equal(t, []string{"3"}, statement(t, fake, "DELETE FROM resumes").Args)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, fake := newFakeService(t)
		require.NoError(t, svc.Resumes.DeleteByEmail(ctx, "ghost@example.com"))
		assert.Equal(t, 0, fake.Count("BEGIN"))
	})

	t.Run("no connection", func(t *testing.T) {
		assert.ErrorIs(t, disconnectedService().Resumes.Delete(ctx, 1), db.ErrNotConnected)
	})
}

func TestResumeController_Reads(t *testing.T) {
	ctx := context.Background()
	svc, fake := newFakeService(t)
	fake.On("SELECT id, name").Return(resumeColumns, resumeRow("3", "Ada", "ada@example.com"))

	r, err := svc.Resumes.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, r.ID)
	assert.Equal(t, "", r.LinkedIn)
	assert.Zero(t, r.Skills.Len())

	_, err = svc.Resumes.GetByName(ctx, "ad")
	require.NoError(t, err)
	st := fake.Statements()[1]
	assert.Contains(t, st.SQL, "LOWER(name) LIKE LOWER($1)")
	assert.Contains(t, st.SQL, "ORDER BY created_at DESC")
}

func TestResumeController_Export(t *testing.T) {
	ctx := context.Background()
	svc, fake := newFakeService(t)
	fake.On("SELECT id, name").Return(resumeColumns,
		resumeRow("3", "Ada", "ada@example.com"),
		resumeRow("4", `Grace "Amazing" Hopper`, "grace@example.com"))

	out, err := svc.Resumes.ExportToJSON(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "      \"id\": 3,\n")

	var doc struct {
		Resumes []models.Resume `json:"resumes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Resumes, 2)
	assert.Equal(t, `Grace "Amazing" Hopper`, doc.Resumes[1].Name)

	csv, err := svc.Resumes.ExportToCSV(ctx)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(csv, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Name,Email,City,Phone,LinkedIn,Website,Interests", lines[0])
	assert.Equal(t, `3,Ada,ada@example.com,Berlin,555-0199,,,"climbing, chess"`, lines[1])
	assert.Equal(t, `4,"Grace ""Amazing"" Hopper",grace@example.com,Berlin,555-0199,,,"climbing, chess"`, lines[2])
}
