package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/rezz/internal/core"
	"github.com/JonMunkholm/rezz/internal/db"
	"github.com/JonMunkholm/rezz/internal/db/dbtest"
)

// run executes rezzctl with args against a scripted session and returns
// stdout.
func run(t *testing.T, fake *dbtest.Session, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://rezz@localhost:5432/rezz_test")

	var gotConn string
	open := func(ctx context.Context, connString string, logger *slog.Logger) (*core.Service, error) {
		gotConn = connString
		h := db.NewHandle(db.WithSession(fake), db.WithLogger(logger))
		return core.NewService(h, core.WithLogger(logger)), nil
	}

	var out bytes.Buffer
	root := NewRootCmd(open)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		assert.NotEmpty(t, gotConn)
	}
	return out.String(), err
}

func TestPing(t *testing.T) {
	out, err := run(t, dbtest.NewSession(), "ping")
	require.NoError(t, err)
	assert.Regexp(t, `^ok \(`, out)

	fake := dbtest.NewSession()
	fake.FailPing(errors.New("connection reset by peer"))
	_, err = run(t, fake, "ping")
	require.Error(t, err)
}

func TestSchemaApply(t *testing.T) {
	fake := dbtest.NewSession()
	out, err := run(t, fake, "schema", "apply")
	require.NoError(t, err)
	assert.Equal(t, "schema applied\n", out)
	assert.Equal(t, 3, fake.Count("CREATE TABLE IF NOT EXISTS"))
}

func TestCount(t *testing.T) {
	fake := dbtest.NewSession()
	fake.On("SELECT COUNT(*) FROM resumes").Return([]string{"count"}, dbtest.Row("12"))

	out, err := run(t, fake, "count", "resumes")
	require.NoError(t, err)
	assert.Equal(t, "12\n", out)

	_, err = run(t, dbtest.NewSession(), "count", "invoices")
	assert.ErrorIs(t, err, core.ErrUnknownEntity)
}

func TestExport(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		out, err := run(t, dbtest.NewSession(), "export", "resumes", "--format", "CSV")
		require.NoError(t, err)
		assert.Equal(t, "ID,Name,Email,City,Phone,LinkedIn,Website,Interests\n", out)
	})

	t.Run("into a directory", func(t *testing.T) {
		dir := t.TempDir()
		out, err := run(t, dbtest.NewSession(), "export", "listings", "-f", "json", "-o", dir)
		require.NoError(t, err)

		path := filepath.Clean(out[:len(out)-1])
		assert.Equal(t, dir, filepath.Dir(path))
		assert.Regexp(t, `^listings_[0-9a-f]{8}\.json$`, filepath.Base(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"jobListings"`)
	})

	t.Run("named file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "apps.csv")
		_, err := run(t, dbtest.NewSession(), "export", "applications", "--format", "csv", "--out", path)
		require.NoError(t, err)
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := run(t, dbtest.NewSession(), "export", "resumes", "--format", "xml")
		assert.ErrorIs(t, err, core.ErrUnknownFormat)
	})
}
