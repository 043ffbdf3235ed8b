package schema

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

//go:embed sql/*.sql
var ddlFS embed.FS

// Execer runs a batch of statements with no parameters. *db.Handle
// satisfies it.
type Execer interface {
	ExecuteNonQuery(ctx context.Context, sql string) error
}

// Files returns the embedded DDL file names in apply order.
func Files() ([]string, error) {
	entries, err := ddlFS.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("read ddl dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// DDL returns the contents of one embedded file.
func DDL(name string) (string, error) {
	data, err := ddlFS.ReadFile("sql/" + name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

// Apply creates every table and index that does not exist yet. Each file
// is sent as one multi-statement batch; the first failure stops the run.
// A nil logger is silent.
func Apply(ctx context.Context, ex Execer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	names, err := Files()
	if err != nil {
		return err
	}

	for _, name := range names {
		ddl, err := DDL(name)
		if err != nil {
			return err
		}
		if err := ex.ExecuteNonQuery(ctx, ddl); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		logger.Debug("schema file applied", "file", name)
	}
	return nil
}
