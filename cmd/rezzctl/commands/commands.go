package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/rezz/internal/core"
)

func (a *app) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the database answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start := time.Now()
			if err := a.service.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("ping: %s", core.MapError(err).Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok (%s)\n", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the database schema",
	}
	schemaCmd.AddCommand(&cobra.Command{
		Use:   "apply",
		Short: "Create any missing tables",
		Long:  `Create every rezz table that does not exist yet. Existing tables are left untouched.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.service.ApplySchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	})
	return schemaCmd
}

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <entity>",
		Short: "Export an entity as JSON or CSV",
		Long: `Export every row of an entity (applications, listings or resumes).
Output goes to stdout unless --out names a file. When --out is a directory a
file named <entity>_<id>.<format> is created inside it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity := args[0]
			format, _ := cmd.Flags().GetString(flagFormat)
			format = strings.ToLower(format)
			out, _ := cmd.Flags().GetString(flagOut)

			doc, err := a.service.Export(cmd.Context(), entity, format)
			if err != nil {
				return err
			}

			if out == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), doc)
				return err
			}

			path := exportPath(out, entity, format)
			if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			a.logger.Info("export written", "entity", entity, "format", format, "path", path, "bytes", len(doc))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringP(flagFormat, "f", core.FormatJSON, "output format: json or csv")
	cmd.Flags().StringP(flagOut, "o", "", "output file or directory (default: stdout)")
	return cmd
}

// exportPath resolves --out. A directory gets a generated file name.
func exportPath(out, entity, format string) string {
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		id := strings.SplitN(uuid.NewString(), "-", 2)[0]
		return filepath.Join(out, fmt.Sprintf("%s_%s.%s", entity, id, format))
	}
	return out
}

func (a *app) countCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count <entity>",
		Short: "Print the number of stored rows of an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.service.Count(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}
