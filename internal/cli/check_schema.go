package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/conciliacao/internal/config"
	"github.com/JonMunkholm/conciliacao/internal/core"
	"github.com/JonMunkholm/conciliacao/internal/database"
)

// ErrSchemaDrift is returned when the live database differs from the registry.
var ErrSchemaDrift = errors.New("schema drift detected")

func checkSchemaCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check-schema",
		Short: "Compare the registry with the live database columns",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			pool, err := database.Connect(c.Context(), cfg.Database, slog.Default())
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := core.NewService(pool, core.ServiceConfig{
				Schema:        cfg.Database.Schema,
				QueryTimeout:  cfg.Database.QueryTimeout,
				MaxConcurrent: cfg.Database.MaxConcurrentQueries,
				MaxWait:       cfg.Database.QueryWait,
			})
			return runCheckSchema(c, svc, format)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", formatText, "output format: text, json or yaml")
	return cmd
}

func runCheckSchema(c *cobra.Command, svc *core.Service, format string) error {
	report, err := svc.CheckSchema(c.Context())
	if err != nil {
		return err
	}

	out := c.OutOrStdout()
	if format != formatText {
		if err := encode(out, format, report); err != nil {
			return err
		}
	} else {
		writeReport(out, report)
	}

	if !report.OK {
		return ErrSchemaDrift
	}
	return nil
}

func writeReport(w io.Writer, report *core.SchemaReport) {
	fmt.Fprintf(w, "schema %q (report %s)\n", report.Schema, report.ID)
	for _, st := range report.Tables {
		switch {
		case !st.Exists:
			fmt.Fprintf(w, "  MISSING  %s (%s)\n", st.Table, st.Concept)
		case st.OK():
			fmt.Fprintf(w, "  ok       %s\n", st.Table)
		default:
			fmt.Fprintf(w, "  DRIFT    %s\n", st.Table)
			if len(st.MissingColumns) > 0 {
				fmt.Fprintf(w, "           missing: %s\n", strings.Join(st.MissingColumns, ", "))
			}
			if len(st.ExtraColumns) > 0 {
				fmt.Fprintf(w, "           extra:   %s\n", strings.Join(st.ExtraColumns, ", "))
			}
		}
	}
}
