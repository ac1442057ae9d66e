package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/conciliacao/internal/core"
)

func tablesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tables [concept]",
		Short: "List registered finance tables, or show one table's columns",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			out := c.OutOrStdout()

			if len(args) == 1 {
				concept, err := core.ParseConcept(args[0])
				if err != nil {
					return err
				}
				def, _ := core.Get(concept)
				if format != formatText {
					return encode(out, format, def)
				}

				fmt.Fprintf(out, "%s -> %s\n\n", def.Info.Key, def.Info.Table)
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "COLUMN\tTYPE\tNULLABLE")
				for _, col := range def.ColumnSpecs {
					fmt.Fprintf(tw, "%s\t%s\t%t\n", col.Name, col.Type, col.Nullable)
				}
				return tw.Flush()
			}

			if format != formatText {
				return encode(out, format, core.TableNames())
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CONCEPT\tTABLE\tSOFT DELETE")
			for _, def := range core.All() {
				soft := def.Info.SoftDeleteColumn
				if soft == "" {
					soft = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", def.Info.Key, def.Info.Table, soft)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d tables: %s\n", core.TableCount(), strings.Join(conceptStrings(), ", "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", formatText, "output format: text, json or yaml")
	return cmd
}

func conceptStrings() []string {
	concepts := core.Concepts()
	out := make([]string, len(concepts))
	for i, c := range concepts {
		out[i] = string(c)
	}
	return out
}
