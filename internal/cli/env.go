package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/conciliacao/internal/config"
)

func envCmd() *cobra.Command {
	var (
		export bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "env",
		Short: "Print the public environment bootstrap",
		Long: "Print the three public entries clients may see. DATABASE_URL and\n" +
			"API_KEYS are read only to refuse public values equal to them.",
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			pub, err := config.LoadPublicEnv()
			if err != nil {
				return err
			}

			entries := pub.Entries()
			if !export {
				if format == formatText {
					format = formatJSON
				}
				return encode(c.OutOrStdout(), format, entries)
			}

			for _, key := range config.Keys() {
				fmt.Fprintf(c.OutOrStdout(), "%s=%q\n", key, entries[key])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&export, "export", false, "print KEY=\"value\" lines")
	cmd.Flags().StringVarP(&format, "output", "o", formatJSON, "output format: json or yaml")
	return cmd
}
