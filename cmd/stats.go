package cmd

import (
	"fmt"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/go-arrower/entitystore"
)

func newStatsCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"status"},
		Short:   "Show the number of entities per kind",
		Args:    cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			di, err := c.container(cmd)
			if err != nil {
				return err
			}

			status, err := entitystore.GetStatus(cmd.Context(), di, c.startedAt)
			if err != nil {
				return fmt.Errorf("could not get status: %w", err)
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), status)
			}

			w := cmd.OutOrStdout()
			blue := color.New(color.FgBlue, color.Bold).FprintfFunc()
			yellow := color.New(color.FgYellow).FprintfFunc()

			blue(w, "%s", status.ApplicationName)
			fmt.Fprintf(w, " (%s)\n", status.Environment)

			for _, kind := range di.Store.Kinds() {
				fmt.Fprintf(w, "  %-14s ", kindLabel(kind)+":")
				yellow(w, "%d\n", status.Entities[kind.String()])
			}

			if len(status.Operations) > 0 {
				fmt.Fprintln(w, "operations:")

				ops := make([]string, 0, len(status.Operations))
				for op := range status.Operations {
					ops = append(ops, op)
				}

				slices.Sort(ops)

				for _, op := range ops {
					fmt.Fprintf(w, "  %-20s %d\n", op, status.Operations[op])
				}
			}

			return nil
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the status as JSON")

	return cmd
}
