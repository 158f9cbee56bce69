package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	importOverride bool
	importDryRun   bool
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import breakpoints from an XML file",
	Long: `Reads an exported breakpoints file and installs its breakpoints. Records whose
file no longer exists in the workspace are logged and installed at the location
recorded in the file, without conflict detection. When a breakpoint
already exists at the same location it is kept, unless --override is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, s services) error {
			result, err := s.Importer.Import(ctx, args[0])
			if err != nil {
				return err
			}

			for _, a := range result.Advisories {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", a.Message)
			}

			out := cmd.OutOrStdout()
			for _, record := range result.Records {
				marker := " "
				if c := result.ConflictFor(record); c != nil {
					c.Override = importOverride
					marker = "!"
				}
				fmt.Fprintf(out, "%s %s\n", marker, record)
			}
			fmt.Fprintf(out, "Staged %d breakpoints, %d conflicting\n", len(result.Records), len(result.Conflicts))
			if importDryRun {
				return nil
			}

			committed, err := s.Resolver.Commit(ctx, result.Records, result.Conflicts)
			if committed != nil {
				fmt.Fprintf(out, "Applied %d, kept %d existing, failed %d\n", committed.Applied, committed.Skipped, committed.Failed)
			}
			return err
		})
	},
}

func init() {
	importCmd.Flags().BoolVar(&importOverride, "override", false, "replace existing breakpoints at the same location")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "only report what would be imported")

	rootCmd.AddCommand(importCmd)
}
