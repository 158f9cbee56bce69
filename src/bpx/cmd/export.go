package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uber/bpx/src/bpx/entity"
)

var (
	exportDir  string
	exportName string
	exportIDs  []string
	exportTag  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export breakpoints to an XML file",
	Long: `Writes the selected breakpoints, or all of them, to <name>.xml in the output
directory. An existing file is never overwritten: <name>(1).xml, <name>(2).xml
and so on are probed instead. Breakpoints that cannot be exported are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, s services) error {
			selected, err := selectBreakpoints(ctx, s)
			if err != nil {
				return err
			}

			stamp, err := s.VCS.Stamp(ctx)
			if err != nil {
				return err
			}

			result, err := s.Exporter.Export(ctx, selected, entity.ExportRequest{
				OutputDir: exportDir,
				BaseName:  exportName,
				Stamp:     stamp,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d breakpoints to %s\n", result.Exported, result.Path)
			if result.Skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d breakpoints that cannot be exported\n", result.Skipped)
			}
			return nil
		})
	},
}

func selectBreakpoints(ctx context.Context, s services) ([]*entity.Breakpoint, error) {
	if len(exportIDs) > 0 {
		result := make([]*entity.Breakpoint, 0, len(exportIDs))
		for _, id := range exportIDs {
			bp, err := getBreakpoint(ctx, s.Debugger, id)
			if err != nil {
				return nil, err
			}
			result = append(result, bp)
		}
		return result, nil
	}

	all, err := s.Debugger.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if exportTag == "" {
		return all, nil
	}

	tagged, err := s.Tags.Tagged(ctx, parseTag(exportTag))
	if err != nil {
		return nil, err
	}
	locations := make(map[entity.MetadataKey]struct{}, len(tagged))
	for _, m := range tagged {
		locations[m.Key()] = struct{}{}
	}

	var result []*entity.Breakpoint
	for _, bp := range all {
		key := entity.MetadataKey{URL: bp.State.FileURL, Line: bp.State.Line}
		if _, ok := locations[key]; ok {
			result = append(result, bp)
		}
	}
	return result, nil
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "output directory (defaults to the workspace root)")
	exportCmd.Flags().StringVar(&exportName, "name", "", "file name without extension (defaults to export.defaultFileName)")
	exportCmd.Flags().StringSliceVar(&exportIDs, "id", nil, "export only the breakpoints with these ids")
	exportCmd.Flags().StringVar(&exportTag, "tag", "", "export only the breakpoints tagged key=value")

	rootCmd.AddCommand(exportCmd)
}
