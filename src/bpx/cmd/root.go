// Package cmd implements the bpx command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

// Global flags.
var configDir string

// appOptions is the application graph every command starts.
var appOptions fx.Option = fx.Options()

var rootCmd = &cobra.Command{
	Use:   "bpx",
	Short: "Export and import debugger breakpoints",
	Long: `bpx exports the breakpoints installed in the debugger to a portable XML file,
together with their tags and the version control position of the workspace,
and imports such files back, resolving conflicts with existing breakpoints.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bpx %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit:  %s\n", commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding meta.yaml (defaults to $BPX_CONFIG_DIR)")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command against the given application graph.
func Execute(opts fx.Option) error {
	appOptions = opts
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
