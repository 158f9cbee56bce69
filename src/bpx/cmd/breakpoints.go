package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/gateway/debugger"
)

var (
	addKind      string
	addFile      string
	addLine      int
	addCondition string
	addLog       string
	addDisabled  bool
)

var breakpointsCmd = &cobra.Command{
	Use:     "breakpoints",
	Aliases: []string{"bp"},
	Short:   "Manage the breakpoints installed in the debugger",
}

var breakpointsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed breakpoints with their tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, s services) error {
			all, err := s.Debugger.ListAll(ctx)
			if err != nil {
				return err
			}
			for _, bp := range all {
				var tags []entity.Tag
				if s.Tags.Enabled() {
					if tags, err = s.Tags.TagsOf(ctx, bp); err != nil {
						return err
					}
				}
				printBreakpoint(cmd.OutOrStdout(), bp, tags)
			}
			return nil
		})
	},
}

var breakpointsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Install a line breakpoint",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := entity.ParseKind(addKind)
		if !ok {
			return fmt.Errorf("unknown breakpoint kind %q", addKind)
		}
		if !kind.LineOriented() {
			return fmt.Errorf("only line breakpoints can be added from the command line, got %s", kind)
		}
		if addLine < 1 {
			return fmt.Errorf("line must be positive, got %d", addLine)
		}

		return withServices(cmd, func(ctx context.Context, s services) error {
			fileURL, err := s.WorkspaceUtils.AbsoluteURL(ctx, addFile)
			if err != nil {
				return err
			}

			state := entity.BreakpointState{
				FileURL:       fileURL,
				Line:          addLine - 1,
				Enabled:       !addDisabled,
				Condition:     addCondition,
				LogExpression: addLog,
				SuspendPolicy: entity.SuspendAll,
			}
			metadata := &entity.TagMetadata{URL: fileURL, RelativeURL: addFile, Line: state.Line}
			record, err := s.Registry.Create(kind, "", state, nil, metadata)
			if err != nil {
				return err
			}

			added, err := s.Debugger.Add(ctx, &record.Breakpoint, debugger.AddOptions{Notify: true})
			if err != nil {
				return err
			}
			printBreakpoint(cmd.OutOrStdout(), added, nil)
			return nil
		})
	},
}

var breakpointsRemoveCmd = &cobra.Command{
	Use:   "remove ID...",
	Short: "Remove installed breakpoints",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, s services) error {
			for _, id := range args {
				bp, err := getBreakpoint(ctx, s.Debugger, id)
				if err != nil {
					return err
				}
				if err := s.Debugger.Remove(ctx, bp.ID, debugger.RemoveOptions{Notify: true}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", bp)
			}
			return nil
		})
	},
}

func init() {
	breakpointsAddCmd.Flags().StringVar(&addKind, "kind", "Java.Line", "breakpoint kind, e.g. Java.Line or Python.Line")
	breakpointsAddCmd.Flags().StringVar(&addFile, "file", "", "workspace relative file path")
	breakpointsAddCmd.Flags().IntVar(&addLine, "line", 0, "one-based line number")
	breakpointsAddCmd.Flags().StringVar(&addCondition, "condition", "", "condition expression")
	breakpointsAddCmd.Flags().StringVar(&addLog, "log", "", "expression logged when the breakpoint is hit")
	breakpointsAddCmd.Flags().BoolVar(&addDisabled, "disabled", false, "install the breakpoint disabled")
	_ = breakpointsAddCmd.MarkFlagRequired("file")
	_ = breakpointsAddCmd.MarkFlagRequired("line")

	breakpointsCmd.AddCommand(breakpointsListCmd, breakpointsAddCmd, breakpointsRemoveCmd)
	rootCmd.AddCommand(breakpointsCmd)
}
