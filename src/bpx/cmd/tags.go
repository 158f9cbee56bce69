package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uber/bpx/src/bpx/internal/errors"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage breakpoint tags",
}

var tagsListCmd = &cobra.Command{
	Use:   "list [ID]",
	Short: "List the distinct tags, or the tags of one breakpoint",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, s services) error {
			if len(args) == 0 {
				all, err := s.Tags.List(ctx)
				if err != nil {
					return err
				}
				for _, t := range all {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			}

			bp, err := getBreakpoint(ctx, s.Debugger, args[0])
			if err != nil {
				return err
			}
			tags, err := s.Tags.TagsOf(ctx, bp)
			if err != nil {
				return err
			}
			for _, t := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		})
	},
}

var tagsSetCmd = &cobra.Command{
	Use:   "set ID key=value...",
	Short: "Replace the tags of a breakpoint",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, s services) error {
			bp, err := getBreakpoint(ctx, s.Debugger, args[0])
			if err != nil {
				return err
			}
			invalid, err := s.Tags.SaveTags(ctx, bp, parseTags(args[1:]))
			if err != nil {
				return err
			}
			if len(invalid) > 0 {
				return &errors.ValidationError{Fields: invalid}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d tags on %s\n", len(args)-1, bp)
			return nil
		})
	},
}

var tagsRemoveCmd = &cobra.Command{
	Use:   "remove key=value",
	Short: "Remove a tag from every breakpoint carrying it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, s services) error {
			tag := parseTag(args[0])
			n, err := s.Tags.RemoveTag(ctx, tag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %d breakpoints\n", tag, n)
			return nil
		})
	},
}

func init() {
	tagsCmd.AddCommand(tagsListCmd, tagsSetCmd, tagsRemoveCmd)
	rootCmd.AddCommand(tagsCmd)
}
