package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/uber/bpx/src/bpx/entity"
	"github.com/uber/bpx/src/bpx/gateway/debugger"
)

// parseTag reads key=value. The value may be empty or contain further '=' characters.
func parseTag(s string) entity.Tag {
	key, value, _ := strings.Cut(s, "=")
	return entity.Tag{Key: key, Value: value}
}

func parseTags(args []string) []entity.Tag {
	result := make([]entity.Tag, 0, len(args))
	for _, arg := range args {
		result = append(result, parseTag(arg))
	}
	return result
}

func getBreakpoint(ctx context.Context, gw debugger.Gateway, id string) (*entity.Breakpoint, error) {
	parsed, err := uuid.FromString(id)
	if err != nil {
		return nil, fmt.Errorf("invalid breakpoint id %q: %w", id, err)
	}
	return gw.Get(ctx, parsed)
}

// printBreakpoint writes one breakpoint per line with a one-based line number.
func printBreakpoint(w io.Writer, bp *entity.Breakpoint, tags []entity.Tag) {
	location := string(bp.State.FileURL)
	if path, ok := entity.FilePath(bp.State.FileURL); ok {
		location = path
	}
	fmt.Fprintf(w, "%s  %-16s %s:%d", bp.ID, bp.Kind, location, bp.State.Line+1)
	if !bp.State.Enabled {
		fmt.Fprint(w, " (disabled)")
	}
	for _, t := range tags {
		fmt.Fprintf(w, " [%s]", t)
	}
	fmt.Fprintln(w)
}
