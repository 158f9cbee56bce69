package errors

import (
	"strings"

	"github.com/uber/bpx/src/bpx/entity"
)

// ValidationError collects field level errors that block saving edited tags.
type ValidationError struct {
	Fields []entity.FieldError
}

// Error is an implementation of the error interface.
func (n *ValidationError) Error() string {
	msgs := make([]string, 0, len(n.Fields))
	for _, f := range n.Fields {
		msgs = append(msgs, f.String())
	}
	return "invalid tags: " + strings.Join(msgs, "; ")
}
