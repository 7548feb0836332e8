package dag

import (
	"fmt"
	"strings"
)

// CycleError reports a prerequisite cycle. Path starts and ends with the same
// task.
type CycleError struct {
	Path []TaskID
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = string(id)
	}
	return "dependency cycle detected: " + strings.Join(parts, " -> ")
}

// UnknownTaskError reports a task name with no registration. ReferencedBy is
// empty when the name came from the invocation itself.
type UnknownTaskError struct {
	Name         string
	ReferencedBy TaskID
}

func (e *UnknownTaskError) Error() string {
	if e.ReferencedBy == "" {
		return fmt.Sprintf("unknown task %q", e.Name)
	}
	return fmt.Sprintf("unknown task %q (prerequisite of %q)", e.Name, e.ReferencedBy)
}

// InvalidGraphError reports a malformed definition list, such as a duplicate
// or empty task name.
type InvalidGraphError struct {
	Msg string
}

func (e *InvalidGraphError) Error() string {
	return "invalid task graph: " + e.Msg
}

func invalidf(format string, args ...any) error {
	return &InvalidGraphError{Msg: fmt.Sprintf(format, args...)}
}
