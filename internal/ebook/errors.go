package ebook

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingResource is returned when package.opf lists a file that was
	// not staged.
	ErrMissingResource = errors.New("missing resource")
	// ErrKindleGenNotFound is returned when no KindleGen binary is found.
	ErrKindleGenNotFound = errors.New("kindlegen not found")
)

// ToolError carries the output of a failed external tool verbatim.
type ToolError struct {
	Tool   string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Err
}
