package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for schema errors.
var (
	ErrSchemaResolution = errors.New("schema resolution failed")
	ErrUnknownRole      = errors.New("unknown role")
)

// SchemaResolutionError reports required roles that no column satisfied,
// together with the header that was searched.
type SchemaResolutionError struct {
	Missing []Role
	Header  []string
}

func (e *SchemaResolutionError) Error() string {
	missing := make([]string, len(e.Missing))
	for i, r := range e.Missing {
		missing[i] = string(r)
	}
	return fmt.Sprintf("%s: required columns not found: [%s]; observed header: %q",
		ErrSchemaResolution, strings.Join(missing, ", "), e.Header)
}

func (e *SchemaResolutionError) Unwrap() error { return ErrSchemaResolution }
