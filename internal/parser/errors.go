package parser

import "fmt"

// SchemaError is the one fatal parse condition: the table cannot be keyed
// because a required column (station id, or the category column of the
// asset-centric shape) could not be identified. No partial inventory is
// returned alongside it.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: %s", e.Reason)
}

// IsSchemaError reports whether err is a SchemaError.
func IsSchemaError(err error) bool {
	_, ok := err.(*SchemaError)
	return ok
}
