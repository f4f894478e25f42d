// Package validation screens uploaded spreadsheet files before they reach the
// parsers.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileValidator validates upload metadata against the configured bounds.
type FileValidator struct {
	maxSize    int64
	extensions map[string]bool
}

// NewFileValidator creates a validator that accepts .xlsx and .csv uploads up
// to maxSize bytes.
func NewFileValidator(maxSize int64) *FileValidator {
	return &FileValidator{
		maxSize: maxSize,
		extensions: map[string]bool{
			".xlsx": true,
			".csv":  true,
		},
	}
}

// ValidationResult carries the outcome of a file validation pass.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// fail marks the result invalid and records the reason.
func (r *ValidationResult) fail(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}

// Error returns the combined validation errors, or "" when valid.
func (r *ValidationResult) Error() string {
	if r.Valid {
		return ""
	}
	return strings.Join(r.Errors, "; ")
}

// Validate checks the file name and size. It does not read content; the
// parsers own structural validation.
func (v *FileValidator) Validate(filename string, size int64) *ValidationResult {
	result := &ValidationResult{Valid: true}

	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." {
		result.fail("filename is empty")
		return result
	}

	// Reject anything that still looks like a path after Base.
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		result.fail("filename must not contain path separators")
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !v.extensions[ext] {
		result.fail(fmt.Sprintf("unsupported file extension %q, expected .xlsx or .csv", ext))
	}

	if size <= 0 {
		result.fail("file is empty")
	} else if size > v.maxSize {
		result.fail(fmt.Sprintf("file size %d exceeds limit of %d bytes", size, v.maxSize))
	}

	return result
}

// IsCSV reports whether the filename carries a .csv extension.
func IsCSV(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".csv")
}
