package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileValidator(t *testing.T) {
	v := NewFileValidator(1024)

	tests := []struct {
		name     string
		filename string
		size     int64
		valid    bool
	}{
		{"valid xlsx", "inventory.xlsx", 512, true},
		{"valid csv", "hydex_export.csv", 100, true},
		{"uppercase extension", "INVENTORY.XLSX", 512, true},
		{"wrong extension", "inventory.xls", 512, false},
		{"no extension", "inventory", 512, false},
		{"empty file", "inventory.xlsx", 0, false},
		{"oversized", "inventory.xlsx", 2048, false},
		{"empty name", "", 512, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.filename, tt.size)
			assert.Equal(t, tt.valid, result.Valid, result.Error())
		})
	}
}

func TestFileValidatorStripsPath(t *testing.T) {
	v := NewFileValidator(1024)
	result := v.Validate("uploads/../inventory.xlsx", 512)
	assert.True(t, result.Valid)
}

func TestIsCSV(t *testing.T) {
	assert.True(t, IsCSV("export.csv"))
	assert.True(t, IsCSV("EXPORT.CSV"))
	assert.False(t, IsCSV("export.xlsx"))
}
