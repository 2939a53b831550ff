package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCategoryCode(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantPrefix string
	}{
		{"simple name", "Roman", "ROMA"},
		{"name with space", "Science Fiction", "SCIE"},
		{"lowercase", "poésie", "POÉS"},
		{"short name padded", "BD", "BDXX"},
		{"digits skipped", "100 Classics", "CLAS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := GenerateCategoryCode(tt.input)
			require.Len(t, code, len(tt.wantPrefix)+3)
			assert.Equal(t, tt.wantPrefix, code[:len(tt.wantPrefix)])
			assert.Regexp(t, `\d{3}$`, code)
		})
	}
}

func TestGenerateBookCode(t *testing.T) {
	assert.Equal(t, "SCIE042-007", GenerateBookCode("SCIE042", 7))
	assert.Equal(t, "ROMA001-123", GenerateBookCode("roma001", 123))
}

func TestFormatDocumentNumber(t *testing.T) {
	day := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "FAC-20250115-003", FormatDocumentNumber("FAC", day, 3))
	assert.Equal(t, "CMD-20250115-042", FormatDocumentNumber("CMD", day, 42))
	assert.Equal(t, "FAC-20250115-1000", FormatDocumentNumber("FAC", day, 1000))
}
