package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodePattern(t *testing.T) {
	assert.True(t, CompiledPatterns.Code.MatchString("CENG"))
	assert.True(t, CompiledPatterns.Code.MatchString("B12"))
	assert.False(t, CompiledPatterns.Code.MatchString("ceng"))
	assert.False(t, CompiledPatterns.Code.MatchString("C"))
	assert.False(t, CompiledPatterns.Code.MatchString("1ENG"))
}

func TestStudentNumberPattern(t *testing.T) {
	assert.True(t, CompiledPatterns.StudentNumber.MatchString("2025CENG0042"))
	assert.False(t, CompiledPatterns.StudentNumber.MatchString("25CENG42"))
	assert.False(t, CompiledPatterns.StudentNumber.MatchString("2025ceng0042"))
}

func TestAcademicYearPattern(t *testing.T) {
	assert.True(t, CompiledPatterns.AcademicYear.MatchString("2025-2026"))
	assert.False(t, CompiledPatterns.AcademicYear.MatchString("2025/2026"))
	assert.False(t, CompiledPatterns.AcademicYear.MatchString("2025"))
}

func TestPhonePattern(t *testing.T) {
	assert.True(t, CompiledPatterns.Phone.MatchString("+905551112233"))
	assert.True(t, CompiledPatterns.Phone.MatchString("5551112"))
	assert.False(t, CompiledPatterns.Phone.MatchString("call-me"))
}

func TestRegisterCustomRules(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterCustomRules(v))

	type form struct {
		Number string `validate:"omitempty,studentnumber"`
	}
	assert.NoError(t, v.Struct(form{Number: "2025CENG0042"}))
	assert.Error(t, v.Struct(form{Number: "not-a-number"}))
	assert.NoError(t, v.Struct(form{}))
}
