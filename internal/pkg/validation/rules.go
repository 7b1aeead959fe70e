package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Uppercase alphanumeric short codes: departments, courses, rooms.
	CodePattern = `^[A-Z][A-Z0-9]{1,9}$`

	// Student number: year prefix + department code + serial, e.g. 2025CENG0042.
	StudentNumberPattern = `^\d{4}[A-Z]{2,6}\d{4}$`

	// Academic year code, e.g. 2025-2026.
	AcademicYearPattern = `^\d{4}-\d{4}$`

	// E.164-ish phone number.
	PhonePattern = `^\+?[0-9]{7,15}$`

	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns.
var CompiledPatterns = struct {
	Code          *regexp.Regexp
	StudentNumber *regexp.Regexp
	AcademicYear  *regexp.Regexp
	Phone         *regexp.Regexp
}{
	Code:          regexp.MustCompile(CodePattern),
	StudentNumber: regexp.MustCompile(StudentNumberPattern),
	AcademicYear:  regexp.MustCompile(AcademicYearPattern),
	Phone:         regexp.MustCompile(PhonePattern),
}

// RegisterCustomRules installs the domain validation tags on a validator
// instance (gin exposes its binding validator through binding.Validator).
func RegisterCustomRules(v *validator.Validate) error {
	if err := v.RegisterValidation("shortcode", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Code.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("studentnumber", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.StudentNumber.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("academicyear", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.AcademicYear.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		return CompiledPatterns.Phone.MatchString(value)
	})
}
