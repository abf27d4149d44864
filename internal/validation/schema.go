// Package validation implements declarative per-operation input schemas.
// Each operation declares its field rules once; evaluation produces the
// full list of failing fields in a single pass instead of scattered
// imperative checks.
package validation

import (
	"fmt"
	"net/mail"
	"strings"

	"devconnect/internal/models"
)

// Rule checks a single field value and returns a failure message, or ""
// when the value passes.
type Rule func(value string) string

// Field binds a field name to its rules. Rules run in order; the first
// failure wins for that field.
type Field struct {
	Name  string
	Rules []Rule
}

// Schema is the ordered rule set for one operation.
type Schema []Field

// Validate evaluates the schema against the given values and returns one
// FieldError per failing field, in schema order.
func (s Schema) Validate(values map[string]string) []models.FieldError {
	var failures []models.FieldError
	for _, f := range s {
		value := values[f.Name]
		for _, rule := range f.Rules {
			if msg := rule(value); msg != "" {
				failures = append(failures, models.FieldError{Field: f.Name, Message: msg})
				break
			}
		}
	}
	return failures
}

// Check runs Validate and wraps any failures into a single AppError.
func (s Schema) Check(values map[string]string) error {
	if failures := s.Validate(values); len(failures) > 0 {
		return models.NewFieldValidationError(failures)
	}
	return nil
}

// Required fails on empty or whitespace-only values.
func Required(label string) Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return label + " is required"
		}
		return ""
	}
}

// Email fails on values that do not parse as an address.
func Email() Rule {
	return func(value string) string {
		if _, err := mail.ParseAddress(value); err != nil {
			return "Please enter a valid email"
		}
		return ""
	}
}

// MinLen fails on values shorter than n bytes.
func MinLen(n int) Rule {
	return func(value string) string {
		if len(value) < n {
			return fmt.Sprintf("Enter at least %d characters", n)
		}
		return ""
	}
}

// MaxLen fails on values longer than n bytes.
func MaxLen(n int) Rule {
	return func(value string) string {
		if len(value) > n {
			return fmt.Sprintf("Must be at most %d characters", n)
		}
		return ""
	}
}

// Per-operation schemas.
var (
	SignupSchema = Schema{
		{Name: "name", Rules: []Rule{Required("Name")}},
		{Name: "email", Rules: []Rule{Required("Email"), Email()}},
		{Name: "password", Rules: []Rule{Required("Password"), MinLen(6)}},
	}

	ProfileSchema = Schema{
		{Name: "status", Rules: []Rule{Required("Status")}},
		{Name: "skills", Rules: []Rule{Required("Skills")}},
	}

	ExperienceSchema = Schema{
		{Name: "title", Rules: []Rule{Required("Title")}},
		{Name: "company", Rules: []Rule{Required("Company")}},
		{Name: "from", Rules: []Rule{Required("From date")}},
	}

	EducationSchema = Schema{
		{Name: "school", Rules: []Rule{Required("School")}},
		{Name: "degree", Rules: []Rule{Required("Degree")}},
		{Name: "field_of_study", Rules: []Rule{Required("Field of study")}},
		{Name: "from", Rules: []Rule{Required("From date")}},
	}

	PostSchema = Schema{
		{Name: "text", Rules: []Rule{Required("Text"), MaxLen(50000)}},
	}

	CommentSchema = Schema{
		{Name: "text", Rules: []Rule{Required("Text"), MaxLen(10000)}},
	}
)
