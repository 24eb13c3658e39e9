package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/justsurfingit/SalaryIQ/internal/dtos"
)

const defaultCurrency = "USD"

var jobTitlePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-/.]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("jobtitle", func(fl validator.FieldLevel) bool {
		return jobTitlePattern.MatchString(fl.Field().String())
	})
	return v
}

// Profile is the canonical, trimmed job profile.
type Profile struct {
	JobTitle        string
	YearsExperience int
	Location        string
	Country         string
	City            string
	Industry        string
	Skills          []string
	CurrentSalary   *int64
	Currency        string
}

// FieldError is one violated form constraint.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// ValidationError lists every constraint the submitted form violated.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return "invalid form data: " + strings.Join(parts, "; ")
}

// Messages returns one human-readable line per violated field.
func (e *ValidationError) Messages() []string {
	out := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f.String()
	}
	return out
}

// NormalizeProfile trims every string field, drops blank skills, defaults the
// currency and validates the result. On failure the error is a *ValidationError.
func NormalizeProfile(form *dtos.SalaryFormData) (*Profile, error) {
	if form == nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "formData", Message: "is required"}}}
	}

	clean := dtos.SalaryFormData{
		JobTitle:        strings.TrimSpace(form.JobTitle),
		YearsExperience: form.YearsExperience,
		Location:        strings.TrimSpace(form.Location),
		Country:         strings.TrimSpace(form.Country),
		City:            strings.TrimSpace(form.City),
		Industry:        strings.TrimSpace(form.Industry),
		CurrentSalary:   form.CurrentSalary,
		Currency:        strings.ToUpper(strings.TrimSpace(form.Currency)),
	}
	for _, s := range form.Skills {
		if s = strings.TrimSpace(s); s != "" {
			clean.Skills = append(clean.Skills, s)
		}
	}
	if clean.Currency == "" {
		clean.Currency = defaultCurrency
	}

	if err := validate.Struct(&clean); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, fmt.Errorf("validate form: %w", err)
		}
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: describe(fe)})
		}
		return nil, &ValidationError{Fields: fields}
	}

	return &Profile{
		JobTitle:        clean.JobTitle,
		YearsExperience: *clean.YearsExperience,
		Location:        clean.Location,
		Country:         clean.Country,
		City:            clean.City,
		Industry:        clean.Industry,
		Skills:          clean.Skills,
		CurrentSalary:   clean.CurrentSalary,
		Currency:        clean.Currency,
	}, nil
}

func describe(fe validator.FieldError) string {
	isList := fe.Kind() == reflect.Slice
	switch fe.Tag() {
	case "required":
		return "is required"
	case "jobtitle":
		return "contains invalid characters"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "gt":
		return "must be positive"
	case "min":
		if isList {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("must be at least %s", fe.Param())
		}
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		if isList {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("must be at most %s", fe.Param())
		}
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return "is invalid"
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// Fingerprint derives the cache key from the role-defining fields only.
// Current salary and currency are excluded so people with the same role,
// location and skills share one cached answer.
func Fingerprint(p *Profile) string {
	skills := make([]string, len(p.Skills))
	for i, s := range p.Skills {
		skills[i] = strings.ToLower(strings.TrimSpace(s))
	}
	sort.Strings(skills)

	normalized := struct {
		JobTitle        string `json:"jobTitle"`
		YearsExperience int    `json:"yearsExperience"`
		Location        string `json:"location"`
		Industry        string `json:"industry"`
		Skills          string `json:"skills"`
	}{
		JobTitle:        strings.ToLower(strings.TrimSpace(p.JobTitle)),
		YearsExperience: p.YearsExperience,
		Location:        strings.ToLower(strings.TrimSpace(p.Location)),
		Industry:        strings.ToLower(strings.TrimSpace(p.Industry)),
		Skills:          strings.Join(skills, ","),
	}

	// Marshal of a struct of strings and an int cannot fail.
	b, _ := json.Marshal(normalized)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
