package profile

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spigell/affinity/internal/geo"
)

var mbtiAxes = [4]string{"EI", "NS", "TF", "JP"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("mbti", func(fl validator.FieldLevel) bool {
		return ValidMBTIType(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("registering mbti validation: %v", err))
	}

	return v
}

// ValidMBTIType reports whether t is four letters from E/I, N/S, T/F, J/P in axis order.
// Letters are compared case-insensitively.
func ValidMBTIType(t string) bool {
	t = strings.ToUpper(t)
	if len(t) != 4 {
		return false
	}
	for i, axis := range mbtiAxes {
		if !strings.ContainsRune(axis, rune(t[i])) {
			return false
		}
	}
	return true
}

// Violation is a single failed field constraint.
type Violation struct {
	Field  string
	Reason string
}

// InvalidProfileError reports range or format violations of a profile.
type InvalidProfileError struct {
	UserID     string
	Violations []Violation
}

func (e *InvalidProfileError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s %s", v.Field, v.Reason))
	}
	return fmt.Sprintf("invalid profile %q: %s", e.UserID, strings.Join(parts, "; "))
}

// MalformedCoordinateError reports a user whose location is out of bounds.
type MalformedCoordinateError struct {
	UserID string
	Err    *geo.MalformedCoordinateError
}

func (e *MalformedCoordinateError) Error() string {
	return fmt.Sprintf("user %q: %s", e.UserID, e.Err)
}

func (e *MalformedCoordinateError) Unwrap() error { return e.Err }

// Validate checks the [0,1] ranges, the MBTI format and the identity fields
// of u. Coordinates are checked separately by ValidateLocation because a bad
// location only disqualifies the user, not the batch.
func Validate(u *UserProfile) error {
	if u == nil {
		return &InvalidProfileError{Violations: []Violation{{Field: "profile", Reason: "is nil"}}}
	}
	return toInvalidProfile(u.ID, validate.Struct(u))
}

// ValidatePersonality checks a personality snapshot and its confidence.
func ValidatePersonality(id string, p PersonalityProfile, c ConfidenceScores) error {
	if err := toInvalidProfile(id, validate.Struct(p)); err != nil {
		return err
	}
	return toInvalidProfile(id, validate.Struct(c))
}

// ValidateLocation returns a *MalformedCoordinateError when the user's
// coordinates are out of bounds.
func ValidateLocation(u *UserProfile) error {
	err := geo.Validate(u.Coordinates())
	if err == nil {
		return nil
	}
	var malformed *geo.MalformedCoordinateError
	if errors.As(err, &malformed) {
		return &MalformedCoordinateError{UserID: u.ID, Err: malformed}
	}
	return err
}

func toInvalidProfile(id string, err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating profile %q: %w", id, err)
	}

	invalid := &InvalidProfileError{UserID: id}
	for _, fe := range verrs {
		invalid.Violations = append(invalid.Violations, Violation{
			Field:  fieldPath(fe.Namespace()),
			Reason: describe(fe),
		})
	}
	return invalid
}

// fieldPath drops the root struct name and the squashed personality
// embedding from a validator namespace.
func fieldPath(ns string) string {
	if idx := strings.Index(ns, "."); idx != -1 {
		ns = ns[idx+1:]
	}
	return strings.TrimPrefix(ns, "PersonalityProfile.")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be >= %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be <= %s, got %v", fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("must be > %s, got %v", fe.Param(), fe.Value())
	case "mbti":
		return fmt.Sprintf("must be a 4-letter type from E/I, N/S, T/F, J/P, got %q", fe.Value())
	default:
		return "is invalid"
	}
}
