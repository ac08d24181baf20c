// Package validation checks proposed field sets against the rule tables of the
// catalog resources and reports every violated field at once.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name to the messages of every rule it violated.
type Errors map[string][]string

// Add records a violation for a field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has reports whether the field already failed a rule.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// First returns the first message in field order, used as the envelope message.
func (e Errors) First() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		if len(e[field]) > 0 {
			return e[field][0]
		}
	}
	return "The given data was invalid."
}

func (e Errors) Error() string {
	return "validation failed: " + e.First()
}

// errOrNil keeps an empty map from turning into a non-nil error.
func (e Errors) errOrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// AsErrors extracts validation failures from an error chain.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

// Single builds a failure for one field.
func Single(field, message string) Errors {
	return Errors{field: {message}}
}

// Validator applies the static struct rules; store-backed rules run in the
// per-resource functions once a field passed its static checks.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	if err := v.RegisterValidation("max_bytes", maxBytes); err != nil {
		panic(fmt.Sprintf("register max_bytes rule: %v", err))
	}
	return &Validator{validate: v}
}

// maxBytes limits the encoded length of a string, as bcrypt only reads the
// first 72 bytes of a password.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// static runs the struct tag rules and converts them to field messages. A
// field that arrived with the wrong JSON type reports only that mismatch.
func (v *Validator) static(input any) (Errors, error) {
	errs := Errors{}
	if carrier, ok := input.(mismatchCarrier); ok {
		for field, msgs := range carrier.mismatches() {
			errs[field] = append([]string(nil), msgs...)
		}
	}

	err := v.validate.Struct(input)
	if err == nil {
		return errs, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("invalid validation input: %w", err)
	}

	for _, fe := range fieldErrs {
		field := fe.Field()
		if errs.Has(field) {
			continue
		}
		errs.Add(field, message(field, fe))
	}
	return errs, nil
}

// Attribute turns a field name into the form used in messages.
func Attribute(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

func message(field string, fe validator.FieldError) string {
	attr := Attribute(field)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", attr)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", attr, fe.Param())
	case "max_bytes":
		return fmt.Sprintf("The %s may not be greater than %s bytes.", attr, fe.Param())
	case "min":
		if fe.Param() == "1" && fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field is required.", attr)
		}
		return fmt.Sprintf("The %s must be at least %s characters.", attr, fe.Param())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", attr)
	default:
		return fmt.Sprintf("The %s is invalid.", attr)
	}
}

// Taken is the message of a failed uniqueness rule.
func Taken(field string) string {
	return fmt.Sprintf("The %s has already been taken.", Attribute(field))
}

// Invalid is the message of a failed existence rule.
func Invalid(field string) string {
	return fmt.Sprintf("The selected %s is invalid.", Attribute(field))
}

// TypeMismatch is the message for a JSON value of the wrong type.
func TypeMismatch(field, kind string) string {
	return fmt.Sprintf("The %s must be %s.", Attribute(field), article(kind))
}

func article(kind string) string {
	switch kind {
	case "string":
		return "a string"
	case "number":
		return "a number"
	case "integer":
		return "an integer"
	case "boolean":
		return "true or false"
	default:
		return "a valid " + kind
	}
}
