package services

import (
	"fmt"
	"strings"

	"results-portal/store"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

var (
	ErrNotFound           = store.ErrNotFound
	ErrDuplicateKey       = store.ErrDuplicateKey
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// ValidationError lists the fields of a result that failed validation.
type ValidationError struct {
	Fields []string
	err    error
}

func (e *ValidationError) Error() string {
	return "invalid result: " + e.err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

func newValidationError(fieldErrs validator.ValidationErrors, missing ...string) *ValidationError {
	var merr *multierror.Error
	ve := &ValidationError{}
	for _, f := range missing {
		ve.Fields = append(ve.Fields, f)
		merr = multierror.Append(merr, fmt.Errorf("%s is required", f))
	}
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		ve.Fields = append(ve.Fields, field)
		merr = multierror.Append(merr, fmt.Errorf("%s failed %q", field, fe.Tag()))
	}
	merr.ErrorFormat = func(errs []error) string {
		parts := make([]string, len(errs))
		for i, e := range errs {
			parts[i] = e.Error()
		}
		return strings.Join(parts, "; ")
	}
	ve.err = merr
	return ve
}

// fieldPath drops the root struct name: "Result.subjects[0].marks" -> "subjects[0].marks".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
