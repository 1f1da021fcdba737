// Package services holds the business rules between the controllers and
// the repositories. Services validate their own input so the CLI and the
// queue can call them without going through HTTP binding.
package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sudeviagro/backoffice/pkg/validate"
)

// ValidationError carries per-field messages from validate.Struct.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("services: invalid input: %s", strings.Join(keys, ", "))
}

func check(v any) error {
	if errs := validate.Struct(v); validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
