package models

import (
	"errors"
	"fmt"
)

var ErrSchema = errors.New("response does not match schema")

type Validator interface {
	Validate() error
}

func schemaErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(format, args...))
}

func validateEach[T Validator](field string, items []T) error {
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("%s[%d]: %w", field, i, err)
		}
	}
	return nil
}

func nonNegative(field string, n int) error {
	if n < 0 {
		return schemaErr("%s is negative (%d)", field, n)
	}
	return nil
}

// Float dereferences an optional number, treating null as zero.
func Float(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
