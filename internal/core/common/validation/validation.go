// Package validation is a small fluent builder for request DTO checks.
// Collected failures are folded into one validation AppError so the caller
// gets every problem in a single response.
package validation

import (
	"fmt"
	"strings"

	"github.com/avzakharova/studio-bot/internal"
)

type ValidatorFunc func(interface{}) string

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{fields: make([]FieldValidator, 0)}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return &v.fields[len(v.fields)-1]
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) string {
		switch v := value.(type) {
		case string:
			if v == "" {
				return fmt.Sprintf("%s is required", fv.FieldName)
			}
		case int64:
			if v == 0 {
				return fmt.Sprintf("%s is required", fv.FieldName)
			}
		case *string:
			if v == nil || *v == "" {
				return fmt.Sprintf("%s is required", fv.FieldName)
			}
		}
		return ""
	})
	return fv
}

func (fv *FieldValidator) MinInt(min int64) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) string {
		if v, ok := value.(int64); ok && v < min {
			return fmt.Sprintf("%s must be at least %d", fv.FieldName, min)
		}
		return ""
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) string {
		if v, ok := value.(string); ok && len(v) > max {
			return fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max)
		}
		return ""
	})
	return fv
}

func (fv *FieldValidator) Custom(validator ValidatorFunc) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every registered check and returns nil when all pass.
func (v *ValidationBuilder) Validate() *internal.AppError {
	var problems []string
	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if msg := validator(field.Value); msg != "" {
				problems = append(problems, msg)
			}
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return internal.NewValidationError(strings.Join(problems, "; "), internal.ErrCodeValidationFailed)
}
