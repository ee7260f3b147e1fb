package csvimport

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// RowValidator checks decoded rows against `validate` struct tags.
// Column names in errors come from the `csv` tag.
type RowValidator struct {
	validate *validator.Validate
}

var (
	defaultValidator     *RowValidator
	defaultValidatorOnce sync.Once
)

// DefaultRowValidator returns a shared RowValidator
func DefaultRowValidator() *RowValidator {
	defaultValidatorOnce.Do(func() {
		defaultValidator = NewRowValidator()
	})
	return defaultValidator
}

// NewRowValidator creates a RowValidator
func NewRowValidator() *RowValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(csvColumn)
	return &RowValidator{validate: v}
}

// Validate returns one RowError per failed field, or nil
func (v *RowValidator) Validate(line int, record any) []RowError {
	err := v.validate.Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []RowError{NewRowError(line, "", ErrCodeImportMalformedRow, err.Error())}
	}

	out := make([]RowError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		re := RowError{Row: line, Column: fe.Field(), Value: fmt.Sprint(fe.Value())}
		switch fe.Tag() {
		case "required":
			re.Code = ErrCodeImportRequiredField
			re.Message = fmt.Sprintf("field '%s' is required", fe.Field())
			re.Value = ""
		case "max", "min", "len":
			re.Code = ErrCodeImportInvalidLength
			re.Message = fmt.Sprintf("length must satisfy %s=%s", fe.Tag(), fe.Param())
		case "numeric", "number":
			re.Code = ErrCodeImportInvalidType
			re.Message = "expected a number"
		case "gt", "gte", "lt", "lte":
			re.Code = ErrCodeImportInvalidRange
			re.Message = fmt.Sprintf("value must satisfy %s %s", fe.Tag(), fe.Param())
		default:
			re.Code = ErrCodeImportInvalidFormat
			re.Message = fmt.Sprintf("invalid %s", fe.Tag())
		}
		out = append(out, re)
	}
	return out
}

// Decode copies row values into the string fields of dst (a struct pointer) by `csv` tag
func Decode(row *Row, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("csvimport: Decode needs a struct pointer, got %T", dst)
	}
	rv = rv.Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		name := csvColumn(rt.Field(i))
		if name == "" || rt.Field(i).Type.Kind() != reflect.String {
			continue
		}
		rv.Field(i).SetString(row.Get(name))
	}
	return nil
}

func csvColumn(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("csv"), ",")
	if name == "-" {
		return ""
	}
	return name
}
