// Package inputval validates decoded request bodies using waffle/pantry/validate.
//
// Handlers copy the fields they require into a small struct with validate
// and label tags, then call Validate. Result.Err turns the first failure into
// an apperr validation error that jsonutil.Fail answers with 400.
//
//	type faqCreate struct {
//	    Question string `json:"question" validate:"required,max=500" label:"Question"`
//	    Answer   string `json:"answer" validate:"required" label:"Answer"`
//	}
//
//	if err := inputval.Validate(req).Err(); err != nil {
//	    h.errLog.Fail(w, r, err)
//	    return
//	}
//
// Besides the pantry rules (required, email, oneof, min, max) this package
// registers cartype, bookingstatus, placement, slug and objectid.
package inputval

import (
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/stratarent/internal/app/system/apperr"
	"github.com/dalemusser/stratarent/internal/app/system/normalize"
	"github.com/dalemusser/stratarent/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result holds the failures of one Validate call, keyed by JSON field name.
type Result struct {
	Errors []FieldError
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Err returns the first failure as a validation error, or nil.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return apperr.Validation(r.Errors[0].Field, r.Errors[0].Message)
}

var (
	validator     *validate.Validator
	validatorOnce sync.Once
)

func stringRule(ok func(string) bool) func(any) bool {
	return func(value any) bool {
		s, isString := value.(string)
		return isString && ok(s)
	}
}

func getValidator() *validate.Validator {
	validatorOnce.Do(func() {
		validator = validate.New(validate.WithStopOnFirstError())
		validator.RegisterRuleFunc("cartype", stringRule(models.IsValidCarType), "cartype")
		validator.RegisterRuleFunc("bookingstatus", stringRule(models.IsValidBookingStatus), "bookingstatus")
		validator.RegisterRuleFunc("placement", stringRule(func(s string) bool {
			return models.IsValidPlacement(normalize.Placement(s))
		}), "placement")
		validator.RegisterRuleFunc("slug", stringRule(IsValidSlug), "slug")
		validator.RegisterRuleFunc("objectid", stringRule(IsValidObjectID), "objectid")
	})
	return validator
}

// Validate checks s against its validate tags. Messages use the label tag,
// falling back to the JSON name.
func Validate(s any) *Result {
	result := &Result{}

	err := getValidator().Struct(s)
	if err == nil {
		return result
	}
	errs, ok := err.(validate.Errors)
	if !ok {
		return result
	}

	labels := fieldLabels(s)
	for _, e := range errs {
		label := labels[e.Field]
		if label == "" {
			label = e.Field
		}
		result.Errors = append(result.Errors, FieldError{
			Field:   e.Field,
			Label:   label,
			Message: message(label, e.Rule, e.Param),
		})
	}
	return result
}

func fieldLabels(s any) map[string]string {
	labels := make(map[string]string)

	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return labels
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		name := field.Name
		if tag, _, _ := strings.Cut(field.Tag.Get("json"), ","); tag != "" && tag != "-" {
			name = tag
		}
		if label := field.Tag.Get("label"); label != "" {
			labels[name] = label
		}
	}
	return labels
}

func message(label, rule, param string) string {
	switch rule {
	case "required":
		return label + " is required"
	case "email":
		return "A valid email address is required"
	case "oneof", "enum":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ")
	case "min":
		return label + " must be at least " + param + " characters"
	case "max":
		return label + " must be at most " + param + " characters"
	case "cartype":
		return label + " must be one of: " + joinNames(models.AllCarTypes())
	case "bookingstatus":
		return label + " must be one of: " + joinNames(models.AllBookingStatuses())
	case "placement":
		return label + " must be header, footer or both"
	case "slug":
		return label + " may only contain lowercase letters, digits and dashes"
	case "objectid":
		return label + " is not a valid ID"
	default:
		return label + " is invalid"
	}
}

func joinNames[T ~string](values []T) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return strings.Join(out, ", ")
}

// IsValidSlug reports whether s is non-empty and unchanged by normalize.Slug.
func IsValidSlug(s string) bool {
	return s != "" && normalize.Slug(s) == s
}

// IsValidObjectID reports whether s is a 24-character ObjectID hex string.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}
