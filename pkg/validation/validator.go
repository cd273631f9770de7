package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PhoneNumberPattern is 2-3 digits, a hyphen, then at least 4 digits.
var PhoneNumberPattern = regexp.MustCompile(`^\d{2,3}-\d{4,}$`)

const phoneNumberTag = "phonebook_number"

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the phonebook rules and aliases.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

// New returns a standalone validator with the same configuration as Init,
// for code that must not depend on the HTTP layer.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	configure(v)
	return v
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonTagName)
	_ = v.RegisterValidation(phoneNumberTag, func(fl validator.FieldLevel) bool {
		return PhoneNumberPattern.MatchString(fl.Field().String())
	})
	v.RegisterAlias("username", "min=3,max=64")
	v.RegisterAlias("pwd", "min=3") // password minimum length
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// ToDetails converts validation/binding errors into a map[field]message.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

// Summary renders details as a single deterministic line, e.g.
// "name is required; number must be at least 6 characters long".
func Summary(details map[string]string) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+details[k])
	}
	return strings.Join(parts, "; ")
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "alphanum":
		return "must contain alphanumeric characters only"
	case "email":
		return "must be a valid email"
	case phoneNumberTag:
		return "must be 2-3 digits, a hyphen and at least 4 digits (e.g. 09-1234567)"
	case "username":
		return "must be between 3 and 64 characters long"
	case "pwd":
		return "must be at least 3 characters long"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
