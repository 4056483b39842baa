package customer

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"storefront/internal/domain"
)

var dottedDomain = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]+$`)

// FieldError is one failed rule, keyed by the JSON field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every failed rule of a form. It unwraps to domain.ErrInvalidInput.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidInput
}

var messages = map[string]string{
	"email.required":     "This is required field, enter your email.",
	"email.min":          "Email must be at least 5 characters.",
	"email.max":          "This text is too long",
	"email.nowhitespace": "Whitespace is not allowed",
	"email.email":        "Email must be valid email.",
	"email.dotteddomain": "The domain part of the address with an error, should contain (.domain-name). For example: user@example.com",

	"password.required":    "Password is required field, enter your password.",
	"password.min":         "This password is too short, must be at least 8 characters long",
	"password.max":         "This password is too long",
	"password.notrimspace": "Whitespace is not allowed",
	"password.hasupper":    "The password must contain capital letter",
	"password.haslower":    "The password must contain a lowercase letter",
	"password.hasdigit":    "The password must contain a digit",
	"password.hasspecial":  "Use special symbols (!,%,*,?,&)",
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	register := func(tag string, fn func(string) bool) {
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return fn(fl.Field().String())
		})
	}
	register("nowhitespace", func(s string) bool { return !strings.ContainsFunc(s, unicode.IsSpace) })
	register("notrimspace", func(s string) bool { return strings.TrimSpace(s) == s })
	register("dotteddomain", dottedDomain.MatchString)
	register("hasupper", func(s string) bool { return strings.ContainsFunc(s, unicode.IsUpper) })
	register("haslower", func(s string) bool { return strings.ContainsFunc(s, unicode.IsLower) })
	register("hasdigit", func(s string) bool { return strings.ContainsFunc(s, unicode.IsDigit) })
	register("hasspecial", func(s string) bool { return strings.ContainsAny(s, "!%*?&") })
	return v
}

func toValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "failed " + fe.Tag() + " rule"
		}
		out.Fields = append(out.Fields, FieldError{Field: fieldPath(fe), Message: msg})
	}
	return out
}

// fieldPath drops the top-level struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
