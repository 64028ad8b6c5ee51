package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

// custom validation tags
const (
	notBlankTag = "notblank"
	hasUpperTag = "hasupper"
	percentTag  = "percent"
)

// Fallback messages shown above the per-field errors
const (
	MsgRegistrationInvalid = "Please ensure all required fields are filled and password rules are met."
	MsgRequiredFields      = "Please fill in all required fields"
	MsgSignInMissing       = "Please enter your email and password."
)

func init() {
	validate = validator.New()

	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Error messages use the human label rather than the Go field name
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterValidation(hasUpperTag, hasUpper)
	_ = validate.RegisterValidation(percentTag, percent)

	registerMessage("required", "{0} is required")
	registerMessage(notBlankTag, "{0} is required")
	registerMessage("email", "{0} must be a valid email address")
	registerMessage("min", "{0} must be at least {1} characters")
	registerMessage(hasUpperTag, "{0} must contain at least one uppercase letter")
	registerMessage("eqfield", "Passwords do not match")
	registerMessage("oneof", "{0} must be one of: {1}")
	registerMessage(percentTag, "{0} must be a number between 0 and 100")
	registerMessage("datetime", "{0} must be a date like 2025-01-31")
}

func registerMessage(tag, text string) {
	_ = validate.RegisterTranslation(tag, translator,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field(), fe.Param())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func hasUpper(fl validator.FieldLevel) bool {
	return containsUpper(fl.Field().String())
}

func percent(fl validator.FieldLevel) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
	return err == nil && v >= 0 && v <= 100
}

// ValidationError represents a validation error for one form field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every failed rule of a form
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages returns the user-facing message of each error in field order
func (e ValidationErrors) Messages() []string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Message)
	}
	return msgs
}

// Has reports whether field failed any rule
func (e ValidationErrors) Has(field string) bool {
	for _, v := range e {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Struct validates a tagged form struct. It returns ValidationErrors when
// rules fail and nil otherwise.
func Struct(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.StructField(),
			Message: fe.Translate(translator),
		})
	}
	return out
}

// AsValidationErrors extracts ValidationErrors from err
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	ok := errors.As(err, &v)
	return v, ok
}
