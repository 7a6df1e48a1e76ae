// Package validation holds the shared request validator and its English
// translator.
package validation

import (
	"regexp"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
	en_translations "gopkg.in/go-playground/validator.v9/translations/en"
)

// handlePattern matches user handles such as "@chef_anna".
var handlePattern = regexp.MustCompile(`^@\w{3,}$`)

var (
	once       sync.Once
	validate   *validator.Validate
	translator ut.Translator
)

func setup() {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")

	validate = validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	_ = validate.RegisterValidation("handle", func(fl validator.FieldLevel) bool {
		return handlePattern.MatchString(fl.Field().String())
	})
	_ = validate.RegisterTranslation("handle", translator,
		func(ut ut.Translator) error {
			return ut.Add("handle", "{0} must start with @ followed by at least 3 letters, digits or underscores", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("handle", fe.Field())
			return t
		},
	)
}

func Validator() *validator.Validate {
	once.Do(setup)
	return validate
}

func Translator() ut.Translator {
	once.Do(setup)
	return translator
}

// Struct validates s and returns validator.ValidationErrors on failure.
func Struct(s interface{}) error {
	return Validator().Struct(s)
}

func IsHandle(s string) bool {
	return handlePattern.MatchString(s)
}
