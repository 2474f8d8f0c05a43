package profile

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tadika/core"
)

var (
	roleTag  = "role"
	roleText = "invalid role"

	languageTag  = "language"
	languageText = "unsupported language"
)

// InitValidators registers the profile validators and their error texts.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	_ = validate.RegisterValidation(languageTag, languageValidation)
	core.RegisterCustomTranslation(validate, translator, languageTag, languageText)
}

// roleValidation checks that the field holds one of AllRoles
func roleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).IsValid()
}

func languageValidation(fl validator.FieldLevel) bool {
	return Language(fl.Field().String()).IsValid()
}
