package childcare

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tadika/core"
)

var (
	activityTypeTag  = "activitytype"
	activityTypeText = "invalid activity type"

	audienceTag  = "audience"
	audienceText = "audience must be one of all, parents or teachers"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(activityTypeTag, activityTypeValidation)
	core.RegisterCustomTranslation(validate, translator, activityTypeTag, activityTypeText)

	_ = validate.RegisterValidation(audienceTag, audienceValidation)
	core.RegisterCustomTranslation(validate, translator, audienceTag, audienceText)
}

func activityTypeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, typ := range ActivityTypes {
		if typ == val {
			return true
		}
	}
	return false
}

func audienceValidation(fl validator.FieldLevel) bool {
	switch Audience(fl.Field().String()) {
	case AudienceAll, AudienceParents, AudienceTeachers:
		return true
	}
	return false
}
