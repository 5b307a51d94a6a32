package record

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/dmecc/volunteerhub/core"
)

var (
	maxHoursAtOnce = 20
	hoursCapTag    = "hourscap"
	hoursCapText   = "You are entering in a large amount of hours at once. Please contact a team leader/admin to submit hours"

	maxPaymentAmount = 10000
	amountCapTag     = "amountcap"
	amountCapText    = "Please double check the amount"

	purposeMinLen     = 10
	purposeDetailTag  = "purposedetail"
	purposeDetailText = "Please describe the purpose of this request in more detail (at least 10 characters)"
)

// InitValidators registers the record package's custom validations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(hoursCapTag, func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(maxHoursAtOnce)
	})
	_ = validate.RegisterValidation(amountCapTag, func(fl validator.FieldLevel) bool {
		return fl.Field().Int() <= int64(maxPaymentAmount)
	})
	_ = validate.RegisterValidation(purposeDetailTag, func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) >= purposeMinLen
	})

	core.RegisterCustomTranslation(validate, translator, hoursCapTag, hoursCapText)
	core.RegisterCustomTranslation(validate, translator, amountCapTag, amountCapText)
	core.RegisterCustomTranslation(validate, translator, purposeDetailTag, purposeDetailText)
}
