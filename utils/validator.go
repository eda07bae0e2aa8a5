package utils

import (
	"github.com/go-playground/validator/v10"

	"github.com/dzoniops/booking-service/calendar"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = validator.New()
	Validate.RegisterValidation("ddmmyyyy", DateString)
}

// DateString accepts calendar days written as DD.MM.YYYY.
func DateString(fl validator.FieldLevel) bool {
	_, err := calendar.ParseDate(fl.Field().String())
	return err == nil
}
