package api

import (
	"github.com/go-playground/validator/v10"

	"github.com/Mathuja991/Mathavam-sub001/internal/availability"
)

var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return availability.ValidTimeOfDay(fl.Field().String())
	})
	_ = validate.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return availability.ValidDay(fl.Field().String())
	})
}
