package validator

import (
	"log"

	"udaan_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules wires the enum rules used by DTO tags.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup error.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-event-status", validateEventStatus)
	mustRegister("is-file-type", validateFileType)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // empty is handled by 'required'
	}
	return models.ValidUserRole(models.UserRole(value))
}

func validateEventStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidEventStatus(models.EventStatus(value))
}

func validateFileType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidFileType(models.FileType(value))
}
