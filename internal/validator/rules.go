package validator

import (
	"log"
	"strings"

	"jobza_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

func registerCustomRules(v *validator.Validate) {
	// Ошибка регистрации правила - ошибка запуска, продолжать нельзя
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	// 'is-signup-role': роли, доступные при самостоятельной регистрации
	mustRegister("is-signup-role", validateSignupRole)
	mustRegister("is-account-status", validateAccountStatus)
	mustRegister("is-document-label", validateDocumentLabel)
	// 'is-judgment': решение администратора по документу
	mustRegister("is-judgment", validateJudgment)
	mustRegister("is-gender", validateGender)
}

// Пустые значения пропускаем, для них есть 'required'

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.UserRole(value).IsValid()
}

func validateSignupRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.UserRole(value).HasProfile()
}

func validateAccountStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.AccountStatus(value).IsValid()
}

func validateDocumentLabel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.DocumentLabel(value).IsValid()
}

func validateJudgment(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.DocumentStatus(value) {
	case models.DocumentStatusApproved, models.DocumentStatusRejected:
		return true
	default:
		return false
	}
}

func validateGender(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch strings.ToLower(value) {
	case "male", "female", "other":
		return true
	default:
		return false
	}
}
