package services

import (
	"jobza_backend/internal/models"
)

// RoleRules описывает, что нужно роли для завершенного профиля
type RoleRules struct {
	RequiredPersonalFields []string
	RequiredDocumentLabels []models.DocumentLabel
	// ExtraCondition - дополнительное условие роли; nil означает "всегда выполнено"
	ExtraCondition func(profile models.RoleProfile) bool
}

func (r RoleRules) extraConditionMet(profile models.RoleProfile) bool {
	if r.ExtraCondition == nil {
		return true
	}
	return r.ExtraCondition(profile)
}

// workerHasSkills - у работника должен быть хотя бы один навык
func workerHasSkills(profile models.RoleProfile) bool {
	worker, ok := profile.(*models.WorkerProfile)
	if !ok {
		return false
	}
	return len(worker.Skills()) > 0
}

// DefaultRoleRules - правила для всех ролей с профилем
func DefaultRoleRules() map[models.UserRole]RoleRules {
	return map[models.UserRole]RoleRules{
		models.UserRoleWorker: {
			RequiredPersonalFields: []string{
				models.FieldName,
				models.FieldPhoneNumber,
				models.FieldCountry,
				models.FieldNationality,
				models.FieldGender,
			},
			RequiredDocumentLabels: []models.DocumentLabel{
				models.LabelPassport,
				models.LabelFacePhoto,
				models.LabelFullBodyPhoto,
				models.LabelMedicalCertificate,
				models.LabelPoliceClearance,
				models.LabelBirthCertificate,
				models.LabelEducationalCertificate,
				models.LabelSignature,
			},
			ExtraCondition: workerHasSkills,
		},
		models.UserRoleEmployer: {
			RequiredPersonalFields: []string{
				models.FieldName,
				models.FieldPhoneNumber,
				models.FieldCountry,
				models.FieldNationality,
			},
		},
		models.UserRoleAgency: {
			RequiredPersonalFields: []string{
				models.FieldName,
				models.FieldPhoneNumber,
				models.FieldCountry,
				models.FieldNationality,
				models.FieldGender,
			},
		},
	}
}
