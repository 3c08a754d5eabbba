package models

// RoleProfile - общий вид профиля роли для движка статусов.
// PersonalFields возвращает значения личных полей по имени колонки.
type RoleProfile interface {
	OwnerID() string
	PersonalFields() map[string]string
}

// Personal field names shared by the role profiles.
const (
	FieldName        = "name"
	FieldPhoneNumber = "phone_number"
	FieldCountry     = "country"
	FieldNationality = "nationality"
	FieldGender      = "gender"
)
