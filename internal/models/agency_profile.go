package models

type AgencyProfile struct {
	BaseModel
	UserID        string `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phone_number"`
	Country       string `json:"country"`
	Nationality   string `json:"nationality"`
	Gender        string `json:"gender"` // contact person
	LicenseNumber string `json:"license_number"`
	Address       string `json:"address"`
	Website       string `json:"website"`
}

func (p *AgencyProfile) OwnerID() string { return p.UserID }

func (p *AgencyProfile) PersonalFields() map[string]string {
	return map[string]string{
		FieldName:        p.Name,
		FieldPhoneNumber: p.PhoneNumber,
		FieldCountry:     p.Country,
		FieldNationality: p.Nationality,
		FieldGender:      p.Gender,
	}
}
