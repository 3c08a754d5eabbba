package models

type EmployerProfile struct {
	BaseModel
	UserID        string `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phone_number"`
	Country       string `json:"country"`
	Nationality   string `json:"nationality"`
	City          string `json:"city"`
	Address       string `json:"address"`
	HouseholdSize int    `json:"household_size"`
}

func (p *EmployerProfile) OwnerID() string { return p.UserID }

func (p *EmployerProfile) PersonalFields() map[string]string {
	return map[string]string{
		FieldName:        p.Name,
		FieldPhoneNumber: p.PhoneNumber,
		FieldCountry:     p.Country,
		FieldNationality: p.Nationality,
	}
}
