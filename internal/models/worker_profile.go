package models

import (
	"strings"
	"time"
)

type WorkerProfile struct {
	BaseModel
	UserID          string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"user_id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PhoneNumber     string     `json:"phone_number"`
	Country         string     `json:"country"`
	Nationality     string     `json:"nationality"`
	Gender          string     `json:"gender"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	Religion        string     `json:"religion"`
	MaritalStatus   string     `json:"marital_status"`
	ExperienceYears int        `json:"experience_years"`
	ExpectedSalary  float64    `json:"expected_salary"`
	Bio             string     `gorm:"type:text" json:"bio"`
	Languages       StringList `json:"languages"`
	SkillSet        StringList `json:"skill_set"`
}

func (p *WorkerProfile) OwnerID() string { return p.UserID }

func (p *WorkerProfile) PersonalFields() map[string]string {
	return map[string]string{
		FieldName:        p.Name,
		FieldPhoneNumber: p.PhoneNumber,
		FieldCountry:     p.Country,
		FieldNationality: p.Nationality,
		FieldGender:      p.Gender,
	}
}

// Skills возвращает навыки без пробелов по краям, пустые отбрасываются
func (p *WorkerProfile) Skills() []string {
	skills := make([]string, 0, len(p.SkillSet))
	for _, s := range p.SkillSet {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
