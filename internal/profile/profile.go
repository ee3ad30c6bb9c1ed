package profile

import (
	"time"

	profileDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/profile"
)

type Profile struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FullName   string    `json:"full_name"`
	StudentID  *string   `json:"student_id"`
	Department *string   `json:"department"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Summary is the projection joined onto complaints.
type Summary struct {
	UserID     string  `json:"user_id"`
	FullName   string  `json:"full_name"`
	StudentID  *string `json:"student_id"`
	Department *string `json:"department"`
	Email      string  `json:"email"`
}

func (p *Profile) Summary() *Summary {
	return &Summary{
		UserID:     p.UserID,
		FullName:   p.FullName,
		StudentID:  p.StudentID,
		Department: p.Department,
		Email:      p.Email,
	}
}

func FromDataModel(p *profileDatamodel.Profile) *Profile {
	return &Profile{
		ID:         p.ID,
		UserID:     p.UserID,
		FullName:   p.FullName,
		StudentID:  p.StudentID,
		Department: p.Department,
		Email:      p.Email,
		Phone:      p.Phone,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func ToDataModel(p *Profile) *profileDatamodel.Profile {
	return &profileDatamodel.Profile{
		ID:         p.ID,
		UserID:     p.UserID,
		FullName:   p.FullName,
		StudentID:  p.StudentID,
		Department: p.Department,
		Email:      p.Email,
		Phone:      p.Phone,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
