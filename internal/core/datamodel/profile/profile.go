package profile

import "time"

type Profile struct {
	ID         string    `gorm:"column:id;primaryKey"`
	UserID     string    `gorm:"column:user_id;uniqueIndex;not null"`
	FullName   string    `gorm:"column:full_name;not null"`
	StudentID  *string   `gorm:"column:student_id"`
	Department *string   `gorm:"column:department"`
	Email      string    `gorm:"column:email;not null"`
	Phone      *string   `gorm:"column:phone"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Profile) TableName() string {
	return "profiles"
}
