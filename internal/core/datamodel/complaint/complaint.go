package complaint

import "time"

type Complaint struct {
	ID          string     `gorm:"column:id;primaryKey"`
	UserID      string     `gorm:"column:user_id;not null;index"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description;not null"`
	Category    string     `gorm:"column:category;not null"`
	Status      string     `gorm:"column:status;not null;default:pending"`
	Priority    string     `gorm:"column:priority;not null;default:medium"`
	AssignedTo  *string    `gorm:"column:assigned_to"`
	AdminNotes  *string    `gorm:"column:admin_notes"`
	Resolution  *string    `gorm:"column:resolution"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	ResolvedAt  *time.Time `gorm:"column:resolved_at"`
}

func (Complaint) TableName() string {
	return "complaints"
}
