package ds

import (
	"time"

	"gorm.io/datatypes"
)

// Submissions are written once and never updated.
type Submission struct {
	ID         string         `gorm:"primaryKey;type:varchar(64)"`
	Email      string         `gorm:"type:varchar(255)"`
	Data       datatypes.JSON `gorm:"not null"`
	Files      datatypes.JSON
	PaymentRef *string        `gorm:"column:payment_ref;type:varchar(128)"`
	Amount     *float64       `gorm:"type:decimal(12,2)"`
	Status     string         `gorm:"type:varchar(20);not null"` // submitted, paid
	CreatedAt  time.Time      `gorm:"not null;index;autoCreateTime:false"`
}

func (Submission) TableName() string { return "submissions" }
