package ds

import (
	"time"

	"gorm.io/datatypes"
)

// form_configs keeps every form ever saved; delete only clears Active.
type FormConfig struct {
	ID        string         `gorm:"primaryKey;type:varchar(128)"`
	Name      string         `gorm:"type:varchar(255)"`
	Config    datatypes.JSON `gorm:"not null"`
	Active    bool           `gorm:"type:boolean;default:true;not null;index"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime:false"`
}

func (FormConfig) TableName() string { return "form_configs" }
