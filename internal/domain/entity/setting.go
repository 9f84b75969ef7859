package entity

import "time"

// Setting is a named JSON document kept by the application: the open carts,
// the tax configuration, the order counter and the cash drawer reset.
type Setting struct {
	Key       string    `gorm:"size:128;primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Setting model
func (Setting) TableName() string {
	return "settings"
}
