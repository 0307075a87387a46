package models

// Organisation represents organisations table (one row per tenant)
type Organisation struct {
	BaseModel
	Name         string `gorm:"type:varchar(200);not null" json:"name"`
	Slug         string `gorm:"type:varchar(100);not null;unique" json:"slug"`
	BaseCurrency string `gorm:"type:varchar(3);not null;default:'GBP'" json:"base_currency"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}

// TableName specifies the table name for Organisation
func (Organisation) TableName() string {
	return "organisations"
}
