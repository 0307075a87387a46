package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel contains common columns for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TenantModel adds the organisation scope every domain row carries
type TenantModel struct {
	BaseModel
	OrganisationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organisation_id"`
}

// SoftDeleteModel contains soft delete functionality
type SoftDeleteModel struct {
	TenantModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
