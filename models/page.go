package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Page represents pages table. Content is the rich-text document as the
// editor produced it; the server treats it as an opaque JSON blob.
type Page struct {
	TenantModel
	Title      string         `gorm:"type:varchar(300);not null" json:"title"`
	Content    datatypes.JSON `gorm:"type:jsonb" json:"content"`
	ParentID   *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	SortOrder  int            `gorm:"not null;default:0" json:"sort_order"`
	IsPublic   bool           `gorm:"default:true" json:"is_public"`
	CreatedBy  uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	UpdatedBy  *uuid.UUID     `gorm:"type:uuid" json:"updated_by,omitempty"`

	Parent   *Page  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Page `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// TableName specifies the table name for Page
func (Page) TableName() string {
	return "pages"
}

// PagePermission represents page_permissions table.
// Rows exist only for restricted pages (IsPublic == false).
type PagePermission struct {
	BaseModel
	PageID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_page_role" json:"page_id"`
	Role    string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_page_role" json:"role"`
	CanView bool      `gorm:"default:true" json:"can_view"`
	CanEdit bool      `gorm:"default:false" json:"can_edit"`

	Page Page `gorm:"foreignKey:PageID" json:"page,omitempty"`
}

// TableName specifies the table name for PagePermission
func (PagePermission) TableName() string {
	return "page_permissions"
}

// PageAcknowledgement represents page_acknowledgements table. An
// acknowledgement is the completion signal for internal-page onboarding
// steps, so (page, user) pairs are unique.
type PageAcknowledgement struct {
	BaseModel
	PageID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_page_user" json:"page_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_page_user" json:"user_id"`
	AcknowledgedAt time.Time `gorm:"not null;default:now()" json:"acknowledged_at"`

	Page Page `gorm:"foreignKey:PageID" json:"page,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for PageAcknowledgement
func (PageAcknowledgement) TableName() string {
	return "page_acknowledgements"
}
