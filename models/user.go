package models

import "time"

// Application roles. Role checks compare against these constants;
// per-page grants are stored in PagePermission.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// User represents users table
type User struct {
	TenantModel
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	FirstName    string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName     string     `gorm:"type:varchar(100)" json:"last_name"`
	Role         string     `gorm:"type:varchar(20);not null;default:'staff'" json:"role"`
	JobTitle     *string    `gorm:"type:varchar(150)" json:"job_title,omitempty"`
	Department   *string    `gorm:"type:varchar(100)" json:"department,omitempty"`
	HireDate     *time.Time `gorm:"type:date" json:"hire_date,omitempty"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	Organisation Organisation `gorm:"foreignKey:OrganisationID" json:"organisation,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// FullName joins the name parts for display and exports
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsManagerOrAdmin reports whether the user can manage other staff
func (u *User) IsManagerOrAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}
