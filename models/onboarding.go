package models

import (
	"time"

	"github.com/google/uuid"
)

// Onboarding step types. Internal-page steps complete through a
// PageAcknowledgement on the target page; every other type completes
// through an OnboardingCompletion record.
const (
	StepTypeTask            = "task"
	StepTypeAcknowledgement = "acknowledgement"
	StepTypeInternalPage    = "internal_page"
	StepTypeExternalLink    = "external_link"
)

// OnboardingStep represents onboarding_steps table
type OnboardingStep struct {
	TenantModel
	Title        string     `gorm:"type:varchar(300);not null" json:"title"`
	Description  *string    `gorm:"type:text" json:"description,omitempty"`
	StepType     string     `gorm:"type:varchar(30);not null;default:'task'" json:"step_type"`
	TargetPageID *uuid.UUID `gorm:"type:uuid" json:"target_page_id,omitempty"`
	ExternalURL  *string    `gorm:"type:text" json:"external_url,omitempty"`
	SortOrder    int        `gorm:"not null;default:0" json:"sort_order"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`

	TargetPage *Page `gorm:"foreignKey:TargetPageID" json:"target_page,omitempty"`
}

// TableName specifies the table name for OnboardingStep
func (OnboardingStep) TableName() string {
	return "onboarding_steps"
}

// OnboardingCompletion represents onboarding_completions table
type OnboardingCompletion struct {
	BaseModel
	StepID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_step_user" json:"step_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_step_user" json:"user_id"`
	CompletedAt time.Time `gorm:"not null;default:now()" json:"completed_at"`

	Step OnboardingStep `gorm:"foreignKey:StepID" json:"step,omitempty"`
	User User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for OnboardingCompletion
func (OnboardingCompletion) TableName() string {
	return "onboarding_completions"
}
