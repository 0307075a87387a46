package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/demiirawo/cc-academy/database"
	"github.com/demiirawo/cc-academy/models"
	"github.com/demiirawo/cc-academy/services"
)

type stepRequest struct {
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	StepType     string     `json:"step_type"`
	TargetPageID *uuid.UUID `json:"target_page_id"`
	ExternalURL  *string    `json:"external_url"`
	SortOrder    int        `json:"sort_order"`
	IsActive     *bool      `json:"is_active"`
}

func (r *stepRequest) validate() string {
	if r.Title == "" {
		return "Title is required"
	}
	switch r.StepType {
	case models.StepTypeTask, models.StepTypeAcknowledgement:
	case models.StepTypeInternalPage:
		if r.TargetPageID == nil {
			return "Internal page steps need a target_page_id"
		}
	case models.StepTypeExternalLink:
		if r.ExternalURL == nil || *r.ExternalURL == "" {
			return "External link steps need an external_url"
		}
	default:
		return "Unknown step_type: " + r.StepType
	}
	return ""
}

// OnboardingStepList returns the org's steps in display order
func OnboardingStepList(c *fiber.Ctx) error {
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}

	var steps []models.OnboardingStep
	err = database.GetDB().
		Where("organisation_id = ?", orgID).
		Order("sort_order, created_at").
		Find(&steps).Error
	if err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"steps": steps, "total": len(steps)})
}

// OnboardingStepCreate adds a step
func OnboardingStepCreate(c *fiber.Ctx) error {
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}

	var req stepRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}

	step := models.OnboardingStep{
		Title:        req.Title,
		Description:  req.Description,
		StepType:     req.StepType,
		TargetPageID: req.TargetPageID,
		ExternalURL:  req.ExternalURL,
		SortOrder:    req.SortOrder,
		IsActive:     true,
	}
	step.OrganisationID = orgID
	if req.IsActive != nil {
		step.IsActive = *req.IsActive
	}

	if err := database.GetDB().Create(&step).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(step)
}

// OnboardingStepUpdate edits a step
func OnboardingStepUpdate(c *fiber.Ctx) error {
	step, err := loadOrgStep(c)
	if err != nil {
		return err
	}

	var req stepRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}

	updates := map[string]interface{}{
		"title":          req.Title,
		"description":    req.Description,
		"step_type":      req.StepType,
		"target_page_id": req.TargetPageID,
		"external_url":   req.ExternalURL,
		"sort_order":     req.SortOrder,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := database.GetDB().Model(step).Updates(updates).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(step)
}

// OnboardingStepDelete removes a step and its completion records
func OnboardingStepDelete(c *fiber.Ctx) error {
	step, err := loadOrgStep(c)
	if err != nil {
		return err
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("step_id = ?", step.ID).Delete(&models.OnboardingCompletion{}).Error; err != nil {
			return err
		}
		return tx.Delete(step).Error
	})
	if err != nil {
		return dbError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// OnboardingComplete marks a step done for the caller (or, for managers,
// for another user via ?user_id=). Internal-page steps are completed by
// acknowledging the page instead.
func OnboardingComplete(c *fiber.Ctx) error {
	step, err := loadOrgStep(c)
	if err != nil {
		return err
	}

	if step.StepType == models.StepTypeInternalPage {
		return badRequest(c, "Internal page steps complete through page acknowledgement")
	}

	userID, err := currentUserID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}
	if raw := c.Query("user_id"); raw != "" {
		if currentRole(c) == models.RoleStaff {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Cannot complete steps for other users"})
		}
		target, err := uuid.Parse(raw)
		if err != nil {
			return badRequest(c, "Invalid user_id")
		}
		userID = target
	}

	completion := models.OnboardingCompletion{
		StepID:      step.ID,
		UserID:      userID,
		CompletedAt: time.Now().UTC(),
	}
	err = database.GetDB().
		Where("step_id = ? AND user_id = ?", step.ID, userID).
		FirstOrCreate(&completion).Error
	if err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(completion)
}

// OnboardingMatrix returns the per-staff completion grid for the org
func OnboardingMatrix(c *fiber.Ctx) error {
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}

	db := database.GetDB()

	var steps []models.OnboardingStep
	if err := db.Where("organisation_id = ? AND is_active = true", orgID).Find(&steps).Error; err != nil {
		return dbError(c, err)
	}

	var staff []models.User
	if err := db.Where("organisation_id = ? AND is_active = true", orgID).Order("last_name, first_name").Find(&staff).Error; err != nil {
		return dbError(c, err)
	}

	var completions []models.OnboardingCompletion
	err = db.
		Joins("JOIN academy.onboarding_steps s ON s.id = onboarding_completions.step_id").
		Where("s.organisation_id = ?", orgID).
		Find(&completions).Error
	if err != nil {
		return dbError(c, err)
	}

	var acks []models.PageAcknowledgement
	err = db.
		Joins("JOIN academy.pages p ON p.id = page_acknowledgements.page_id").
		Where("p.organisation_id = ?", orgID).
		Find(&acks).Error
	if err != nil {
		return dbError(c, err)
	}

	matrix := services.BuildCompletionMatrix(steps, staff, completions, acks)
	return c.JSON(matrix)
}

func loadOrgStep(c *fiber.Ctx) (*models.OnboardingStep, error) {
	orgID, err := currentOrgID(c)
	if err != nil {
		return nil, badRequest(c, "Invalid session")
	}
	stepID, err := paramUUID(c, "id")
	if err != nil {
		return nil, badRequest(c, "Invalid step id")
	}

	var step models.OnboardingStep
	err = database.GetDB().
		Where("id = ? AND organisation_id = ?", stepID, orgID).
		First(&step).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(c, "Onboarding step not found")
		}
		return nil, dbError(c, err)
	}
	return &step, nil
}
