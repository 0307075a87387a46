package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/demiirawo/cc-academy/database"
	"github.com/demiirawo/cc-academy/models"
)

type pageRequest struct {
	Title     string         `json:"title"`
	Content   datatypes.JSON `json:"content"`
	ParentID  *uuid.UUID     `json:"parent_id"`
	SortOrder int            `json:"sort_order"`
	IsPublic  *bool          `json:"is_public"`
}

// PageList returns the org's pages the caller may view, tree-ordered
func PageList(c *fiber.Ctx) error {
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}

	var pages []models.Page
	err = database.GetDB().
		Where("organisation_id = ?", orgID).
		Order("parent_id NULLS FIRST, sort_order, created_at").
		Find(&pages).Error
	if err != nil {
		return dbError(c, err)
	}

	visible := make([]models.Page, 0, len(pages))
	for _, p := range pages {
		if ok, err := canViewPage(c, &p); err != nil {
			return dbError(c, err)
		} else if ok {
			visible = append(visible, p)
		}
	}

	return c.JSON(fiber.Map{"pages": visible, "total": len(visible)})
}

// PageView returns a single page
func PageView(c *fiber.Ctx) error {
	page, err := loadOrgPage(c)
	if err != nil {
		return err
	}

	if ok, err := canViewPage(c, page); err != nil {
		return dbError(c, err)
	} else if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not have access to this page"})
	}

	return c.JSON(page)
}

// PageCreate creates a knowledge-base page
func PageCreate(c *fiber.Ctx) error {
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}
	userID, err := currentUserID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}

	var req pageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if req.Title == "" {
		return badRequest(c, "Title is required")
	}

	page := models.Page{
		Title:     req.Title,
		Content:   req.Content,
		ParentID:  req.ParentID,
		SortOrder: req.SortOrder,
		IsPublic:  true,
		CreatedBy: userID,
	}
	page.OrganisationID = orgID
	if req.IsPublic != nil {
		page.IsPublic = *req.IsPublic
	}

	if err := database.GetDB().Create(&page).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(page)
}

// PageUpdate edits a page's title, content, position or visibility
func PageUpdate(c *fiber.Ctx) error {
	page, err := loadOrgPage(c)
	if err != nil {
		return err
	}

	if ok, err := canEditPage(c, page); err != nil {
		return dbError(c, err)
	} else if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not have edit access to this page"})
	}

	var req pageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}

	userID, _ := currentUserID(c)
	updates := map[string]interface{}{
		"sort_order": req.SortOrder,
		"parent_id":  req.ParentID,
		"updated_by": userID,
	}
	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Content != nil {
		updates["content"] = req.Content
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}

	if err := database.GetDB().Model(page).Updates(updates).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(page)
}

// PageDelete removes a page, its permissions and acknowledgements.
// Children are re-parented one level up rather than deleted.
func PageDelete(c *fiber.Ctx) error {
	page, err := loadOrgPage(c)
	if err != nil {
		return err
	}

	if ok, err := canEditPage(c, page); err != nil {
		return dbError(c, err)
	} else if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not have edit access to this page"})
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Page{}).Where("parent_id = ?", page.ID).Update("parent_id", page.ParentID).Error; err != nil {
			return err
		}
		if err := tx.Where("page_id = ?", page.ID).Delete(&models.PagePermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("page_id = ?", page.ID).Delete(&models.PageAcknowledgement{}).Error; err != nil {
			return err
		}
		return tx.Delete(page).Error
	})
	if err != nil {
		return dbError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// PageAcknowledge records that the caller has read the page. Repeat calls
// keep the first acknowledgement (the pair is unique).
func PageAcknowledge(c *fiber.Ctx) error {
	page, err := loadOrgPage(c)
	if err != nil {
		return err
	}

	if ok, err := canViewPage(c, page); err != nil {
		return dbError(c, err)
	} else if !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You do not have access to this page"})
	}

	userID, err := currentUserID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}

	ack := models.PageAcknowledgement{
		PageID:         page.ID,
		UserID:         userID,
		AcknowledgedAt: time.Now().UTC(),
	}
	err = database.GetDB().
		Where("page_id = ? AND user_id = ?", page.ID, userID).
		FirstOrCreate(&ack).Error
	if err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(ack)
}

// PageAcknowledgements lists who has acknowledged a page
func PageAcknowledgements(c *fiber.Ctx) error {
	page, err := loadOrgPage(c)
	if err != nil {
		return err
	}

	var acks []models.PageAcknowledgement
	err = database.GetDB().
		Preload("User").
		Where("page_id = ?", page.ID).
		Order("acknowledged_at").
		Find(&acks).Error
	if err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"acknowledgements": acks, "total": len(acks)})
}

// PageSetPermissions replaces the role grants on a restricted page
func PageSetPermissions(c *fiber.Ctx) error {
	page, err := loadOrgPage(c)
	if err != nil {
		return err
	}

	type grant struct {
		Role    string `json:"role"`
		CanView bool   `json:"can_view"`
		CanEdit bool   `json:"can_edit"`
	}
	var req struct {
		Grants []grant `json:"grants"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}

	for _, g := range req.Grants {
		switch g.Role {
		case models.RoleAdmin, models.RoleManager, models.RoleStaff:
		default:
			return badRequest(c, "Unknown role: "+g.Role)
		}
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("page_id = ?", page.ID).Delete(&models.PagePermission{}).Error; err != nil {
			return err
		}
		for _, g := range req.Grants {
			perm := models.PagePermission{
				PageID:  page.ID,
				Role:    g.Role,
				CanView: g.CanView,
				CanEdit: g.CanEdit,
			}
			if err := tx.Create(&perm).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Permissions updated"})
}

// loadOrgPage fetches the :id page scoped to the caller's organisation.
// A nil error with a non-nil page means the page may be used; otherwise the
// response has already been written.
func loadOrgPage(c *fiber.Ctx) (*models.Page, error) {
	orgID, err := currentOrgID(c)
	if err != nil {
		return nil, badRequest(c, "Invalid session")
	}
	pageID, err := paramUUID(c, "id")
	if err != nil {
		return nil, badRequest(c, "Invalid page id")
	}

	var page models.Page
	err = database.GetDB().
		Where("id = ? AND organisation_id = ?", pageID, orgID).
		First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(c, "Page not found")
		}
		return nil, dbError(c, err)
	}
	return &page, nil
}

func canViewPage(c *fiber.Ctx, page *models.Page) (bool, error) {
	role := currentRole(c)
	if page.IsPublic || role == models.RoleAdmin {
		return true, nil
	}

	var perm models.PagePermission
	err := database.GetDB().
		Where("page_id = ? AND role = ?", page.ID, role).
		First(&perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return perm.CanView, nil
}

func canEditPage(c *fiber.Ctx, page *models.Page) (bool, error) {
	role := currentRole(c)
	if role == models.RoleAdmin || role == models.RoleManager {
		return true, nil
	}

	// Staff edits always need an explicit grant, public or not
	var perm models.PagePermission
	err := database.GetDB().
		Where("page_id = ? AND role = ?", page.ID, role).
		First(&perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return perm.CanEdit, nil
}
