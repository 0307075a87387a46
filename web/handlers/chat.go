package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/demiirawo/cc-academy/database"
	"github.com/demiirawo/cc-academy/models"
)

// ChatThreadList returns the caller's assistant conversations
func ChatThreadList(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}

	var threads []models.ChatThread
	err = database.GetDB().
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&threads).Error
	if err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"threads": threads, "total": len(threads)})
}

// ChatThreadCreate starts a conversation
func ChatThreadCreate(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}
	orgID, err := currentOrgID(c)
	if err != nil {
		return badRequest(c, "Invalid session")
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}

	thread := models.ChatThread{UserID: userID}
	thread.OrganisationID = orgID
	if req.Title != "" {
		thread.Title = req.Title
	}

	if err := database.GetDB().Create(&thread).Error; err != nil {
		return dbError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(thread)
}

// ChatThreadView returns one conversation with its messages
func ChatThreadView(c *fiber.Ctx) error {
	thread, err := loadOwnThread(c)
	if err != nil {
		return err
	}

	var messages []models.ChatMessage
	err = database.GetDB().
		Where("thread_id = ?", thread.ID).
		Order("created_at").
		Find(&messages).Error
	if err != nil {
		return dbError(c, err)
	}
	thread.Messages = messages

	return c.JSON(thread)
}

// ChatMessageCreate appends a message to a conversation. The assistant's
// replies arrive through the same endpoint with sender=assistant, posted by
// the UI after the external inference call returns.
func ChatMessageCreate(c *fiber.Ctx) error {
	thread, err := loadOwnThread(c)
	if err != nil {
		return err
	}

	var req struct {
		Sender  string `json:"sender"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if req.Sender != "user" && req.Sender != "assistant" {
		return badRequest(c, "sender must be user or assistant")
	}
	if req.Content == "" {
		return badRequest(c, "Content is required")
	}

	message := models.ChatMessage{
		ThreadID: thread.ID,
		Sender:   req.Sender,
		Content:  req.Content,
	}

	db := database.GetDB()
	if err := db.Create(&message).Error; err != nil {
		return dbError(c, err)
	}
	// Touch the thread so the list sorts recently-used first
	db.Model(thread).Update("updated_at", message.CreatedAt)

	return c.Status(fiber.StatusCreated).JSON(message)
}

// ChatThreadDelete removes a conversation and its messages
func ChatThreadDelete(c *fiber.Ctx) error {
	thread, err := loadOwnThread(c)
	if err != nil {
		return err
	}

	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("thread_id = ?", thread.ID).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(thread).Error
	})
	if err != nil {
		return dbError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func loadOwnThread(c *fiber.Ctx) (*models.ChatThread, error) {
	userID, err := currentUserID(c)
	if err != nil {
		return nil, badRequest(c, "Invalid session")
	}
	threadID, err := paramUUID(c, "id")
	if err != nil {
		return nil, badRequest(c, "Invalid thread id")
	}

	var thread models.ChatThread
	err = database.GetDB().
		Where("id = ? AND user_id = ?", threadID, userID).
		First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(c, "Conversation not found")
		}
		return nil, dbError(c, err)
	}
	return &thread, nil
}
