// handlers/profile_routes.go
package handlers

import (
	"creator-loyalty-system/middleware"
	"creator-loyalty-system/models"
	"creator-loyalty-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// currentCreator resolves the gateway identity on the request to a creator row.
func currentCreator(c *fiber.Ctx, profileService *services.ProfileService) (*models.Creator, error) {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return nil, services.ErrNotFound
	}
	return profileService.ByExternalUserID(userID)
}

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/creators/register", func(c *fiber.Ctx) error {
		var req struct {
			FirstName        string `json:"first_name"`
			LastName         string `json:"last_name"`
			Platform         string `json:"platform"`
			Handle           string `json:"handle"`
			Followers        int64  `json:"followers"`
			AvgLikes         int64  `json:"avg_likes"`
			AvgComments      int64  `json:"avg_comments"`
			PostingFrequency string `json:"posting_frequency"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}

		userID, _ := c.Locals("user_id").(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing user context"})
		}
		if req.Followers < 0 || req.AvgLikes < 0 || req.AvgComments < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "social metrics must be non-negative"})
		}

		creator, err := profileService.Register(services.RegistrationInput{
			ExternalUserID:   userID,
			FirstName:        req.FirstName,
			LastName:         req.LastName,
			Platform:         req.Platform,
			Handle:           req.Handle,
			Followers:        req.Followers,
			AvgLikes:         req.AvgLikes,
			AvgComments:      req.AvgComments,
			PostingFrequency: req.PostingFrequency,
		})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "registration failed", "cause": err.Error()})
		}
		return c.Status(fiber.StatusCreated).JSON(creator)
	})

	securedGroup.Get("/creator/progress", func(c *fiber.Ctx) error {
		creator, err := currentCreator(c, profileService)
		if err != nil {
			return respondDomainErr(c, err)
		}
		snapshot, err := profileService.Progress(creator)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build progress", "cause": err.Error()})
		}
		return c.JSON(snapshot)
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/creators/:id/recalculate-tier", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid creator ID"})
		}
		creator, err := profileService.RecalculateTier(id)
		if err != nil {
			return respondDomainErr(c, err)
		}
		return c.JSON(fiber.Map{
			"message": "tier recalculated",
			"creator": creator,
		})
	})

	adminGroup.Get("/creators", func(c *fiber.Ctx) error {
		query := c.Query("q", "")
		limit := c.QueryInt("limit", 50)
		if limit <= 0 || limit > 100 {
			limit = 50
		}
		creators, err := profileService.Search(query, limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "search failed", "cause": err.Error()})
		}
		return c.JSON(creators)
	})

	adminGroup.Post("/achievements/grant", func(c *fiber.Ctx) error {
		var req struct {
			CreatorID       string `json:"creator_id"`
			AchievementCode string `json:"achievement_code"`
			Metadata        string `json:"metadata"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if _, err := uuid.Parse(req.CreatorID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid creator_id"})
		}
		if req.AchievementCode == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "achievement_code is required"})
		}

		grant, err := profileService.GrantAchievement(req.CreatorID, req.AchievementCode, req.Metadata)
		if err != nil {
			return respondDomainErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(grant)
	})
}
