// handlers/collaboration_routes.go
package handlers

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"creator-loyalty-system/middleware"
	"creator-loyalty-system/models"
	"creator-loyalty-system/services"
	"creator-loyalty-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupCollaborationRoutes(app *fiber.App, collabService *services.CollaborationService, profileService *services.ProfileService) {
	securedGroup := app.Group("/creator/collaborations", middleware.UserContextMiddleware())

	securedGroup.Get("/", func(c *fiber.Ctx) error {
		creator, err := currentCreator(c, profileService)
		if err != nil {
			return respondDomainErr(c, err)
		}
		collabs, err := collabService.ListForCreator(creator.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch collaborations"})
		}

		now := time.Now()
		response := make([]fiber.Map, 0, len(collabs))
		for _, collab := range collabs {
			response = append(response, collabView(&collab, now))
		}
		return c.JSON(response)
	})

	securedGroup.Get("/eligibility", func(c *fiber.Ctx) error {
		creator, err := currentCreator(c, profileService)
		if err != nil {
			return respondDomainErr(c, err)
		}
		decision, err := collabService.Eligibility.CanStartNewCollaboration(creator)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "eligibility check failed", "cause": err.Error()})
		}
		return c.JSON(decision)
	})

	securedGroup.Post("/", func(c *fiber.Ctx) error {
		var req struct {
			Address  models.DeliveryAddress `json:"address"`
			Deadline *time.Time             `json:"deadline,omitempty"` // optional override, RFC3339
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.Address.RecipientName == "" || req.Address.Phone == "" || req.Address.Street == "" ||
			req.Address.City == "" || req.Address.PostalCode == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "recipient_name, phone, street, city, and postal_code are required"})
		}

		creator, err := currentCreator(c, profileService)
		if err != nil {
			return respondDomainErr(c, err)
		}

		collab, err := collabService.CreateFromCart(c.Context(), creator, req.Address, req.Deadline)
		if err != nil {
			return respondDomainErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(collabView(collab, time.Now()))
	})

	securedGroup.Get("/:id", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid collaboration ID"})
		}
		creator, err := currentCreator(c, profileService)
		if err != nil {
			return respondDomainErr(c, err)
		}
		collab, err := collabService.ByID(id, creator.ID)
		if err != nil {
			return respondDomainErr(c, err)
		}
		return c.JSON(collabView(collab, time.Now()))
	})

	securedGroup.Post("/:id/delivery", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid collaboration ID"})
		}
		creator, err := currentCreator(c, profileService)
		if err != nil {
			return respondDomainErr(c, err)
		}
		collab, err := collabService.ConfirmDelivery(c.Context(), id, creator.ID)
		if err != nil {
			return respondDomainErr(c, err)
		}
		return c.JSON(collabView(collab, time.Now()))
	})

	securedGroup.Post("/:id/content", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid collaboration ID"})
		}

		contentURL := c.FormValue("content_url")
		if contentURL == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "content_url is required"})
		}
		if _, err := url.ParseRequestURI(contentURL); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "content_url must be a valid URL"})
		}

		creator, err := currentCreator(c, profileService)
		if err != nil {
			return respondDomainErr(c, err)
		}

		// Optional proof screenshot; goes to R2 when configured, local uploads otherwise.
		var proofURL *string
		if fileHeader, err := c.FormFile("proof"); err == nil && fileHeader != nil {
			key := fmt.Sprintf("content-proofs/%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename))
			if utils.R2Enabled() {
				uploaded, err := utils.UploadContentProof(fileHeader, key)
				if err != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload proof"})
				}
				proofURL = &uploaded
			} else {
				destPath := utils.GetUploadPath(key)
				if err := utils.SaveFile(fileHeader, destPath); err != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save proof"})
				}
				local := "/uploads/" + key
				proofURL = &local
			}
		}

		collab, err := collabService.SubmitContent(c.Context(), id, creator.ID, contentURL, proofURL)
		if err != nil {
			return respondDomainErr(c, err)
		}
		return c.JSON(collabView(collab, time.Now()))
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin/collaborations", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/:id/ship", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid collaboration ID"})
		}
		collab, err := collabService.MarkShipped(c.Context(), id)
		if err != nil {
			return respondDomainErr(c, err)
		}
		return c.JSON(collabView(collab, time.Now()))
	})

	adminGroup.Post("/:id/complete", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid collaboration ID"})
		}
		var req struct {
			Rating int `json:"rating"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		collab, err := collabService.CompleteAndRate(c.Context(), id, req.Rating)
		if err != nil {
			return respondDomainErr(c, err)
		}
		return c.JSON(collabView(collab, time.Now()))
	})
}

// collabView decorates a collaboration with its display label and the
// read-side overdue flag.
func collabView(collab *models.Collaboration, now time.Time) fiber.Map {
	return fiber.Map{
		"id":                   collab.ID,
		"creator_id":           collab.CreatorID,
		"product_ids":          collab.ProductIDs,
		"status":               collab.Status.Normalize(),
		"status_label":         models.CollabStatusLabels[collab.Status.Normalize()],
		"address":              collab.Address,
		"deadline":             collab.Deadline,
		"overdue":              collab.IsOverdue(now),
		"shipped_at":           collab.ShippedAt,
		"delivered_at":         collab.DeliveredAt,
		"content_submitted_at": collab.ContentSubmittedAt,
		"completed_at":         collab.CompletedAt,
		"content_url":          collab.ContentURL,
		"content_proof_url":    collab.ContentProofURL,
		"rating":               collab.Rating,
		"points_earned":        collab.PointsEarned,
		"created_at":           collab.CreatedAt,
	}
}
