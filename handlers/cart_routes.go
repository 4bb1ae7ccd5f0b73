// handlers/cart_routes.go
package handlers

import (
	"creator-loyalty-system/middleware"
	"creator-loyalty-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCartRoutes(app *fiber.App, cartService *services.CartService, catalogService *services.CatalogService, profileService *services.ProfileService) {
	securedGroup := app.Group("/creator/cart", middleware.UserContextMiddleware())

	securedGroup.Get("/", func(c *fiber.Ctx) error {
		creator, err := currentCreator(c, profileService)
		if err != nil {
			return respondDomainErr(c, err)
		}
		sel, err := cartService.Get(c.Context(), creator.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load cart", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{
			"product_ids": sel.ProductIDs,
			"max_allowed": services.MaxAllowed(creator),
		})
	})

	securedGroup.Post("/items", func(c *fiber.Ctx) error {
		var req struct {
			ProductID string `json:"product_id"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "cause": err.Error()})
		}
		if req.ProductID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "product_id is required"})
		}

		creator, err := currentCreator(c, profileService)
		if err != nil {
			return respondDomainErr(c, err)
		}

		product, err := catalogService.ProductByID(req.ProductID)
		if err != nil {
			return respondDomainErr(c, err)
		}
		if !services.CanSelectProduct(creator, product) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "product requires a higher tier"})
		}

		sel, err := cartService.AddItem(c.Context(), creator, product)
		if err != nil {
			return respondDomainErr(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"product_ids": sel.ProductIDs,
			"max_allowed": services.MaxAllowed(creator),
		})
	})

	securedGroup.Delete("/items/:productId", func(c *fiber.Ctx) error {
		creator, err := currentCreator(c, profileService)
		if err != nil {
			return respondDomainErr(c, err)
		}
		sel, err := cartService.RemoveItem(c.Context(), creator.ID, c.Params("productId"))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update cart", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{"product_ids": sel.ProductIDs})
	})

	securedGroup.Delete("/", func(c *fiber.Ctx) error {
		creator, err := currentCreator(c, profileService)
		if err != nil {
			return respondDomainErr(c, err)
		}
		if err := cartService.Clear(c.Context(), creator.ID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to clear cart", "cause": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "cart cleared"})
	})
}
