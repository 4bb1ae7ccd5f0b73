// handlers/catalog_routes.go
package handlers

import (
	"errors"

	"creator-loyalty-system/models"
	"creator-loyalty-system/services"

	"github.com/gofiber/fiber/v2"
)

// respondDomainErr maps domain errors to HTTP responses. Shared by all route files.
func respondDomainErr(c *fiber.Ctx, err error) error {
	var cooldown *services.CooldownActiveError
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrLimitReached):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidRating), errors.Is(err, services.ErrInvalidTransition):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &cooldown):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":              cooldown.Error(),
			"cooldown_days_left": cooldown.DaysLeft,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error", "cause": err.Error()})
	}
}

func SetupCatalogRoutes(app *fiber.App, catalogService *services.CatalogService) {
	app.Get("/catalog/tiers", func(c *fiber.Ctx) error {
		type tierView struct {
			models.Tier
			Label string `json:"label"`
		}
		views := make([]tierView, 0, len(models.TierCatalog))
		for _, t := range models.TierCatalog {
			views = append(views, tierView{Tier: t, Label: t.Name})
		}
		return c.JSON(views)
	})

	app.Get("/catalog/products", func(c *fiber.Ctx) error {
		category := c.Query("category")

		var (
			products []models.Product
			err      error
		)
		if category != "" {
			products, err = catalogService.ProductsByCategory(category)
		} else {
			products, err = catalogService.AllProducts()
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch products"})
		}

		response := make([]fiber.Map, 0, len(products))
		for _, p := range products {
			response = append(response, fiber.Map{
				"id":             p.ID,
				"name":           p.Name,
				"slug":           p.Slug,
				"category":       p.Category,
				"category_label": services.CategoryLabel(p.Category),
				"description":    p.Description,
				"image_url":      p.ImageURL,
				"min_tier_rank":  p.MinTierRank,
				"popularity":     p.Popularity,
			})
		}
		return c.JSON(response)
	})

	app.Get("/catalog/products/:id", func(c *fiber.Ctx) error {
		product, err := catalogService.ProductByID(c.Params("id"))
		if err != nil {
			return respondDomainErr(c, err)
		}
		return c.JSON(product)
	})
}
