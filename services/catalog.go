package services

import (
	"fmt"
	"log"

	"creator-loyalty-system/models"

	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TierForMetrics walks tiers from highest rank down and returns the first one
// whose follower and engagement thresholds are both met. Falls back to the
// lowest tier. Assignment via this function happens at registration or during
// the explicit recalculation step only.
func TierForMetrics(followers int64, engagementRate float64) *models.Tier {
	for i := len(models.TierCatalog) - 1; i >= 0; i-- {
		t := &models.TierCatalog[i]
		if followers >= t.MinFollowers && engagementRate >= t.MinEngagementRate {
			return t
		}
	}
	return models.LowestTier()
}

// ProgressToNext returns percent progress toward the next tier, capped at 100.
// The top tier (no points target) always reports 100.
func ProgressToNext(tier *models.Tier, points int64) float64 {
	if tier == nil || tier.PointsToNext == nil || *tier.PointsToNext <= 0 {
		return 100
	}
	pct := float64(points) / float64(*tier.PointsToNext) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// CanAccess: a creator at userRank may use anything requiring requiredRank or below.
func CanAccess(userRank, requiredRank int) bool {
	return userRank >= requiredRank
}

var categoryTitle = cases.Title(language.English)

// CategoryLabel turns a stored category value into its display label.
func CategoryLabel(category string) string {
	return categoryTitle.String(category)
}

type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

// SeedProducts upserts the default catalog. Idempotent — existing rows are
// refreshed in place so re-deploys pick up copy changes.
func (s *CatalogService) SeedProducts() error {
	products := make([]models.Product, 0, len(models.ProductSeeds))
	for _, seed := range models.ProductSeeds {
		products = append(products, models.Product{
			ID:          seed.ID,
			Name:        seed.Name,
			Slug:        slug.Make(seed.Name),
			Category:    seed.Category,
			Description: seed.Description,
			MinTierRank: seed.MinTierRank,
			Popularity:  seed.Popularity,
		})
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "slug", "category", "description", "min_tier_rank", "popularity"}),
	}).Create(&products).Error
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	log.Printf("✅ Product catalog seeded (%d items)", len(products))
	return nil
}

// SeedAchievements upserts the achievement catalog.
func (s *CatalogService) SeedAchievements() error {
	seeds := make([]models.AchievementType, len(models.AchievementSeeds))
	copy(seeds, models.AchievementSeeds)
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "name", "description", "rarity"}),
	}).Create(&seeds).Error
	if err != nil {
		return fmt.Errorf("failed to seed achievements: %w", err)
	}
	log.Printf("✅ Achievement catalog seeded (%d items)", len(seeds))
	return nil
}

// ProductByID fetches one catalog entry.
func (s *CatalogService) ProductByID(id string) (*models.Product, error) {
	var p models.Product
	if err := s.DB.First(&p, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ProductsByCategory lists catalog entries for one category, most popular first.
func (s *CatalogService) ProductsByCategory(category string) ([]models.Product, error) {
	var products []models.Product
	err := s.DB.Where("category = ?", category).
		Order("popularity DESC").
		Find(&products).Error
	return products, err
}

// AllProducts lists the whole catalog, most popular first.
func (s *CatalogService) AllProducts() ([]models.Product, error) {
	var products []models.Product
	err := s.DB.Order("popularity DESC").Find(&products).Error
	return products, err
}
