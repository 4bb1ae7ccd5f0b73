package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ProductCategorySkincare  = "skincare"
	ProductCategoryHaircare  = "haircare"
	ProductCategoryBodycare  = "bodycare"
	ProductCategoryMakeup    = "makeup"
	ProductCategoryFragrance = "fragrance"
)

// Product is a catalog entry offered for collaborations.
// Admin mutation happens outside this service — rows are seeded at boot
// and treated as read-only reference data afterwards.
type Product struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Category    string `json:"category" gorm:"index;not null"`
	Description string `json:"description" gorm:"type:text"`
	ImageURL    string `json:"image_url" gorm:"type:text"`

	// Minimum tier rank required to select this product.
	MinTierRank int `json:"min_tier_rank" gorm:"not null;default:1"`

	// Popularity score used for catalog ordering.
	Popularity int `json:"popularity" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// ProductSeed describes a catalog row before slug/id assignment.
type ProductSeed struct {
	ID          string
	Name        string
	Category    string
	Description string
	MinTierRank int
	Popularity  int
}

// ProductSeeds is the default catalog shipped with the service.
var ProductSeeds = []ProductSeed{
	{ID: "prod-hyaluronic-serum", Name: "Hyaluronic Acid Serum", Category: ProductCategorySkincare, Description: "Deep hydration serum with 2% hyaluronic complex", MinTierRank: 1, Popularity: 95},
	{ID: "prod-vitamin-c-cream", Name: "Vitamin C Day Cream", Category: ProductCategorySkincare, Description: "Brightening cream with stabilized vitamin C", MinTierRank: 1, Popularity: 88},
	{ID: "prod-clay-mask", Name: "Green Clay Detox Mask", Category: ProductCategorySkincare, Description: "Purifying mask for oily and combination skin", MinTierRank: 1, Popularity: 76},
	{ID: "prod-keratin-shampoo", Name: "Keratin Repair Shampoo", Category: ProductCategoryHaircare, Description: "Restoring shampoo for damaged hair", MinTierRank: 1, Popularity: 82},
	{ID: "prod-hair-oil", Name: "Argan Hair Oil Elixir", Category: ProductCategoryHaircare, Description: "Leave-in oil blend with argan and jojoba", MinTierRank: 2, Popularity: 71},
	{ID: "prod-body-scrub", Name: "Coffee Body Scrub", Category: ProductCategoryBodycare, Description: "Energizing scrub with arabica grounds", MinTierRank: 1, Popularity: 69},
	{ID: "prod-body-butter", Name: "Shea Body Butter", Category: ProductCategoryBodycare, Description: "Rich butter for very dry skin", MinTierRank: 2, Popularity: 64},
	{ID: "prod-lip-tint", Name: "Velvet Lip Tint", Category: ProductCategoryMakeup, Description: "Long-wear tint in six shades", MinTierRank: 2, Popularity: 80},
	{ID: "prod-brow-gel", Name: "Sculpting Brow Gel", Category: ProductCategoryMakeup, Description: "Fixing gel with flexible hold", MinTierRank: 3, Popularity: 58},
	{ID: "prod-retinol-night", Name: "Retinol Night Concentrate", Category: ProductCategorySkincare, Description: "0.3% encapsulated retinol treatment", MinTierRank: 3, Popularity: 86},
	{ID: "prod-parfum-noir", Name: "Noir Eau de Parfum", Category: ProductCategoryFragrance, Description: "Limited edition evening fragrance", MinTierRank: 4, Popularity: 74},
	{ID: "prod-ampoule-set", Name: "Peptide Ampoule Set", Category: ProductCategorySkincare, Description: "14-day intensive peptide course", MinTierRank: 5, Popularity: 91},
}
