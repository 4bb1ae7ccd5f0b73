package models

import (
	"time"
)

// AchievementType: static config (seeded into DB at boot)
type AchievementType struct {
	ID          string `gorm:"primaryKey"`
	Code        string `gorm:"uniqueIndex;not null"` // e.g., "FIRST_COLLAB"
	Name        string `gorm:"not null"`
	Description string
	IconURL     string    `gorm:"type:text"`
	Rarity      string    `gorm:"type:varchar(16);default:'common'"` // common, rare, epic, legendary
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// CreatorAchievement: awarded instance. Append-only — there is no automatic
// unlock engine in this service; grants arrive through the admin endpoint.
type CreatorAchievement struct {
	ID                string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CreatorID         string    `gorm:"index;not null"`
	AchievementTypeID string    `gorm:"index;not null"`
	AwardedAt         time.Time `gorm:"autoCreateTime"`
	Metadata          string    `gorm:"type:jsonb"` // e.g., {"collaboration_id": "..."}
}

// AchievementSeeds are the catalog entries shipped with the service.
var AchievementSeeds = []AchievementType{
	{
		ID:          "ach-welcome",
		Code:        "WELCOME",
		Name:        "Welcome to the Club",
		Description: "Joined the creators program",
		Rarity:      "common",
	},
	{
		ID:          "ach-first-collab",
		Code:        "FIRST_COLLAB",
		Name:        "First Collaboration",
		Description: "Completed your first collaboration",
		Rarity:      "common",
	},
	{
		ID:          "ach-five-star",
		Code:        "FIVE_STAR",
		Name:        "Five Stars",
		Description: "Received a 5-star content rating",
		Rarity:      "rare",
	},
	{
		ID:          "ach-ten-collabs",
		Code:        "TEN_COLLABS",
		Name:        "Serial Creator",
		Description: "Completed ten collaborations",
		Rarity:      "epic",
	},
	{
		ID:          "ach-ambassador",
		Code:        "AMBASSADOR",
		Name:        "Brand Ambassador",
		Description: "Reached the Ambassador tier",
		Rarity:      "legendary",
	},
}
