package models

import (
	"time"

	"gorm.io/gorm"
)

// Creator is a blogger enrolled in the loyalty program.
// Tier assignment is sticky: set at registration from social metrics, then
// changed only by the explicit recalculation step. Completing collaborations
// awards points but never moves the tier on its own.
type Creator struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // profile service identity

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	TierID string `gorm:"index;not null;default:'beginner'" json:"tier_id"`

	// Points only ever increase, and only via completed collaborations.
	Points int64 `json:"points" gorm:"default:0"`

	TotalCollaborations      int64 `json:"total_collaborations" gorm:"default:0"`
	SuccessfulCollaborations int64 `json:"successful_collaborations" gorm:"default:0"`

	SocialAccounts []SocialAccount `json:"social_accounts,omitempty" gorm:"foreignKey:CreatorID"`

	RegisteredAt time.Time `json:"registered_at" gorm:"autoCreateTime"`

	Timestamps
}

// SocialAccount holds a creator's platform metrics. Zero or one per creator
// in the observed flows; numbers are refreshed by the metrics sync worker.
type SocialAccount struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CreatorID string `gorm:"index;not null" json:"creator_id"`

	Platform         string  `gorm:"not null;uniqueIndex:idx_platform_handle" json:"platform"` // instagram, youtube, telegram...
	Handle           string  `gorm:"not null;uniqueIndex:idx_platform_handle" json:"handle"`
	Followers        int64   `json:"followers"`
	AvgLikes         int64   `json:"avg_likes"`
	AvgComments      int64   `json:"avg_comments"`
	EngagementRate   float64 `json:"engagement_rate"` // (likes+comments)/followers*100
	PostingFrequency string  `json:"posting_frequency,omitempty"`
	Verified         bool    `json:"verified" gorm:"default:false"`

	Timestamps
}

// EngagementRateFor derives ER from raw metrics; zero followers yields zero.
func EngagementRateFor(followers, avgLikes, avgComments int64) float64 {
	if followers <= 0 {
		return 0
	}
	return float64(avgLikes+avgComments) / float64(followers) * 100
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
