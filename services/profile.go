package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"creator-loyalty-system/events"
	"creator-loyalty-system/models"

	"gorm.io/gorm"
)

type ProfileService struct {
	DB     *gorm.DB
	Events events.Publisher
}

func NewProfileService(db *gorm.DB, publisher events.Publisher) *ProfileService {
	return &ProfileService{DB: db, Events: publisher}
}

// RegistrationInput carries the fields collected by the signup form.
type RegistrationInput struct {
	ExternalUserID string
	FirstName      string
	LastName       string

	// Optional social account; tier is assigned from these metrics once.
	Platform         string
	Handle           string
	Followers        int64
	AvgLikes         int64
	AvgComments      int64
	PostingFrequency string
}

// Register creates a creator with a sticky initial tier derived from social
// metrics. Re-registering the same external user returns the existing record.
func (s *ProfileService) Register(input RegistrationInput) (*models.Creator, error) {
	var existing models.Creator
	err := s.DB.Where("external_user_id = ?", input.ExternalUserID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up creator: %w", err)
	}

	er := models.EngagementRateFor(input.Followers, input.AvgLikes, input.AvgComments)
	tier := TierForMetrics(input.Followers, er)

	creator := &models.Creator{
		ExternalUserID: input.ExternalUserID,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		TierID:         tier.ID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(creator).Error; err != nil {
			return err
		}
		if input.Platform != "" && input.Handle != "" {
			account := &models.SocialAccount{
				CreatorID:        creator.ID,
				Platform:         input.Platform,
				Handle:           input.Handle,
				Followers:        input.Followers,
				AvgLikes:         input.AvgLikes,
				AvgComments:      input.AvgComments,
				EngagementRate:   er,
				PostingFrequency: input.PostingFrequency,
			}
			if err := tx.Create(account).Error; err != nil {
				return err
			}
			creator.SocialAccounts = []models.SocialAccount{*account}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register creator: %w", err)
	}

	log.Printf("✅ Creator registered: %s (tier %s)", creator.ID, tier.ID)
	return creator, nil
}

// ByExternalUserID resolves the gateway identity to a creator record.
func (s *ProfileService) ByExternalUserID(externalUserID string) (*models.Creator, error) {
	var creator models.Creator
	err := s.DB.Preload("SocialAccounts").
		Where("external_user_id = ?", externalUserID).
		First(&creator).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &creator, nil
}

// Search filters creators by name for the admin console.
func (s *ProfileService) Search(query string, limit int) ([]models.Creator, error) {
	db := s.DB.Model(&models.Creator{}).Limit(limit)
	if query != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
		db = db.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", term, term)
	}
	var creators []models.Creator
	if err := db.Order("registered_at DESC").Find(&creators).Error; err != nil {
		return nil, err
	}
	return creators, nil
}

// RecalculateTier is the only tier writer besides registration. It re-derives
// the qualifying tier from the creator's current social metrics and promotes
// when the result outranks the assigned tier. It never demotes.
func (s *ProfileService) RecalculateTier(creatorID string) (*models.Creator, error) {
	var creator models.Creator
	err := s.DB.Preload("SocialAccounts").First(&creator, "id = ?", creatorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var followers int64
	var er float64
	if len(creator.SocialAccounts) > 0 {
		acc := creator.SocialAccounts[0]
		followers = acc.Followers
		er = acc.EngagementRate
	}

	current := models.TierByID(creator.TierID)
	if current == nil {
		current = models.LowestTier()
	}
	qualified := TierForMetrics(followers, er)

	if qualified.Rank > current.Rank {
		creator.TierID = qualified.ID
		if err := s.DB.Save(&creator).Error; err != nil {
			return nil, fmt.Errorf("failed to update tier: %w", err)
		}
		log.Printf("⬆️ Creator %s promoted: %s → %s", creator.ID, current.ID, qualified.ID)
	}
	return &creator, nil
}

// GrantAchievement appends an achievement to a creator. Grants are idempotent
// per (creator, achievement) pair and never revoked.
func (s *ProfileService) GrantAchievement(creatorID, achievementCode, metadata string) (*models.CreatorAchievement, error) {
	var achType models.AchievementType
	if err := s.DB.Where("code = ?", achievementCode).First(&achType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var count int64
	s.DB.Model(&models.CreatorAchievement{}).
		Where("creator_id = ? AND achievement_type_id = ?", creatorID, achType.ID).
		Count(&count)
	if count > 0 {
		return nil, ErrDuplicate
	}

	grant := &models.CreatorAchievement{
		CreatorID:         creatorID,
		AchievementTypeID: achType.ID,
		Metadata:          metadata,
	}
	if err := s.DB.Create(grant).Error; err != nil {
		return nil, fmt.Errorf("failed to grant achievement: %w", err)
	}
	log.Printf("🎖️ Achievement granted: %s → %s", achievementCode, creatorID)

	event := events.AchievementEvent{
		CreatorID:       creatorID,
		AchievementCode: achievementCode,
		Timestamp:       time.Now(),
	}
	if err := s.Events.Publish(context.Background(), events.RouteAchievementGrant, event); err != nil {
		log.Printf("⚠️ Failed to publish achievement event for %s: %v", creatorID, err)
	}
	return grant, nil
}

// Achievements lists a creator's unlocked achievements with catalog details.
func (s *ProfileService) Achievements(creatorID string) ([]map[string]interface{}, error) {
	var grants []models.CreatorAchievement
	if err := s.DB.Where("creator_id = ?", creatorID).
		Order("awarded_at DESC").
		Find(&grants).Error; err != nil {
		return nil, err
	}

	result := make([]map[string]interface{}, 0, len(grants))
	for _, g := range grants {
		var achType models.AchievementType
		if err := s.DB.First(&achType, "id = ?", g.AchievementTypeID).Error; err != nil {
			continue
		}
		result = append(result, map[string]interface{}{
			"id":          g.ID,
			"code":        achType.Code,
			"name":        achType.Name,
			"description": achType.Description,
			"rarity":      achType.Rarity,
			"awarded_at":  g.AwardedAt,
			"metadata":    g.Metadata,
		})
	}
	return result, nil
}

// ProgressSnapshot is the /creator/progress response payload.
type ProgressSnapshot struct {
	CreatorID                string                   `json:"creator_id"`
	Tier                     *models.Tier             `json:"tier"`
	Points                   int64                    `json:"points"`
	ProgressToNextPct        float64                  `json:"progress_to_next_pct"`
	TotalCollaborations      int64                    `json:"total_collaborations"`
	SuccessfulCollaborations int64                    `json:"successful_collaborations"`
	ActiveCollaborations     int64                    `json:"active_collaborations"`
	RegisteredAt             time.Time                `json:"registered_at"`
	Achievements             []map[string]interface{} `json:"achievements"`
}

// Progress assembles the creator's loyalty snapshot for display.
func (s *ProfileService) Progress(creator *models.Creator) (*ProgressSnapshot, error) {
	tier := models.TierByID(creator.TierID)
	if tier == nil {
		tier = models.LowestTier()
	}

	var active int64
	if err := s.DB.Model(&models.Collaboration{}).
		Where("creator_id = ? AND status <> ?", creator.ID, models.CollabStatusCompleted).
		Count(&active).Error; err != nil {
		return nil, err
	}

	achievements, err := s.Achievements(creator.ID)
	if err != nil {
		return nil, err
	}

	return &ProgressSnapshot{
		CreatorID:                creator.ID,
		Tier:                     tier,
		Points:                   creator.Points,
		ProgressToNextPct:        ProgressToNext(tier, creator.Points),
		TotalCollaborations:      creator.TotalCollaborations,
		SuccessfulCollaborations: creator.SuccessfulCollaborations,
		ActiveCollaborations:     active,
		RegisteredAt:             creator.RegisteredAt,
		Achievements:             achievements,
	}, nil
}
