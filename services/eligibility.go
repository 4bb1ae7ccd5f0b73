package services

import (
	"fmt"
	"time"

	"creator-loyalty-system/models"

	"gorm.io/gorm"
)

// StartDecision is the outcome of the new-collaboration gate.
type StartDecision struct {
	Allowed          bool   `json:"allowed"`
	Reason           string `json:"reason,omitempty"`
	CooldownDaysLeft int    `json:"cooldown_days_left,omitempty"`
}

// CanSelectProduct gates product selection on tier rank.
func CanSelectProduct(creator *models.Creator, product *models.Product) bool {
	tier := models.TierByID(creator.TierID)
	if tier == nil {
		tier = models.LowestTier()
	}
	return CanAccess(tier.Rank, product.MinTierRank)
}

// decideStart applies the two gates for starting a new collaboration:
// the tier's active-collaboration cap, then the cooldown window.
//
// Cooldown is measured in whole days from the most recent *completed*
// collaboration's *creation* timestamp. That matches the live system's
// behavior; see DESIGN.md before changing the reference point.
func decideStart(tier *models.Tier, activeCount int, lastCompleted *models.Collaboration, now time.Time) StartDecision {
	if activeCount >= tier.MaxActiveCollabs {
		return StartDecision{Allowed: false, Reason: "active limit reached"}
	}
	if lastCompleted != nil {
		daysSince := int(now.Sub(lastCompleted.CreatedAt).Hours() / 24)
		if left := tier.CooldownDays - daysSince; left > 0 {
			return StartDecision{
				Allowed:          false,
				Reason:           fmt.Sprintf("cooldown remaining: %d days", left),
				CooldownDaysLeft: left,
			}
		}
	}
	return StartDecision{Allowed: true}
}

type EligibilityService struct {
	DB *gorm.DB
}

func NewEligibilityService(db *gorm.DB) *EligibilityService {
	return &EligibilityService{DB: db}
}

// CanStartNewCollaboration loads the creator's active set and last completed
// collaboration and runs the gate against the current clock.
func (s *EligibilityService) CanStartNewCollaboration(creator *models.Creator) (StartDecision, error) {
	tier := models.TierByID(creator.TierID)
	if tier == nil {
		tier = models.LowestTier()
	}

	var activeCount int64
	if err := s.DB.Model(&models.Collaboration{}).
		Where("creator_id = ? AND status <> ?", creator.ID, models.CollabStatusCompleted).
		Count(&activeCount).Error; err != nil {
		return StartDecision{}, fmt.Errorf("failed to count active collaborations: %w", err)
	}

	var lastCompleted *models.Collaboration
	var last models.Collaboration
	err := s.DB.Where("creator_id = ? AND status = ?", creator.ID, models.CollabStatusCompleted).
		Order("created_at DESC").
		First(&last).Error
	if err == nil {
		lastCompleted = &last
	} else if err != gorm.ErrRecordNotFound {
		return StartDecision{}, fmt.Errorf("failed to fetch last completed collaboration: %w", err)
	}

	return decideStart(tier, int(activeCount), lastCompleted, time.Now()), nil
}
