package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"creator-loyalty-system/events"
	"creator-loyalty-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pointsForRating is the single reward formula: ratings 1..5 yield 150..350.
func pointsForRating(rating int) int64 {
	return int64(rating)*50 + 100
}

// deadlineFor fixes the content deadline at creation time from the tier in
// effect at that moment. Later tier changes never touch existing deadlines.
func deadlineFor(tier *models.Tier, now time.Time, override *time.Time) time.Time {
	if override != nil {
		return *override
	}
	return now.AddDate(0, 0, tier.DeadlineDays)
}

// The apply* helpers below are the whole state machine. They mutate the record
// in memory and return ErrInvalidTransition when the from-state does not
// permit the trigger. Timestamp fields are set exactly once.

func applyShipped(c *models.Collaboration, now time.Time) error {
	if c.Status.Normalize() != models.CollabStatusPending {
		return ErrInvalidTransition
	}
	c.Status = models.CollabStatusShipped
	c.ShippedAt = &now
	return nil
}

func applyDelivery(c *models.Collaboration, now time.Time) error {
	if c.Status.Normalize() != models.CollabStatusShipped {
		return ErrInvalidTransition
	}
	c.Status = models.CollabStatusWaitingContent
	c.DeliveredAt = &now
	return nil
}

func applyContent(c *models.Collaboration, url string, now time.Time) error {
	switch c.Status.Normalize() {
	case models.CollabStatusPending, models.CollabStatusShipped, models.CollabStatusWaitingContent:
	default:
		return ErrInvalidTransition
	}
	c.Status = models.CollabStatusWaitingContent
	c.ContentURL = &url
	c.ContentSubmittedAt = &now
	return nil
}

func applyCompletion(c *models.Collaboration, rating int, now time.Time) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	if c.Status.Normalize() != models.CollabStatusWaitingContent {
		return ErrInvalidTransition
	}
	points := pointsForRating(rating)
	c.Status = models.CollabStatusCompleted
	c.Rating = &rating
	c.PointsEarned = &points
	c.CompletedAt = &now
	return nil
}

type CollaborationService struct {
	DB          *gorm.DB
	Eligibility *EligibilityService
	Cart        *CartService
	Events      events.Publisher
}

func NewCollaborationService(db *gorm.DB, cart *CartService, publisher events.Publisher) *CollaborationService {
	return &CollaborationService{
		DB:          db,
		Eligibility: NewEligibilityService(db),
		Cart:        cart,
		Events:      publisher,
	}
}

// CreateFromCart turns the creator's current selection into a pending
// collaboration: eligibility gate, tier bounds on the selection, product
// access checks, snapshot of product ids, fixed deadline. The cart is cleared
// on success.
func (s *CollaborationService) CreateFromCart(ctx context.Context, creator *models.Creator, address models.DeliveryAddress, deadlineOverride *time.Time) (*models.Collaboration, error) {
	decision, err := s.Eligibility.CanStartNewCollaboration(creator)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		if decision.CooldownDaysLeft > 0 {
			return nil, &CooldownActiveError{DaysLeft: decision.CooldownDaysLeft}
		}
		return nil, ErrLimitReached
	}

	sel, err := s.Cart.Get(ctx, creator.ID)
	if err != nil {
		return nil, err
	}

	tier := models.TierByID(creator.TierID)
	if tier == nil {
		tier = models.LowestTier()
	}
	if len(sel.ProductIDs) < tier.ProductLimit.Min {
		return nil, fmt.Errorf("selection needs at least %d products", tier.ProductLimit.Min)
	}
	if len(sel.ProductIDs) > tier.ProductLimit.Max {
		return nil, ErrLimitReached
	}

	// Re-verify access against the live catalog before snapshotting.
	for _, productID := range sel.ProductIDs {
		var p models.Product
		if err := s.DB.First(&p, "id = ?", productID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if !CanAccess(tier.Rank, p.MinTierRank) {
			return nil, fmt.Errorf("product %s requires a higher tier", p.ID)
		}
	}

	now := time.Now()
	collab := &models.Collaboration{
		CreatorID:  creator.ID,
		ProductIDs: append([]string(nil), sel.ProductIDs...),
		Status:     models.CollabStatusPending,
		Address:    address,
		Deadline:   deadlineFor(tier, now, deadlineOverride),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(collab).Error; err != nil {
			return err
		}
		return tx.Model(&models.Creator{}).
			Where("id = ?", creator.ID).
			UpdateColumn("total_collaborations", gorm.Expr("total_collaborations + 1")).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create collaboration: %w", err)
	}

	if err := s.Cart.Clear(ctx, creator.ID); err != nil {
		log.Printf("⚠️ Failed to clear cart for %s after checkout: %v", creator.ID, err)
	}

	s.publish(ctx, events.RouteCollabCreated, collab)
	return collab, nil
}

// transition re-reads the row under a FOR UPDATE lock, applies the state
// change, and saves — so two concurrent transitions on one collaboration
// serialize instead of clobbering each other.
func (s *CollaborationService) transition(id string, apply func(*models.Collaboration) error) (*models.Collaboration, error) {
	var updated models.Collaboration
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var c models.Collaboration
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if err := apply(&c); err != nil {
			return err
		}
		if err := tx.Save(&c).Error; err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// MarkShipped: pending → shipped (admin/warehouse trigger).
func (s *CollaborationService) MarkShipped(ctx context.Context, id string) (*models.Collaboration, error) {
	collab, err := s.transition(id, func(c *models.Collaboration) error {
		return applyShipped(c, time.Now())
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.RouteCollabShipped, collab)
	return collab, nil
}

// ConfirmDelivery: shipped → waiting_content. Only the owning creator confirms.
func (s *CollaborationService) ConfirmDelivery(ctx context.Context, id, creatorID string) (*models.Collaboration, error) {
	collab, err := s.transition(id, func(c *models.Collaboration) error {
		if c.CreatorID != creatorID {
			return ErrNotFound
		}
		return applyDelivery(c, time.Now())
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.RouteCollabDelivered, collab)
	return collab, nil
}

// SubmitContent records the published content link (and optional proof media
// URL) and moves the collaboration to waiting_content.
func (s *CollaborationService) SubmitContent(ctx context.Context, id, creatorID, url string, proofURL *string) (*models.Collaboration, error) {
	collab, err := s.transition(id, func(c *models.Collaboration) error {
		if c.CreatorID != creatorID {
			return ErrNotFound
		}
		if err := applyContent(c, url, time.Now()); err != nil {
			return err
		}
		if proofURL != nil {
			c.ContentProofURL = proofURL
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.RouteContentSubmitted, collab)
	return collab, nil
}

// CompleteAndRate: waiting_content → completed. Awards points to the creator
// in the same transaction; completed is terminal.
func (s *CollaborationService) CompleteAndRate(ctx context.Context, id string, rating int) (*models.Collaboration, error) {
	var updated models.Collaboration
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var c models.Collaboration
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&c, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		if err := applyCompletion(&c, rating, time.Now()); err != nil {
			return err
		}
		if err := tx.Save(&c).Error; err != nil {
			return err
		}
		err := tx.Model(&models.Creator{}).
			Where("id = ?", c.CreatorID).
			UpdateColumns(map[string]interface{}{
				"points":                    gorm.Expr("points + ?", *c.PointsEarned),
				"successful_collaborations": gorm.Expr("successful_collaborations + 1"),
			}).Error
		if err != nil {
			return fmt.Errorf("failed to award points: %w", err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎉 Collaboration %s completed: rating=%d, points=%d", updated.ID, rating, *updated.PointsEarned)
	s.publish(ctx, events.RouteCollabCompleted, &updated)
	return &updated, nil
}

// ByID fetches one collaboration scoped to its owner.
func (s *CollaborationService) ByID(id, creatorID string) (*models.Collaboration, error) {
	var c models.Collaboration
	err := s.DB.First(&c, "id = ? AND creator_id = ?", id, creatorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListForCreator returns the creator's collaborations, newest first.
func (s *CollaborationService) ListForCreator(creatorID string) ([]models.Collaboration, error) {
	var collabs []models.Collaboration
	err := s.DB.Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&collabs).Error
	return collabs, err
}

func (s *CollaborationService) publish(ctx context.Context, routingKey string, c *models.Collaboration) {
	event := events.CollabEvent{
		CollaborationID: c.ID,
		CreatorID:       c.CreatorID,
		Status:          string(c.Status),
		Deadline:        &c.Deadline,
		PointsEarned:    c.PointsEarned,
		Timestamp:       time.Now(),
	}
	if err := s.Events.Publish(ctx, routingKey, event); err != nil {
		log.Printf("⚠️ Failed to publish %s for %s: %v", routingKey, c.ID, err)
	}
}
