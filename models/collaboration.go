package models

import (
	"time"

	"gorm.io/gorm"
)

// CollabStatus is the collaboration state machine variant.
// Logic must branch on these values, never on display labels.
type CollabStatus string

const (
	CollabStatusPending        CollabStatus = "pending"
	CollabStatusShipped        CollabStatus = "shipped"
	CollabStatusWaitingContent CollabStatus = "waiting_content"
	CollabStatusCompleted      CollabStatus = "completed"

	// CollabStatusDelivered is an accepted alias on input paths; it is
	// normalized to waiting_content on write. DeliveredAt records the event.
	CollabStatusDelivered CollabStatus = "delivered"
)

// Normalize folds the delivered alias into its canonical stored status.
func (s CollabStatus) Normalize() CollabStatus {
	if s == CollabStatusDelivered {
		return CollabStatusWaitingContent
	}
	return s
}

// CollabStatusLabels maps status variants to human display labels.
var CollabStatusLabels = map[CollabStatus]string{
	CollabStatusPending:        "Preparing shipment",
	CollabStatusShipped:        "On the way",
	CollabStatusWaitingContent: "Waiting for content",
	CollabStatusCompleted:      "Completed",
	CollabStatusDelivered:      "Waiting for content",
}

// DeliveryAddress is captured at checkout and stored on the collaboration.
type DeliveryAddress struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Street        string `json:"street"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	CourierNote   string `json:"courier_note,omitempty"`
}

// Collaboration is one product shipment → content creation → rating cycle.
// Product ids are a snapshot taken at creation; the deadline is fixed from the
// tier's deadline days in effect at that moment. Timestamp fields are set
// exactly once and never cleared. Completed is terminal.
type Collaboration struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CreatorID string `gorm:"index;not null" json:"creator_id"`

	ProductIDs []string `gorm:"type:jsonb;serializer:json" json:"product_ids"`

	Status CollabStatus `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`

	Address DeliveryAddress `gorm:"embedded;embeddedPrefix:address_" json:"address"`

	Deadline time.Time `gorm:"not null" json:"deadline"`

	ShippedAt          *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
	ContentSubmittedAt *time.Time `json:"content_submitted_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`

	ContentURL      *string `json:"content_url,omitempty"`
	ContentProofURL *string `gorm:"type:text" json:"content_proof_url,omitempty"`

	Rating       *int   `json:"rating,omitempty"`        // 1..5, set only at completion
	PointsEarned *int64 `json:"points_earned,omitempty"` // rating*50 + 100

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsActive reports whether the collaboration still counts against the
// creator's active-collaboration cap.
func (c *Collaboration) IsActive() bool {
	return c.Status.Normalize() != CollabStatusCompleted
}

// IsOverdue is a read-side condition for display; nothing auto-expires.
func (c *Collaboration) IsOverdue(now time.Time) bool {
	return c.IsActive() && now.After(c.Deadline)
}
