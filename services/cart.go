package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"creator-loyalty-system/models"

	"github.com/redis/go-redis/v9"
)

// DefaultProductLimit applies when the creator's tier is unknown.
const DefaultProductLimit = 4

// cartTTL keeps a selection alive for the working session only.
// Expired or checked-out carts vanish; nothing outlives the session.
const cartTTL = 24 * time.Hour

// Selection is the per-session cart aggregate: an insertion-ordered set of
// product ids. Pure in-memory state — persistence and tier lookups stay in
// CartService.
type Selection struct {
	ProductIDs []string `json:"product_ids"`
}

func (sel *Selection) contains(productID string) bool {
	for _, id := range sel.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// Add appends a product id, enforcing the size cap and rejecting repeats.
func (sel *Selection) Add(productID string, max int) error {
	if len(sel.ProductIDs) >= max {
		return ErrLimitReached
	}
	if sel.contains(productID) {
		return ErrDuplicate
	}
	sel.ProductIDs = append(sel.ProductIDs, productID)
	return nil
}

// Remove drops a product id if present; removing an absent id is a no-op.
func (sel *Selection) Remove(productID string) {
	for i, id := range sel.ProductIDs {
		if id == productID {
			sel.ProductIDs = append(sel.ProductIDs[:i], sel.ProductIDs[i+1:]...)
			return
		}
	}
}

// Clear empties the selection.
func (sel *Selection) Clear() {
	sel.ProductIDs = nil
}

// MaxAllowed returns the tier's product cap for a creator.
func MaxAllowed(creator *models.Creator) int {
	tier := models.TierByID(creator.TierID)
	if tier == nil {
		return DefaultProductLimit
	}
	return tier.ProductLimit.Max
}

// CartService stores per-creator selections in Redis under a session TTL.
type CartService struct {
	rdb *redis.Client
}

func NewCartService(rdb *redis.Client) *CartService {
	return &CartService{rdb: rdb}
}

// NewCartRedisClient connects to Redis and verifies the connection.
func NewCartRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func cartKey(creatorID string) string {
	return "cart:" + creatorID
}

// Get loads the creator's current selection; a missing key is an empty cart.
func (s *CartService) Get(ctx context.Context, creatorID string) (*Selection, error) {
	raw, err := s.rdb.Get(ctx, cartKey(creatorID)).Bytes()
	if err == redis.Nil {
		return &Selection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	var sel Selection
	if err := json.Unmarshal(raw, &sel); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &sel, nil
}

func (s *CartService) save(ctx context.Context, creatorID string, sel *Selection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.rdb.Set(ctx, cartKey(creatorID), raw, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// AddItem checks tier access for the product, then applies the aggregate rules.
func (s *CartService) AddItem(ctx context.Context, creator *models.Creator, product *models.Product) (*Selection, error) {
	sel, err := s.Get(ctx, creator.ID)
	if err != nil {
		return nil, err
	}
	if err := sel.Add(product.ID, MaxAllowed(creator)); err != nil {
		return nil, err
	}
	if err := s.save(ctx, creator.ID, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// RemoveItem drops a product from the selection.
func (s *CartService) RemoveItem(ctx context.Context, creatorID, productID string) (*Selection, error) {
	sel, err := s.Get(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	sel.Remove(productID)
	if err := s.save(ctx, creatorID, sel); err != nil {
		return nil, err
	}
	return sel, nil
}

// Clear wipes the creator's cart, e.g. after checkout.
func (s *CartService) Clear(ctx context.Context, creatorID string) error {
	if err := s.rdb.Del(ctx, cartKey(creatorID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
