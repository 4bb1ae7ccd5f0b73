// workers/social_metrics_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"creator-loyalty-system/models"

	"gorm.io/gorm"
)

// RemoteSocialStats mirrors one account's numbers from the social-stats service.
type RemoteSocialStats struct {
	Platform    string    `json:"platform"`
	Handle      string    `json:"handle"`
	Followers   int64     `json:"followers"`
	AvgLikes    int64     `json:"avg_likes"`
	AvgComments int64     `json:"avg_comments"`
	Verified    bool      `json:"verified"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SocialMetricsClient polls the social-stats service for refreshed follower
// and engagement numbers. Updated metrics are display data only — they never
// reassign a creator's tier (tier changes go through the explicit
// recalculation step).
type SocialMetricsClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewSocialMetricsClient(db *gorm.DB) *SocialMetricsClient {
	baseURL := os.Getenv("SOCIAL_STATS_URL")
	if baseURL == "" {
		log.Fatal("SOCIAL_STATS_URL environment variable is required")
	}
	token := os.Getenv("LOYALTY_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("LOYALTY_SERVICE_TOKEN environment variable is required for metrics sync")
	}

	return &SocialMetricsClient{
		BaseURL: baseURL,
		Token:   token,
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *SocialMetricsClient) GetChangedStats(ctx context.Context, since time.Time) ([]RemoteSocialStats, error) {
	u, err := url.Parse(fmt.Sprintf("%s/api/v1/public/social-stats", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("since", since.UTC().Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call social-stats service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("social-stats service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Accounts []RemoteSocialStats `json:"accounts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode social-stats response: %w", err)
	}
	return response.Accounts, nil
}

// PollSocialMetrics refreshes stored account metrics on a fixed interval.
func PollSocialMetrics(ctx context.Context, client *SocialMetricsClient, pollInterval time.Duration) {
	log.Println("Starting social metrics polling…")
	lastSyncTime := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Social metrics polling stopped.")
			return
		case <-ticker.C:
			logTime := time.Now().UTC()

			stats, err := client.GetChangedStats(ctx, lastSyncTime)
			if err != nil {
				log.Printf("❌ Error polling social stats: %v", err)
				continue
			}
			if len(stats) == 0 {
				continue
			}

			var updated int
			for _, s := range stats {
				account := models.SocialAccount{
					Platform:       s.Platform,
					Handle:         s.Handle,
					Followers:      s.Followers,
					AvgLikes:       s.AvgLikes,
					AvgComments:    s.AvgComments,
					EngagementRate: models.EngagementRateFor(s.Followers, s.AvgLikes, s.AvgComments),
					Verified:       s.Verified,
				}
				// Update metrics only on accounts we already track; stray
				// handles without a creator row are skipped by the WHERE.
				res := client.DB.Model(&models.SocialAccount{}).
					Where("platform = ? AND handle = ?", s.Platform, s.Handle).
					Select("followers", "avg_likes", "avg_comments", "engagement_rate", "verified").
					Updates(account)
				if res.Error != nil {
					log.Printf("⚠️ Failed to update metrics for %s/%s: %v", s.Platform, s.Handle, res.Error)
					continue
				}
				updated += int(res.RowsAffected)
			}

			// Advance the window only after a clean pass; failures retry the
			// same window next tick.
			lastSyncTime = logTime
			log.Printf("📊 Refreshed metrics for %d social account(s).", updated)
		}
	}
}
