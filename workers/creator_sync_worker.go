// workers/creator_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"creator-loyalty-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MirroredCreatorFromProfile matches the JSON response from the profile sync service.
type MirroredCreatorFromProfile struct {
	ExternalID string    `json:"external_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GetCreatorChangesResponse is the top-level structure of the sync service response.
type GetCreatorChangesResponse struct {
	Creators []MirroredCreatorFromProfile `json:"creators"`
}

// CreatorSyncWorker mirrors identity fields from the profile service onto
// local creator rows. It only touches name fields — tier, points, and
// counters are owned by this service and never overwritten.
type CreatorSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client
}

func NewCreatorSyncWorker(db *gorm.DB, syncServiceBaseURL, endpointPath, serviceToken string) *CreatorSyncWorker {
	return &CreatorSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      syncServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *CreatorSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Creator Sync Worker (profile-service → creators)…")
	go w.run(ctx)
}

func (w *CreatorSyncWorker) run(ctx context.Context) {
	// Initial backfill from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial creator sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.syncBatch(ctx, w.getLastSyncTime()); err != nil {
				log.Printf("❌ Creator sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Creator Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt from the local creators table.
func (w *CreatorSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM creators WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

// syncBatch fetches creator identity changes and upserts name fields only.
func (w *CreatorSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base sync service URL '%s': %w", w.baseURL, err)
	}

	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to sync service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sync service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response GetCreatorChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode sync service response: %w", err)
	}

	if len(response.Creators) == 0 {
		return nil
	}

	var upsertCount, errorCount int
	for _, remote := range response.Creators {
		local := models.Creator{
			ExternalUserID: remote.ExternalID,
			FirstName:      remote.FirstName,
			LastName:       remote.LastName,
		}
		if err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			// Identity fields only — never tier_id, points, or counters.
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "updated_at"}),
		}).Create(&local).Error; err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert creator (external_id=%q): %v", remote.ExternalID, err)
		} else {
			upsertCount++
		}
	}

	log.Printf("[SYNC] ✅ Synced %d creator(s) (%d upserted, %d errors) since %s",
		len(response.Creators), upsertCount, errorCount, sinceStr)
	return nil
}
