// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"creator-loyalty-system/events"
	"creator-loyalty-system/models"

	"github.com/go-co-op/gocron/v2"
)

// reminderWindow: collaborations waiting on content with a deadline inside
// this window (or already past) get a reminder event each run.
const reminderWindow = 48 * time.Hour

// StartDeadlineReminderScheduler publishes reminder events for collaborations
// approaching or past their content deadline. It never mutates status —
// overdue is a display condition, not a transition.
func (s *CollaborationService) StartDeadlineReminderScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			now := time.Now()
			cutoff := now.Add(reminderWindow)

			var collabs []models.Collaboration
			err := s.DB.Where("status = ? AND deadline <= ?", models.CollabStatusWaitingContent, cutoff).
				Find(&collabs).Error
			if err != nil {
				log.Printf("[Scheduler] DB error: %v", err)
				return
			}

			for _, c := range collabs {
				s.publish(context.Background(), events.RouteDeadlineReminder, &c)
				if c.IsOverdue(now) {
					log.Printf("⏰ Collaboration %s is overdue (deadline %s)", c.ID, c.Deadline.Format(time.RFC3339))
				}
			}
		}),
	)
}
