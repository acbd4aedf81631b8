// services/scheduler.go
package services

import (
	"log"
	"time"

	"dev-feedback-system/models"

	"github.com/go-co-op/gocron/v2"
)

func (s *OfferService) StartOfferScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: deactivate offers past their valid_until
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()
			res := s.DB.Model(&models.Offer{}).
				Where("is_active = ? AND valid_until IS NOT NULL AND valid_until < ?", true, now).
				Update("is_active", false)
			if res.Error != nil {
				log.Printf("[Scheduler] DB error: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("✅ Auto-expired %d offer(s)", res.RowsAffected)
			}
		}),
	)
}
