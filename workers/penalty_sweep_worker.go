// workers/penalty_sweep_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"dev-feedback-system/services"

	"gorm.io/gorm"
)

// PenaltySweepWorker periodically marks karma penalties on offer redemptions
// whose feedback deadline has passed. The sweep itself is a single conditional
// update, so running it from several places at once is harmless.
type PenaltySweepWorker struct {
	offers   *services.OfferService
	interval time.Duration
}

func NewPenaltySweepWorker(db *gorm.DB) *PenaltySweepWorker {
	return &PenaltySweepWorker{
		offers:   services.NewOfferService(db),
		interval: 1 * time.Hour,
	}
}

func (w *PenaltySweepWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Penalty Sweep Worker (overdue redemptions → karma penalties)…")
	go w.run(ctx)
}

func (w *PenaltySweepWorker) run(ctx context.Context) {
	// Initial sweep so a restart does not delay penalties by a full interval.
	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-ctx.Done():
			log.Println("⏹️ Penalty Sweep Worker stopped")
			return
		}
	}
}

func (w *PenaltySweepWorker) sweep() {
	applied, err := w.offers.SweepOverduePenalties()
	if err != nil {
		log.Printf("❌ Penalty sweep failed: %v", err)
		return
	}
	if applied > 0 {
		log.Printf("⚠️ Applied karma penalties to %d overdue redemption(s)", applied)
	}
}
