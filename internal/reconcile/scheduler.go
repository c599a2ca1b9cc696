package reconcile

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	rec *Reconciler
}

func NewScheduler(rec *Reconciler) *Scheduler {
	return &Scheduler{rec: rec}
}

// Start runs the reconciliation pass nightly (12:00 AM). Blocks until the
// cron runner is started; jobs then fire on their own goroutine.
func (s *Scheduler) Start() *cron.Cron {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()

		if _, err := s.rec.Run(ctx); err != nil {
			log.Printf("reconcile: nightly pass failed: %v", err)
		}
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return c
	}

	log.Println("Reconcile scheduler started (running nightly at 12:00AM)")
	c.Start()
	return c
}
