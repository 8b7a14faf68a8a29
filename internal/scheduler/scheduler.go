// Package scheduler runs the background refresh jobs: quotes, FX,
// correlation, the alert sweep, weekly cleanup and the daily quota
// reset.
package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/financeapi-br/backend/internal/service"
)

// Scheduler owns the cron instance and the services its jobs drive.
type Scheduler struct {
	cron   *cron.Cron
	quotes *service.QuoteService
	fx     *service.FXService
	corr   *service.CorrelationService
	alerts *service.AlertService
	users  *service.UserService
}

// New creates a Scheduler; Start registers and launches the jobs.
func New(
	quotes *service.QuoteService,
	fx *service.FXService,
	corr *service.CorrelationService,
	alerts *service.AlertService,
	users *service.UserService,
) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		quotes: quotes,
		fx:     fx,
		corr:   corr,
		alerts: alerts,
		users:  users,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		name string
		run  func()
	}{
		{"@every 5m", "quote refresh", s.refreshQuotes},
		{"@every 30m", "fx refresh", s.refreshFX},
		{"@hourly", "correlation refresh", s.refreshCorrelation},
		{"@every 1m", "alert sweep", s.sweepAlerts},
		{"@weekly", "quote cleanup", s.cleanupQuotes},
		{"0 0 * * *", "quota reset", s.resetQuotas},
	}

	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.spec, job.run); err != nil {
			return err
		}
		log.Printf("scheduler: registered %s (%s)", job.name, job.spec)
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// refreshQuotes fans out one fetch per supported ticker. A failing
// ticker does not stop the others; the first error is logged.
func (s *Scheduler) refreshQuotes() {
	var g errgroup.Group
	g.SetLimit(4)

	for _, ticker := range s.quotes.SupportedTickers() {
		ticker := ticker
		g.Go(func() error {
			if _, err := s.quotes.Refresh(ticker); err != nil {
				log.Printf("scheduler: quote refresh failed for %s: %v", ticker, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Scheduler) refreshFX() {
	if _, err := s.fx.Refresh(); err != nil {
		log.Printf("scheduler: fx refresh failed: %v", err)
	}
}

func (s *Scheduler) refreshCorrelation() {
	if _, err := s.corr.Refresh(); err != nil {
		log.Printf("scheduler: correlation refresh failed: %v", err)
	}
}

func (s *Scheduler) sweepAlerts() {
	if err := s.alerts.Sweep(); err != nil {
		log.Printf("scheduler: alert sweep failed: %v", err)
	}
}

// cleanupQuotes drops quotes older than 90 days.
func (s *Scheduler) cleanupQuotes() {
	cutoff := time.Now().UTC().AddDate(0, 0, -90)
	deleted, err := s.quotes.CleanupBefore(cutoff)
	if err != nil {
		log.Printf("scheduler: quote cleanup failed: %v", err)
		return
	}
	log.Printf("scheduler: quote cleanup removed %d rows", deleted)
}

func (s *Scheduler) resetQuotas() {
	if err := s.users.ResetDailyCounters(); err != nil {
		log.Printf("scheduler: quota reset failed: %v", err)
	}
}
