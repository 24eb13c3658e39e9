package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const cleanupTimeout = 2 * time.Minute

// CleanupService periodically deletes expired cache rows.
type CleanupService struct {
	Store ResultStore

	cron *cron.Cron
	schedule string
	log  logrus.FieldLogger
}

func NewCleanupService(store ResultStore, schedule string, log logrus.FieldLogger) *CleanupService {
	return &CleanupService{
		Store: store,
		cron:  cron.New(),
		schedule:  schedule,
		log:   log.WithField("component", "cleanup"),
	}
}

// Start registers the job on the configured schedule and starts the scheduler.
func (s *CleanupService) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("schedule cleanup %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.log.WithField("schedule", s.schedule).Info("cache cleanup scheduled")
	return nil
}

// Stop waits for a running job to finish.
func (s *CleanupService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("cache cleanup stopped")
}

// RunOnce deletes expired rows and returns how many were removed.
func (s *CleanupService) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, cleanupTimeout)
	defer cancel()

	n, err := s.Store.CleanExpired(ctx)
	if err != nil {
		s.log.WithError(err).Error("cache cleanup failed")
		return 0
	}
	s.log.WithField("deleted", n).Info("cache cleanup finished")
	return n
}
