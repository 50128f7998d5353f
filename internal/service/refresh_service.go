package service

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/noah-isme/guardforce-admin/internal/store"
)

// RefreshTarget is a container whose last list can be re-issued.
type RefreshTarget interface {
	Name() string
	Refresh(ctx context.Context) error
}

type sessionState interface {
	Active() bool
}

type refreshObserver interface {
	ObserveRefresh(entity string, err error)
}

type exportCleaner interface {
	Cleanup() ([]string, error)
}

// RefreshConfig schedules the background jobs.
type RefreshConfig struct {
	Enabled  bool
	Schedule string
	// CleanupSchedule removes expired exports. Empty disables cleanup.
	CleanupSchedule string
	Timeout         time.Duration
}

// RefreshService re-lists live boards on a cron schedule while an operator is signed in,
// and sweeps expired exports.
type RefreshService struct {
	cron     *cron.Cron
	cfg      RefreshConfig
	session  sessionState
	targets  []RefreshTarget
	cleaner  exportCleaner
	observer refreshObserver
	logger   *zap.Logger
}

// NewRefreshService registers the jobs. An invalid schedule is returned as an error.
func NewRefreshService(cfg RefreshConfig, session sessionState, targets []RefreshTarget, cleaner exportCleaner, observer refreshObserver, logger *zap.Logger) (*RefreshService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	s := &RefreshService{
		cron:     cron.New(),
		cfg:      cfg,
		session:  session,
		targets:  targets,
		cleaner:  cleaner,
		observer: observer,
		logger:   logger,
	}
	if cfg.Enabled && len(targets) > 0 {
		if _, err := s.cron.AddFunc(cfg.Schedule, s.refreshJob); err != nil {
			return nil, err
		}
	}
	if cleaner != nil && cfg.CleanupSchedule != "" {
		if _, err := s.cron.AddFunc(cfg.CleanupSchedule, s.cleanupJob); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Start starts the scheduler.
func (s *RefreshService) Start() {
	s.logger.Info("starting scheduler", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *RefreshService) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// RefreshNow re-issues the last list of every target. It does nothing without an active session.
func (s *RefreshService) RefreshNow(ctx context.Context) int {
	if s.session == nil || !s.session.Active() {
		s.logger.Debug("skipping refresh without an active session")
		return 0
	}
	refreshed := 0
	for _, t := range s.targets {
		err := t.Refresh(ctx)
		if errors.Is(err, store.ErrStale) {
			// a newer list already landed
			err = nil
		}
		if s.observer != nil {
			s.observer.ObserveRefresh(t.Name(), err)
		}
		if err != nil {
			s.logger.Warn("refresh failed", zap.String("entity", t.Name()), zap.Error(err))
			continue
		}
		refreshed++
	}
	return refreshed
}

// CleanupNow removes expired exports.
func (s *RefreshService) CleanupNow() int {
	if s.cleaner == nil {
		return 0
	}
	removed, err := s.cleaner.Cleanup()
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
	}
	if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
	}
	return len(removed)
}

func (s *RefreshService) refreshJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()
	s.RefreshNow(ctx)
}

func (s *RefreshService) cleanupJob() {
	s.CleanupNow()
}
