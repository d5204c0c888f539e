package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type JobRepo interface {
	GetActiveReservationIDsPastEndTime(ctx context.Context, now time.Time) ([]int, error)
	UpdateReservationStatuses(ctx context.Context, ids []int, newStatus string) (int64, error)
	DeletePendingReservationsOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// SessionPruner drops idle visitor sessions. *toast.Registry implements it.
type SessionPruner interface {
	Prune(idle time.Duration) int
	Len() int
}

type JobService struct {
	repo     JobRepo
	sessions SessionPruner
	logger   *zap.Logger
	now      func() time.Time
	// onSessions is called with the live session count after a prune.
	onSessions func(int)
}

// NewJobService builds the periodic jobs. sessions may be nil when no
// toast registry runs in the process.
func NewJobService(repo JobRepo, sessions SessionPruner, logger *zap.Logger) *JobService {
	return &JobService{
		repo:     repo,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// OnSessions registers fn to receive the live session count after every
// prune.
func (s *JobService) OnSessions(fn func(int)) {
	s.onSessions = fn
}

// UpdateFinishedReservations marks active reservations whose end time has
// passed as finished.
func (s *JobService) UpdateFinishedReservations(ctx context.Context) (int64, error) {
	ids, err := s.repo.GetActiveReservationIDsPastEndTime(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to get active reservations past end time: %w", err)
	}
	if len(ids) == 0 {
		s.logger.Debug("Cron job: no active reservations past their end time")
		return 0, nil
	}

	n, err := s.repo.UpdateReservationStatuses(ctx, ids, statusFinished)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to update reservation statuses: %w", err)
	}
	s.logger.Info("Cron job: reservations marked as finished", zap.Int64("count", n), zap.Ints("ids", ids))
	return n, nil
}

// DeleteOldPendingReservations deletes unpaid reservations created before
// the given time.
func (s *JobService) DeleteOldPendingReservations(ctx context.Context, before time.Time) (int64, error) {
	n, err := s.repo.DeletePendingReservationsOlderThan(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to delete pending reservations: %w", err)
	}
	if n > 0 {
		s.logger.Info("Cron job: stale pending reservations deleted", zap.Int64("count", n), zap.Time("before", before))
	}
	return n, nil
}

// PruneToastSessions drops toast sessions idle for longer than idle.
func (s *JobService) PruneToastSessions(idle time.Duration) int {
	if s.sessions == nil {
		return 0
	}
	n := s.sessions.Prune(idle)
	if n > 0 {
		s.logger.Debug("Cron job: toast sessions pruned", zap.Int("count", n))
	}
	if s.onSessions != nil {
		s.onSessions(s.sessions.Len())
	}
	return n
}

// RunOnce runs every job a single time.
func (s *JobService) RunOnce(ctx context.Context, pendingTTL, toastIdle time.Duration) error {
	if _, err := s.UpdateFinishedReservations(ctx); err != nil {
		return err
	}
	if _, err := s.DeleteOldPendingReservations(ctx, s.now().UTC().Add(-pendingTTL)); err != nil {
		return err
	}
	s.PruneToastSessions(toastIdle)
	return nil
}

// Schedule registers the jobs on c. Reservation jobs run every 10
// minutes, session pruning every minute.
func (s *JobService) Schedule(c *cron.Cron, pendingTTL, toastIdle time.Duration) error {
	if _, err := c.AddFunc("@every 10m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.UpdateFinishedReservations(ctx); err != nil {
			s.logger.Error("Error running finished reservations job", zap.Error(err))
		}
		if _, err := s.DeleteOldPendingReservations(ctx, s.now().UTC().Add(-pendingTTL)); err != nil {
			s.logger.Error("Error running pending reservations cleanup job", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule reservation jobs: %w", err)
	}

	if _, err := c.AddFunc("@every 1m", func() {
		s.PruneToastSessions(toastIdle)
	}); err != nil {
		return fmt.Errorf("schedule toast session pruning: %w", err)
	}
	return nil
}
