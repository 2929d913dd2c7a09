package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"lastwill-backend/config"
	"lastwill-backend/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ExpiryService sweeps stale PENDING appointment requests into CANCELLED.
// The cutoff is a policy parameter (Engine.PendingExpiry); the sweep itself
// is a single conditional UPDATE, so it is safe to run it while confirms are
// racing: a request either gets confirmed or expired, never both.
//
// Call Stop() during graceful shutdown.
type ExpiryService struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	pendingExpiry   time.Duration
	sweepInterval   time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func NewExpiryService(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	cfg config.EngineConfig,
) *ExpiryService {
	return &ExpiryService{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		pendingExpiry:   cfg.PendingExpiry,
		sweepInterval:   cfg.PendingSweepInterval,
		stopChan:        make(chan struct{}),
	}
}

// Start launches the background sweep loop
func (s *ExpiryService) Start() {
	s.wg.Add(1)
	go s.sweepLoop()
	s.log.Infof("Expiry sweeper started: expiry=%s, interval=%s", s.pendingExpiry, s.sweepInterval)
}

// Stop gracefully shuts down the service. Safe to call multiple times.
func (s *ExpiryService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("Expiry sweeper stopped")
	}
}

func (s *ExpiryService) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(context.Background())
		case <-s.stopChan:
			return
		}
	}
}

// SweepOnce expires every pending request older than the policy cutoff
func (s *ExpiryService) SweepOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-s.pendingExpiry)

	expired, err := s.appointmentRepo.ExpireStalePending(ctx, s.db, cutoff)
	if err != nil {
		s.log.Errorf("Failed to expire stale pending appointments: %+v", err)
		return
	}
	if expired > 0 {
		s.log.Infof("Expired %d stale pending appointments (cutoff=%s)", expired, cutoff.Format(time.RFC3339))
	}
}
