package sweeper

import (
	"context"
	"errors"
	"time"

	"nivix-bridge-go/internal/ledger"
	"nivix-bridge-go/internal/models"

	"go.uber.org/zap"
)

// Syncer replays one journaled signature through the reconciliation workflow.
type Syncer interface {
	SyncTransaction(ctx context.Context, signature string) (*models.SyncResult, error)
}

// Journal is the slice of the pending-sync journal the sweeper drives.
type Journal interface {
	ListPending(ctx context.Context, limit int) ([]models.PendingSync, error)
	MarkSynced(ctx context.Context, signature string) error
	MarkAttempt(ctx context.Context, signature, lastError string) error
	CleanupSynced(ctx context.Context, olderThan time.Time) (int64, error)
	CountPending(ctx context.Context) (int, error)
}

// Config contains configuration for the Sweeper.
type Config struct {
	Journal         Journal
	Syncer          Syncer
	PollingInterval time.Duration
	CleanupInterval time.Duration
	Retention       time.Duration
	BatchSize       int
}

// Sweeper drains the pending-sync journal in the background. Every entry is a
// signature whose Solana transfer may have settled without a matching Fabric
// record; the sweeper retries the sync workflow until the record exists, then
// retires the entry. Entries are never given up on, a transaction that is not
// yet visible at the configured commitment simply stays pending.
type Sweeper struct {
	journal Journal
	syncer  Syncer

	pollingInterval time.Duration
	cleanupInterval time.Duration
	retention       time.Duration
	batchSize       int

	// Control channels
	stopChan chan struct{}
	doneChan chan struct{}
}

func NewSweeper(cfg Config) *Sweeper {
	return &Sweeper{
		journal:         cfg.Journal,
		syncer:          cfg.Syncer,
		pollingInterval: cfg.PollingInterval,
		cleanupInterval: cfg.CleanupInterval,
		retention:       cfg.Retention,
		batchSize:       cfg.BatchSize,
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}
}

// Start begins the background reconciliation loops.
func (s *Sweeper) Start(ctx context.Context) error {
	pending, err := s.journal.CountPending(ctx)
	if err != nil {
		return err
	}

	go s.pollLoop(ctx)
	go s.cleanupLoop(ctx)

	zap.L().Info("Reconciliation sweeper started",
		zap.Int("backlog", pending),
		zap.Duration("polling_interval", s.pollingInterval),
		zap.Duration("cleanup_interval", s.cleanupInterval))
	return nil
}

// Stop gracefully stops the sweeper.
func (s *Sweeper) Stop() {
	zap.L().Info("Stopping reconciliation sweeper")
	close(s.stopChan)
	<-s.doneChan
	zap.L().Info("Reconciliation sweeper stopped")
}

func (s *Sweeper) pollLoop(ctx context.Context) {
	defer close(s.doneChan)

	ticker := time.NewTicker(s.pollingInterval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// sweep replays one batch of pending signatures.
func (s *Sweeper) sweep(ctx context.Context) {
	pending, err := s.journal.ListPending(ctx, s.batchSize)
	if err != nil {
		zap.L().Error("Failed to list pending syncs", zap.Error(err))
		return
	}
	if len(pending) == 0 {
		return
	}

	zap.L().Debug("Sweeping pending syncs", zap.Int("count", len(pending)))

	synced := 0
	for _, entry := range pending {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		if err := s.syncOne(ctx, entry); err == nil {
			synced++
		}
	}

	if synced > 0 {
		zap.L().Info("Reconciled journaled transfers",
			zap.Int("synced", synced),
			zap.Int("batch", len(pending)))
	}
}

func (s *Sweeper) syncOne(ctx context.Context, entry models.PendingSync) error {
	result, err := s.syncer.SyncTransaction(ctx, entry.Signature)
	if err != nil {
		// Not found usually means the transaction has not reached the
		// configured commitment yet; keep the entry and try again later.
		if errors.Is(err, ledger.ErrNotFound) {
			zap.L().Debug("Journaled transaction not yet visible",
				zap.String("signature", entry.Signature),
				zap.Int("attempts", entry.Attempts))
		} else {
			zap.L().Warn("Failed to reconcile journaled transaction",
				zap.String("signature", entry.Signature),
				zap.String("reason", entry.Reason),
				zap.Error(err))
		}
		if markErr := s.journal.MarkAttempt(ctx, entry.Signature, err.Error()); markErr != nil {
			zap.L().Error("Failed to record sync attempt",
				zap.String("signature", entry.Signature),
				zap.Error(markErr))
		}
		return err
	}

	if err := s.journal.MarkSynced(ctx, entry.Signature); err != nil {
		zap.L().Error("Failed to mark signature synced",
			zap.String("signature", entry.Signature),
			zap.Error(err))
		return err
	}

	zap.L().Info("Journaled transfer reconciled",
		zap.String("signature", entry.Signature),
		zap.String("transfer_id", result.Record.TransferId),
		zap.String("reason", entry.Reason))
	return nil
}

func (s *Sweeper) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupSynced(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sweeper) cleanupSynced(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.retention)

	removed, err := s.journal.CleanupSynced(ctx, cutoff)
	if err != nil {
		zap.L().Error("Failed to clean up synced journal entries", zap.Error(err))
		return
	}
	if removed > 0 {
		zap.L().Debug("Cleaned up synced journal entries",
			zap.Int64("removed", removed),
			zap.Time("cutoff", cutoff))
	}
}
