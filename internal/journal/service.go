package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nivix-bridge-go/internal/models"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Service is the coordinator's durable pending-sync journal. A signature
// lands here when the Solana transfer may have settled but the Fabric record
// write did not complete; the sweeper replays entries through the sync
// workflow until each one converges on exactly one TransferRecord.
type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.JournalConfig) (*Service, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("journal path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening pending-sync journal", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open journal database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping journal database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize journal schema: %w", err)
	}

	zap.L().Info("Pending-sync journal initialized")
	return service, nil
}

// NewServiceWithDb wraps an existing database handle. Used by tests.
func NewServiceWithDb(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close journal database", zap.Error(err))
	}
}

func (s *Service) InitSchema() error {
	return s.initSchema()
}

func (s *Service) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pending_syncs (
		id TEXT PRIMARY KEY,
		signature TEXT NOT NULL UNIQUE,
		reason TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		attempts INTEGER NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_pending_syncs_signature ON pending_syncs(signature);
	CREATE INDEX IF NOT EXISTS idx_pending_syncs_status ON pending_syncs(status);
	CREATE INDEX IF NOT EXISTS idx_pending_syncs_created_at ON pending_syncs(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Enqueue records a signature for later reconciliation. Enqueueing a
// signature that is already journaled is a no-op; the journal is keyed by
// signature for the same reason transfer ids are derived from it.
func (s *Service) Enqueue(ctx context.Context, signature, reason string) error {
	if signature == "" {
		return fmt.Errorf("signature cannot be empty")
	}

	var existingId string
	err := s.db.QueryRowContext(ctx, queryCheckExistingSignature, signature).Scan(&existingId)
	if err == nil {
		zap.L().Debug("Signature already journaled, skipping",
			zap.String("signature", signature))
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check for existing journal entry: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, queryInsertPendingSync, uuid.New().String(), signature, reason); err != nil {
		return fmt.Errorf("failed to journal signature: %w", err)
	}

	zap.L().Info("Signature journaled for reconciliation",
		zap.String("signature", signature),
		zap.String("reason", reason))
	return nil
}

// ListPending returns up to limit pending entries, oldest first.
func (s *Service) ListPending(ctx context.Context, limit int) ([]models.PendingSync, error) {
	rows, err := s.db.QueryContext(ctx, queryListPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending syncs: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var pending []models.PendingSync
	for rows.Next() {
		var entry models.PendingSync
		if err := rows.Scan(&entry.Id, &entry.Signature, &entry.Reason, &entry.Status,
			&entry.Attempts, &entry.LastError, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending sync: %w", err)
		}
		pending = append(pending, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending syncs: %w", err)
	}

	return pending, nil
}

// MarkSynced flips a pending entry to synced once the record exists.
func (s *Service) MarkSynced(ctx context.Context, signature string) error {
	if _, err := s.db.ExecContext(ctx, queryMarkSynced, signature); err != nil {
		return fmt.Errorf("failed to mark signature synced: %w", err)
	}
	return nil
}

// MarkAttempt bumps the attempt counter and stores the last failure.
func (s *Service) MarkAttempt(ctx context.Context, signature, lastError string) error {
	if _, err := s.db.ExecContext(ctx, queryMarkAttempt, lastError, signature); err != nil {
		return fmt.Errorf("failed to record sync attempt: %w", err)
	}
	return nil
}

// CleanupSynced deletes synced entries older than the cutoff and returns how
// many were removed.
func (s *Service) CleanupSynced(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, queryCleanupSynced, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to clean up synced entries: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return removed, nil
}

// CountPending returns the number of entries awaiting reconciliation.
func (s *Service) CountPending(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, queryCountPending).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending syncs: %w", err)
	}
	return count, nil
}
