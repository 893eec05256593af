package journal

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"nivix-bridge-go/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	service := NewServiceWithDb(db)

	// Use the actual schema initialization
	if err := service.InitSchema(); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func TestEnqueue_AndListPending(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	if err := service.Enqueue(ctx, "sig-a", models.SyncReasonRecordWriteFailed); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := service.Enqueue(ctx, "sig-b", models.SyncReasonAmbiguousSubmission); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	pending, err := service.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("Expected 2 pending entries, got %d", len(pending))
	}
	if pending[0].Signature != "sig-a" {
		t.Errorf("Expected oldest entry first, got %s", pending[0].Signature)
	}
	if pending[0].Status != models.SyncStatusPending {
		t.Errorf("Expected status pending, got %s", pending[0].Status)
	}
	if pending[1].Reason != models.SyncReasonAmbiguousSubmission {
		t.Errorf("Expected ambiguous-submission reason, got %s", pending[1].Reason)
	}
}

func TestEnqueue_DuplicateSignatureIsNoOp(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	if err := service.Enqueue(ctx, "sig-dup", models.SyncReasonRecordWriteFailed); err != nil {
		t.Fatalf("First Enqueue failed: %v", err)
	}
	// Second enqueue of the same signature must not error or duplicate
	if err := service.Enqueue(ctx, "sig-dup", models.SyncReasonManual); err != nil {
		t.Fatalf("Duplicate Enqueue failed: %v", err)
	}

	count, err := service.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 pending entry, got %d", count)
	}
}

func TestEnqueue_EmptySignatureRejected(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	if err := service.Enqueue(context.Background(), "", models.SyncReasonManual); err == nil {
		t.Fatal("Expected error for empty signature, got nil")
	}
}

func TestMarkSynced_RemovesFromPending(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	if err := service.Enqueue(ctx, "sig-a", models.SyncReasonRecordWriteFailed); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := service.MarkSynced(ctx, "sig-a"); err != nil {
		t.Fatalf("MarkSynced failed: %v", err)
	}

	pending, err := service.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no pending entries after MarkSynced, got %d", len(pending))
	}

	// Re-enqueueing a synced signature stays a no-op (keyed by signature)
	if err := service.Enqueue(ctx, "sig-a", models.SyncReasonManual); err != nil {
		t.Fatalf("Re-enqueue failed: %v", err)
	}
	count, err := service.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 pending entries, got %d", count)
	}
}

func TestMarkAttempt_BumpsCounterAndKeepsPending(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	if err := service.Enqueue(ctx, "sig-a", models.SyncReasonRecordWriteFailed); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := service.MarkAttempt(ctx, "sig-a", "transaction not yet visible"); err != nil {
		t.Fatalf("MarkAttempt failed: %v", err)
	}
	if err := service.MarkAttempt(ctx, "sig-a", "ledger unavailable"); err != nil {
		t.Fatalf("MarkAttempt failed: %v", err)
	}

	pending, err := service.ListPending(ctx, 10)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("Expected 1 pending entry, got %d", len(pending))
	}
	if pending[0].Attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", pending[0].Attempts)
	}
	if pending[0].LastError != "ledger unavailable" {
		t.Errorf("Expected last error to be kept, got %q", pending[0].LastError)
	}
}

func TestCleanupSynced(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	if err := service.Enqueue(ctx, "sig-old", models.SyncReasonRecordWriteFailed); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := service.Enqueue(ctx, "sig-pending", models.SyncReasonRecordWriteFailed); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if err := service.MarkSynced(ctx, "sig-old"); err != nil {
		t.Fatalf("MarkSynced failed: %v", err)
	}

	// Cutoff in the future removes every synced entry, pending ones survive
	removed, err := service.CleanupSynced(ctx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("CleanupSynced failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removed entry, got %d", removed)
	}

	count, err := service.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected pending entry to survive cleanup, got %d", count)
	}
}

func TestListPending_RespectsLimit(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()

	for _, sig := range []string{"sig-1", "sig-2", "sig-3"} {
		if err := service.Enqueue(ctx, sig, models.SyncReasonManual); err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
	}

	pending, err := service.ListPending(ctx, 2)
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("Expected 2 entries with limit 2, got %d", len(pending))
	}
}
