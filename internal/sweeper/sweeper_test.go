package sweeper

import (
	"context"
	"testing"
	"time"

	"nivix-bridge-go/internal/ledger"
	"nivix-bridge-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockJournal is a mock implementation of Journal for testing
type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) ListPending(ctx context.Context, limit int) ([]models.PendingSync, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PendingSync), args.Error(1)
}

func (m *MockJournal) MarkSynced(ctx context.Context, signature string) error {
	args := m.Called(ctx, signature)
	return args.Error(0)
}

func (m *MockJournal) MarkAttempt(ctx context.Context, signature, lastError string) error {
	args := m.Called(ctx, signature, lastError)
	return args.Error(0)
}

func (m *MockJournal) CleanupSynced(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJournal) CountPending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockSyncer is a mock implementation of Syncer for testing
type MockSyncer struct {
	mock.Mock
}

func (m *MockSyncer) SyncTransaction(ctx context.Context, signature string) (*models.SyncResult, error) {
	args := m.Called(ctx, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SyncResult), args.Error(1)
}

func newTestSweeper(journal Journal, syncer Syncer) *Sweeper {
	return NewSweeper(Config{
		Journal:         journal,
		Syncer:          syncer,
		PollingInterval: time.Minute,
		CleanupInterval: time.Hour,
		Retention:       24 * time.Hour,
		BatchSize:       10,
	})
}

func pendingEntry(signature string, attempts int) models.PendingSync {
	return models.PendingSync{
		Id:        "entry-" + signature,
		Signature: signature,
		Reason:    models.SyncReasonRecordWriteFailed,
		Status:    models.SyncStatusPending,
		Attempts:  attempts,
	}
}

func TestSweep_MarksSyncedOnSuccess(t *testing.T) {
	ctx := context.Background()
	journal := new(MockJournal)
	syncer := new(MockSyncer)

	journal.On("ListPending", ctx, 10).Return([]models.PendingSync{
		pendingEntry("sig-a", 0),
		pendingEntry("sig-b", 1),
	}, nil)
	syncer.On("SyncTransaction", ctx, "sig-a").Return(&models.SyncResult{
		Record:         models.TransferRecord{TransferId: "sol_sig-a"},
		SyncedToLedger: true,
	}, nil)
	syncer.On("SyncTransaction", ctx, "sig-b").Return(&models.SyncResult{
		Record:         models.TransferRecord{TransferId: "sol_sig-b"},
		SyncedToLedger: true,
	}, nil)
	journal.On("MarkSynced", ctx, "sig-a").Return(nil)
	journal.On("MarkSynced", ctx, "sig-b").Return(nil)

	sweeper := newTestSweeper(journal, syncer)
	sweeper.sweep(ctx)

	journal.AssertExpectations(t)
	syncer.AssertExpectations(t)
	journal.AssertNotCalled(t, "MarkAttempt", mock.Anything, mock.Anything, mock.Anything)
}

func TestSweep_NotYetVisibleStaysPending(t *testing.T) {
	ctx := context.Background()
	journal := new(MockJournal)
	syncer := new(MockSyncer)

	journal.On("ListPending", ctx, 10).Return([]models.PendingSync{pendingEntry("sig-a", 3)}, nil)
	syncer.On("SyncTransaction", ctx, "sig-a").Return(nil, ledger.ErrNotFound)
	journal.On("MarkAttempt", ctx, "sig-a", mock.AnythingOfType("string")).Return(nil)

	sweeper := newTestSweeper(journal, syncer)
	sweeper.sweep(ctx)

	journal.AssertExpectations(t)
	journal.AssertNotCalled(t, "MarkSynced", mock.Anything, mock.Anything)
}

func TestSweep_FaultRecordsAttemptAndContinues(t *testing.T) {
	ctx := context.Background()
	journal := new(MockJournal)
	syncer := new(MockSyncer)

	journal.On("ListPending", ctx, 10).Return([]models.PendingSync{
		pendingEntry("sig-a", 0),
		pendingEntry("sig-b", 0),
	}, nil)
	syncer.On("SyncTransaction", ctx, "sig-a").Return(nil, ledger.ErrUnavailable)
	journal.On("MarkAttempt", ctx, "sig-a", mock.AnythingOfType("string")).Return(nil)
	// A failure on one entry never blocks the rest of the batch
	syncer.On("SyncTransaction", ctx, "sig-b").Return(&models.SyncResult{
		Record:         models.TransferRecord{TransferId: "sol_sig-b"},
		SyncedToLedger: true,
	}, nil)
	journal.On("MarkSynced", ctx, "sig-b").Return(nil)

	sweeper := newTestSweeper(journal, syncer)
	sweeper.sweep(ctx)

	journal.AssertExpectations(t)
	syncer.AssertExpectations(t)
}

func TestSweep_EmptyBatchDoesNothing(t *testing.T) {
	ctx := context.Background()
	journal := new(MockJournal)
	syncer := new(MockSyncer)

	journal.On("ListPending", ctx, 10).Return([]models.PendingSync{}, nil)

	sweeper := newTestSweeper(journal, syncer)
	sweeper.sweep(ctx)

	syncer.AssertNotCalled(t, "SyncTransaction", mock.Anything, mock.Anything)
}

func TestCleanupSynced_UsesRetentionCutoff(t *testing.T) {
	ctx := context.Background()
	journal := new(MockJournal)
	syncer := new(MockSyncer)

	journal.On("CleanupSynced", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		return time.Since(cutoff) > 23*time.Hour
	})).Return(int64(2), nil)

	sweeper := newTestSweeper(journal, syncer)
	sweeper.cleanupSynced(ctx)

	journal.AssertExpectations(t)
}

func TestStartStop(t *testing.T) {
	ctx := context.Background()
	journal := new(MockJournal)
	syncer := new(MockSyncer)

	journal.On("CountPending", ctx).Return(0, nil)
	journal.On("ListPending", mock.Anything, 10).Return([]models.PendingSync{}, nil)

	sweeper := newTestSweeper(journal, syncer)
	err := sweeper.Start(ctx)
	assert.NoError(t, err)
	sweeper.Stop()
}
