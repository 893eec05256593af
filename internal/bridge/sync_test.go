package bridge

import (
	"context"
	"testing"

	"nivix-bridge-go/internal/ledger"
	"nivix-bridge-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSyncTransaction_Success(t *testing.T) {
	ctx := context.Background()
	identity := new(MockIdentityLedger)
	value := new(MockValueLedger)

	confirmed := confirmedFor(testSignature)
	value.On("GetConfirmedTransfer", ctx, testSignature).Return(confirmed, nil)
	identity.On("RecordTransfer", ctx, mock.MatchedBy(func(record models.TransferRecord) bool {
		return record.TransferId == "sol_"+testSignature[:8] &&
			record.Signature == testSignature &&
			record.FromAddress == confirmed.FromAddress &&
			record.ToAddress == confirmed.ToAddress &&
			record.Amount.Equal(confirmed.Amount) &&
			record.Currency == "SOL" &&
			record.SettledAt.Equal(confirmed.SettledAt)
	})).Return(nil)

	coordinator := NewCoordinator(identity, value, nil, testCurrencies())
	result, err := coordinator.SyncTransaction(ctx, testSignature)

	assert.NoError(t, err)
	assert.True(t, result.SyncedToLedger)
	assert.Equal(t, "sol_"+testSignature[:8], result.Record.TransferId)
	identity.AssertExpectations(t)
	value.AssertExpectations(t)
}

func TestSyncTransaction_Idempotent(t *testing.T) {
	ctx := context.Background()
	identity := new(MockIdentityLedger)
	value := new(MockValueLedger)

	value.On("GetConfirmedTransfer", ctx, testSignature).Return(confirmedFor(testSignature), nil)
	// Duplicate writes are absorbed by the identity ledger; both calls succeed.
	identity.On("RecordTransfer", ctx, mock.AnythingOfType("models.TransferRecord")).Return(nil)

	coordinator := NewCoordinator(identity, value, nil, testCurrencies())
	first, err := coordinator.SyncTransaction(ctx, testSignature)
	assert.NoError(t, err)
	second, err := coordinator.SyncTransaction(ctx, testSignature)
	assert.NoError(t, err)

	assert.Equal(t, first.Record.TransferId, second.Record.TransferId)
	assert.True(t, first.Record.Amount.Equal(second.Record.Amount))
	assert.Equal(t, first.Record.SettledAt, second.Record.SettledAt)
}

func TestSyncTransaction_EmptySignature(t *testing.T) {
	coordinator := NewCoordinator(new(MockIdentityLedger), new(MockValueLedger), nil, testCurrencies())

	result, err := coordinator.SyncTransaction(context.Background(), "")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidIntent)
}

func TestSyncTransaction_NotFoundOnChain(t *testing.T) {
	ctx := context.Background()
	identity := new(MockIdentityLedger)
	value := new(MockValueLedger)

	value.On("GetConfirmedTransfer", ctx, testSignature).Return(nil, ledger.ErrNotFound)

	coordinator := NewCoordinator(identity, value, nil, testCurrencies())
	result, err := coordinator.SyncTransaction(ctx, testSignature)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	identity.AssertNotCalled(t, "RecordTransfer", mock.Anything, mock.Anything)
}

func TestSyncTransaction_RecordWriteFailure(t *testing.T) {
	ctx := context.Background()
	identity := new(MockIdentityLedger)
	value := new(MockValueLedger)

	value.On("GetConfirmedTransfer", ctx, testSignature).Return(confirmedFor(testSignature), nil)
	identity.On("RecordTransfer", ctx, mock.AnythingOfType("models.TransferRecord")).Return(ledger.ErrUnavailable)

	coordinator := NewCoordinator(identity, value, nil, testCurrencies())
	result, err := coordinator.SyncTransaction(ctx, testSignature)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ledger.ErrUnavailable)
}

func TestDeriveTransferId(t *testing.T) {
	assert.Equal(t, "sol_"+testSignature[:8], DeriveTransferId(testSignature))
	assert.Equal(t, DeriveTransferId(testSignature), DeriveTransferId(testSignature))
	assert.Equal(t, "sol_abc", DeriveTransferId("abc"))
}

func TestDeriveSubjectId(t *testing.T) {
	assert.Equal(t, "user_"+testSender[:8], DeriveSubjectId(testSender))
	assert.Equal(t, "user_xyz", DeriveSubjectId("xyz"))
}
