package bridge

import (
	"context"
	"errors"
	"fmt"

	"nivix-bridge-go/internal/ledger"
	"nivix-bridge-go/internal/models"

	"go.uber.org/zap"
)

// SyncTransaction ensures a TransferRecord exists for a settled Solana
// signature, whether or not this coordinator initiated the transfer. It is
// the system's sole reconciliation mechanism.
//
// The confirmed transaction is the only source of truth here: participants,
// amount and block time come from the chain, never from the caller. Because
// the transfer id derivation is deterministic and the Fabric write is a no-op
// on duplicates, syncing the same signature any number of times, concurrently
// with the synchronous path included, converges on exactly one record.
func (c *Coordinator) SyncTransaction(ctx context.Context, signature string) (*models.SyncResult, error) {
	if signature == "" {
		return nil, fmt.Errorf("%w: signature is required", ErrInvalidIntent)
	}

	confirmed, err := c.value.GetConfirmedTransfer(ctx, signature)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, fmt.Errorf("sync %s: %w", signature, err)
		}
		return nil, fmt.Errorf("sync %s: fetch confirmed transaction: %w", signature, err)
	}

	record := models.TransferRecord{
		TransferId:  DeriveTransferId(signature),
		Signature:   signature,
		FromAddress: confirmed.FromAddress,
		ToAddress:   confirmed.ToAddress,
		Amount:      confirmed.Amount,
		Currency:    nativeCurrency,
		SettledAt:   confirmed.SettledAt,
	}

	if err := c.identity.RecordTransfer(ctx, record); err != nil {
		return nil, fmt.Errorf("sync %s: record transfer: %w", signature, err)
	}

	zap.L().Info("Transaction synced to Fabric",
		zap.String("signature", signature),
		zap.String("transfer_id", record.TransferId),
		zap.String("amount", record.Amount.String()))

	return &models.SyncResult{Record: record, SyncedToLedger: true}, nil
}
