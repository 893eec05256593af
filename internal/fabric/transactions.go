package fabric

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nivix-bridge-go/internal/ledger"
	"nivix-bridge-go/internal/models"

	"go.uber.org/zap"
)

// RecordTransfer submits RecordTransaction. The transferId is derived
// deterministically from the Solana signature, and the chaincode rejects a
// duplicate id, so a repeated write for the same signature is treated as a
// no-op here. That property is what makes the sync workflow idempotent.
func (s *Service) RecordTransfer(ctx context.Context, record models.TransferRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if record.TransferId == "" || record.Signature == "" {
		return fmt.Errorf("transfer record requires transferId and signature")
	}

	_, err := s.contract.SubmitTransaction(
		"RecordTransaction",
		record.TransferId,
		record.Signature,
		record.FromAddress,
		record.ToAddress,
		record.Amount.String(),
		record.Currency,
		record.SettledAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			zap.L().Info("Transfer record already exists, skipping",
				zap.String("transfer_id", record.TransferId))
			return nil
		}
		return fmt.Errorf("unable to record transaction: %w", err)
	}

	zap.L().Info("Transfer recorded on Fabric",
		zap.String("transfer_id", record.TransferId),
		zap.String("from", record.FromAddress),
		zap.String("to", record.ToAddress),
		zap.String("amount", record.Amount.String()),
		zap.String("currency", record.Currency))

	return nil
}

// GetTransferRecord evaluates GetTransactionSummary for a transfer id.
func (s *Service) GetTransferRecord(ctx context.Context, transferId string) (*models.TransferRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if transferId == "" {
		return nil, fmt.Errorf("transferId cannot be empty")
	}

	result, err := s.contract.EvaluateTransaction("GetTransactionSummary", transferId)
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			return nil, fmt.Errorf("%w: transfer record %s", ledger.ErrNotFound, transferId)
		}
		return nil, fmt.Errorf("unable to get transaction summary: %w", err)
	}

	var record models.TransferRecord
	if err := json.Unmarshal(result, &record); err != nil {
		return nil, fmt.Errorf("unable to parse transfer record: %w", err)
	}

	return &record, nil
}
