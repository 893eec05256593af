package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nivix-bridge-go/internal/ledger"
	"nivix-bridge-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransferParams is a request-scoped transfer intent. SigningKey is consumed
// by this call only: it is never persisted, never journaled and never logged.
type TransferParams struct {
	FromAddress string
	SigningKey  string
	ToAddress   string
	Amount      decimal.Decimal
	Currency    string
	Memo        string
}

// VerifyAndTransfer runs the verified-transfer workflow: sender verification,
// best-effort recipient verification, Solana submission, Fabric record write.
//
// Partial-failure rule: once the Solana adapter reports a signature, the value
// movement may have happened regardless of what this process does next. A
// failed record write is therefore never recovered by re-submitting the
// transfer; the signature is journaled and the record write is retried
// through the sync workflow.
func (c *Coordinator) VerifyAndTransfer(ctx context.Context, params TransferParams) (*models.TransferResult, error) {
	if err := c.validateIntent(params); err != nil {
		return nil, err
	}

	// Step 1: sender must be verified before anything touches Solana.
	sender, err := c.identity.GetIdentityRecord(ctx, params.FromAddress)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, fmt.Errorf("%w: no identity record for %s", ErrNotVerified, params.FromAddress)
		}
		return nil, fmt.Errorf("sender verification check failed: %w", err)
	}
	if !sender.KycVerified {
		return nil, fmt.Errorf("%w: %s", ErrNotVerified, params.FromAddress)
	}

	// Step 2: recipient check is best-effort; recipients need not be
	// registered and a lookup fault only degrades to "verification unknown".
	recipientVerified := false
	if recipient, err := c.identity.GetIdentityRecord(ctx, params.ToAddress); err == nil {
		recipientVerified = recipient.KycVerified
	} else if !errors.Is(err, ledger.ErrNotFound) {
		zap.L().Warn("Recipient verification unknown",
			zap.String("to", params.ToAddress),
			zap.Error(err))
	}

	// Step 3: the point of no return.
	signature, err := c.value.SubmitTransfer(ctx, ledger.SubmitTransferParams{
		SigningKey: params.SigningKey,
		ToAddress:  params.ToAddress,
		Amount:     params.Amount,
		Memo:       params.Memo,
	})
	if err != nil {
		if errors.Is(err, ledger.ErrAmbiguous) && signature != "" {
			c.journalSignature(ctx, signature, models.SyncReasonAmbiguousSubmission)
			return nil, &AmbiguousSubmissionError{Signature: signature, Err: err}
		}
		return nil, fmt.Errorf("transfer submission failed: %w", err)
	}

	result := &models.TransferResult{
		Signature:         signature,
		TransferId:        DeriveTransferId(signature),
		FromAddress:       params.FromAddress,
		ToAddress:         params.ToAddress,
		Amount:            params.Amount,
		Currency:          params.Currency,
		SettledAt:         time.Now().UTC(),
		RecipientVerified: recipientVerified,
	}

	// Step 4: record on Fabric using the settled transaction's authoritative
	// fields, not the request's.
	confirmed, err := c.value.GetConfirmedTransfer(ctx, signature)
	if err != nil {
		zap.L().Warn("Settled transfer not yet readable, deferring record write",
			zap.String("signature", signature),
			zap.Error(err))
		c.journalSignature(ctx, signature, models.SyncReasonRecordWriteFailed)
		result.SyncPending = true
		result.Warning = "transfer settled; ledger record queued for reconciliation"
		return result, nil
	}

	result.Amount = confirmed.Amount
	result.SettledAt = confirmed.SettledAt

	record := models.TransferRecord{
		TransferId:  result.TransferId,
		Signature:   signature,
		FromAddress: confirmed.FromAddress,
		ToAddress:   confirmed.ToAddress,
		Amount:      confirmed.Amount,
		Currency:    params.Currency,
		SettledAt:   confirmed.SettledAt,
	}
	if err := c.identity.RecordTransfer(ctx, record); err != nil {
		zap.L().Error("Record write failed after settled transfer",
			zap.String("signature", signature),
			zap.String("transfer_id", record.TransferId),
			zap.Error(err))
		c.journalSignature(ctx, signature, models.SyncReasonRecordWriteFailed)
		result.SyncPending = true
		result.Warning = "transfer settled; ledger record queued for reconciliation"
		return result, nil
	}

	zap.L().Info("Verified transfer completed",
		zap.String("transfer_id", record.TransferId),
		zap.String("from", params.FromAddress),
		zap.String("to", params.ToAddress),
		zap.String("amount", record.Amount.String()),
		zap.Bool("recipient_verified", recipientVerified))

	return result, nil
}

func (c *Coordinator) validateIntent(params TransferParams) error {
	if params.FromAddress == "" || params.ToAddress == "" {
		return fmt.Errorf("%w: from and to addresses are required", ErrInvalidIntent)
	}
	if params.SigningKey == "" {
		return fmt.Errorf("%w: signing key material is required", ErrInvalidIntent)
	}
	if params.Amount.Sign() <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidIntent, params.Amount.String())
	}
	if decimals, ok := c.currencies[params.Currency]; ok {
		if params.Amount.Exponent() < -decimals {
			return fmt.Errorf("%w: amount %s exceeds %s precision of %d decimals",
				ErrInvalidIntent, params.Amount.String(), params.Currency, decimals)
		}
	}

	derived, err := c.value.DeriveAddress(params.SigningKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIntent, err)
	}
	if derived != params.FromAddress {
		return fmt.Errorf("%w: signing key does not control %s", ErrInvalidIntent, params.FromAddress)
	}
	return nil
}

// journalSignature enqueues a signature for reconciliation. Journal faults
// are logged, not returned: the caller already holds the signature in the
// response and can sync explicitly.
func (c *Coordinator) journalSignature(ctx context.Context, signature, reason string) {
	if c.journal == nil {
		zap.L().Warn("No sync journal configured, signature must be synced manually",
			zap.String("signature", signature),
			zap.String("reason", reason))
		return
	}
	if err := c.journal.Enqueue(ctx, signature, reason); err != nil {
		zap.L().Error("Failed to journal signature",
			zap.String("signature", signature),
			zap.String("reason", reason),
			zap.Error(err))
	}
}
