package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nivix-bridge-go/internal/ledger"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// memoProgramId is the SPL memo program.
var memoProgramId = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")

// statusPollInterval is how often the submitted signature is polled for
// settlement.
const statusPollInterval = 500 * time.Millisecond

// DeriveAddress derives the public address from base58 signing key material.
// The key never leaves this call.
func (s *Service) DeriveAddress(signingKey string) (string, error) {
	privateKey, err := solana.PrivateKeyFromBase58(signingKey)
	if err != nil {
		return "", fmt.Errorf("invalid signing key material: %w", err)
	}
	return privateKey.PublicKey().String(), nil
}

// SubmitTransfer signs a system transfer locally, submits it, and waits until
// the configured commitment level is reached.
//
// The signature is computed at signing time, before anything reaches the
// network. When the send or the settlement wait fails in a way that cannot
// prove the network rejected the transaction, the signature is returned
// together with ErrAmbiguous so the caller can resolve the outcome through
// the sync workflow. Re-submitting on ambiguity risks a double transfer and
// is never done here.
func (s *Service) SubmitTransfer(ctx context.Context, params ledger.SubmitTransferParams) (string, error) {
	privateKey, err := solana.PrivateKeyFromBase58(params.SigningKey)
	if err != nil {
		return "", fmt.Errorf("invalid signing key material: %w", err)
	}
	from := privateKey.PublicKey()

	to, err := solana.PublicKeyFromBase58(params.ToAddress)
	if err != nil {
		return "", fmt.Errorf("invalid destination address %q: %w", params.ToAddress, err)
	}

	lamports, err := toLamports(params.Amount)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	recent, err := s.client.GetLatestBlockhash(callCtx, s.commitment)
	if err != nil {
		return "", fmt.Errorf("%w: unable to get recent blockhash: %v", ledger.ErrUnavailable, err)
	}

	instructions := []solana.Instruction{
		system.NewTransferInstruction(lamports, from, to).Build(),
	}
	if params.Memo != "" {
		instructions = append(instructions, solana.NewInstruction(
			memoProgramId,
			solana.AccountMetaSlice{solana.NewAccountMeta(from, false, true)},
			[]byte(params.Memo),
		))
	}

	tx, err := solana.NewTransaction(instructions, recent.Value.Blockhash, solana.TransactionPayer(from))
	if err != nil {
		return "", fmt.Errorf("unable to build transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(from) {
			return &privateKey
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("unable to sign transaction: %w", err)
	}

	// Known from here on, whatever the network does next.
	signature := tx.Signatures[0].String()

	zap.L().Info("Submitting transfer",
		zap.String("from", from.String()),
		zap.String("to", params.ToAddress),
		zap.String("amount", params.Amount.String()),
		zap.String("signature", signature))

	if _, err := s.client.SendTransaction(callCtx, tx); err != nil {
		var rpcErr *jsonrpc.RPCError
		if errors.As(err, &rpcErr) {
			// The node accepted the request and rejected the transaction:
			// provably not on chain, safe to retry from scratch.
			return "", fmt.Errorf("transfer rejected by network: %w", err)
		}
		// Transport fault after dispatch: the transaction may still land.
		return signature, fmt.Errorf("%w: send failed without rejection: %v", ledger.ErrAmbiguous, err)
	}

	if err := s.waitForSettlement(callCtx, tx.Signatures[0]); err != nil {
		return signature, err
	}

	zap.L().Info("Transfer settled",
		zap.String("signature", signature),
		zap.String("commitment", string(s.commitment)))

	return signature, nil
}

// waitForSettlement polls the signature status until the configured
// commitment level is reached or the context expires.
func (s *Service) waitForSettlement(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: settlement wait expired for %s: %v", ledger.ErrAmbiguous, sig.String(), ctx.Err())
		case <-ticker.C:
		}

		statuses, err := s.client.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			zap.L().Debug("Signature status poll failed, retrying",
				zap.String("signature", sig.String()),
				zap.Error(err))
			continue
		}
		if len(statuses.Value) == 0 || statuses.Value[0] == nil {
			continue
		}

		status := statuses.Value[0]
		if status.Err != nil {
			return fmt.Errorf("transfer %s failed on chain: %v", sig.String(), status.Err)
		}
		switch status.ConfirmationStatus {
		case rpc.ConfirmationStatusFinalized:
			return nil
		case rpc.ConfirmationStatusConfirmed:
			if s.commitment == rpc.CommitmentConfirmed {
				return nil
			}
		}
	}
}

// toLamports converts a decimal SOL amount to lamports exactly. Sub-lamport
// precision and non-positive amounts are rejected before anything is signed.
func toLamports(amount decimal.Decimal) (uint64, error) {
	if amount.Sign() <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %s", amount.String())
	}
	shifted := amount.Shift(solDecimals)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-lamport precision", amount.String())
	}
	return uint64(shifted.IntPart()), nil
}
