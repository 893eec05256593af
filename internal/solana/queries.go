package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nivix-bridge-go/internal/ledger"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SOL amounts carry 9 decimal places (lamports) on chain.
const solDecimals = 9

func lamportsToSol(lamports uint64) decimal.Decimal {
	return decimal.New(int64(lamports), -solDecimals)
}

// GetBalance returns the SOL balance of an address at the configured
// commitment level.
func (s *Service) GetBalance(ctx context.Context, address string) (decimal.Decimal, error) {
	pubKey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid address %q: %w", address, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	result, err := s.client.GetBalance(callCtx, pubKey, s.commitment)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: unable to get balance: %v", ledger.ErrUnavailable, err)
	}

	return lamportsToSol(result.Value), nil
}

// GetConfirmedTransfer fetches a settled transaction by signature and extracts
// its authoritative fields: participants, amount (recipient balance delta) and
// block time. A transaction that does not exist at the configured commitment
// level is reported as ErrNotFound, which is retryable once settlement is
// reached.
func (s *Service) GetConfirmedTransfer(ctx context.Context, signature string) (*ledger.ConfirmedTransfer, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, fmt.Errorf("invalid signature %q: %w", signature, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	maxVersion := uint64(0)
	out, err := s.client.GetTransaction(callCtx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     s.commitment,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", ledger.ErrNotFound, signature)
		}
		return nil, fmt.Errorf("%w: unable to get transaction: %v", ledger.ErrUnavailable, err)
	}
	if out == nil || out.Meta == nil {
		return nil, fmt.Errorf("%w: transaction %s", ledger.ErrNotFound, signature)
	}
	if out.Meta.Err != nil {
		return nil, fmt.Errorf("transaction %s failed on chain: %v", signature, out.Meta.Err)
	}

	tx, err := out.Transaction.GetTransaction()
	if err != nil {
		return nil, fmt.Errorf("unable to decode transaction %s: %w", signature, err)
	}

	keys := tx.Message.AccountKeys
	if len(keys) < 2 {
		return nil, fmt.Errorf("transaction %s has no transfer participants", signature)
	}

	amount, err := recipientDelta(out.Meta.PreBalances, out.Meta.PostBalances)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", signature, err)
	}

	var settledAt time.Time
	if out.BlockTime != nil {
		settledAt = out.BlockTime.Time().UTC()
	} else {
		// Old transactions beyond the node's block-time horizon. The record
		// still needs a settlement timestamp, so fall back and say so.
		settledAt = time.Now().UTC()
		zap.L().Warn("Block time unavailable, using current time",
			zap.String("signature", signature))
	}

	return &ledger.ConfirmedTransfer{
		Signature:   signature,
		FromAddress: keys[0].String(),
		ToAddress:   keys[1].String(),
		Amount:      amount,
		Fee:         lamportsToSol(out.Meta.Fee),
		Slot:        out.Slot,
		SettledAt:   settledAt,
	}, nil
}

// recipientDelta derives the transferred amount from the recipient account's
// balance change. The fee never touches the recipient account, so the delta is
// exactly the moved value.
func recipientDelta(pre, post []uint64) (decimal.Decimal, error) {
	if len(pre) < 2 || len(post) < 2 {
		return decimal.Zero, fmt.Errorf("balance meta missing recipient entry")
	}
	if post[1] < pre[1] {
		return decimal.Zero, fmt.Errorf("recipient balance decreased, not a transfer")
	}
	return lamportsToSol(post[1] - pre[1]), nil
}
