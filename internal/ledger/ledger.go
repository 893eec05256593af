package ledger

import (
	"context"
	"errors"
	"time"

	"nivix-bridge-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all adapter implementations.
var (
	// ErrNotFound means the requested ledger entity does not exist (yet).
	// Retryable by the caller once finality is reached.
	ErrNotFound = errors.New("ledger entity not found")

	// ErrUnavailable is a transient I/O fault talking to a ledger.
	ErrUnavailable = errors.New("ledger unavailable")

	// ErrAmbiguous means an irreversible operation was dispatched but its
	// outcome is unknown (e.g. a timeout during transfer submission). It must
	// be resolved by looking the transfer up on the public ledger, never by
	// re-submitting.
	ErrAmbiguous = errors.New("submission outcome unknown")
)

// SubmitTransferParams contains the parameters for a signed Solana transfer.
// SigningKey is request-scoped key material: it is never persisted and never
// logged.
type SubmitTransferParams struct {
	SigningKey string
	ToAddress  string
	Amount     decimal.Decimal
	Memo       string
}

// ConfirmedTransfer is a finalized transaction as reported by the public
// ledger. Its fields are authoritative; sync never trusts caller input over
// these.
type ConfirmedTransfer struct {
	Signature   string
	FromAddress string
	ToAddress   string
	Amount      decimal.Decimal
	Fee         decimal.Decimal
	Slot        uint64
	SettledAt   time.Time
}

// IdentityLedger is the permissioned (Fabric) side of the bridge: identity
// records plus the transaction-of-record log.
type IdentityLedger interface {
	GetIdentityRecord(ctx context.Context, address string) (*models.IdentityRecord, error)
	PutIdentityRecord(ctx context.Context, record models.IdentityRecord) error

	// RecordTransfer writes a TransferRecord. Writing a transferId that
	// already exists is a no-op, not an error.
	RecordTransfer(ctx context.Context, record models.TransferRecord) error
	GetTransferRecord(ctx context.Context, transferId string) (*models.TransferRecord, error)
}

// ValueLedger is the public (Solana) side of the bridge.
type ValueLedger interface {
	GetBalance(ctx context.Context, address string) (decimal.Decimal, error)
	GetConfirmedTransfer(ctx context.Context, signature string) (*ConfirmedTransfer, error)

	// SubmitTransfer signs and submits a transfer, returning its signature.
	// The signature is computed locally at signing time, so it may be
	// returned alongside ErrAmbiguous when the send outcome is unknown.
	SubmitTransfer(ctx context.Context, params SubmitTransferParams) (string, error)
	DeriveAddress(signingKey string) (string, error)
}
