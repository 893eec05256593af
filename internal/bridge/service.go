package bridge

import (
	"context"

	"nivix-bridge-go/internal/ledger"
)

// nativeCurrency is the chain-native symbol used when a record is
// reconstructed from Solana alone.
const nativeCurrency = "SOL"

// SyncJournal is the durable queue for signatures whose Fabric record is
// still outstanding. A nil journal is tolerated (entries are only logged),
// which keeps the coordinator testable without a database.
type SyncJournal interface {
	Enqueue(ctx context.Context, signature, reason string) error
}

// Coordinator sequences the cross-ledger workflows. It holds no mutable
// state between requests; all consistency guarantees come from the ledgers
// themselves plus deterministic id derivation and idempotent record writes.
type Coordinator struct {
	identity   ledger.IdentityLedger
	value      ledger.ValueLedger
	journal    SyncJournal
	currencies map[string]int32
}

func NewCoordinator(identity ledger.IdentityLedger, value ledger.ValueLedger, journal SyncJournal, currencies map[string]int32) *Coordinator {
	return &Coordinator{
		identity:   identity,
		value:      value,
		journal:    journal,
		currencies: currencies,
	}
}

// DeriveTransferId maps a Solana signature to the Fabric transfer id. The
// derivation is deterministic and reproducible from the signature alone, so
// the synchronous and reconciliation paths always converge on the same id.
func DeriveTransferId(signature string) string {
	if len(signature) < 8 {
		return "sol_" + signature
	}
	return "sol_" + signature[:8]
}

// DeriveSubjectId maps a Solana address to the Fabric subject key. Keying
// identity records by this makes registration idempotent: re-registering an
// address supersedes the record instead of duplicating it.
func DeriveSubjectId(address string) string {
	if len(address) < 8 {
		return "user_" + address
	}
	return "user_" + address[:8]
}
