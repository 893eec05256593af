package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// IdentityRecord is one subject's compliance record on the Fabric channel.
// At most one live record exists per Solana address; a new StoreKYCData write
// for the same subject key supersedes the previous record.
type IdentityRecord struct {
	SubjectId        string `json:"subjectId"`
	SolanaAddress    string `json:"solanaAddress"`
	FullName         string `json:"fullName"`
	KycVerified      bool   `json:"kycVerified"`
	VerificationDate string `json:"verificationDate"` // YYYY-MM-DD
	RiskScore        int    `json:"riskScore"`
	DocumentHash     string `json:"documentHash"`
}

// TransferRecord is the Fabric channel's durable record of a value movement
// that settled on Solana. TransferId is derived deterministically from the
// signature, so re-derivation during sync is idempotent.
type TransferRecord struct {
	TransferId  string          `json:"txId"`
	Signature   string          `json:"solanaSignature"`
	FromAddress string          `json:"fromAddress"`
	ToAddress   string          `json:"toAddress"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	SettledAt   time.Time       `json:"settledAt"`
}

// TransferResult is the response of the verified-transfer workflow.
type TransferResult struct {
	Signature         string          `json:"signature"`
	TransferId        string          `json:"txId"`
	FromAddress       string          `json:"fromAddress"`
	ToAddress         string          `json:"toAddress"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	SettledAt         time.Time       `json:"settledAt"`
	RecipientVerified bool            `json:"recipientVerified"`

	// SyncPending is set when the Solana transfer settled but the Fabric
	// record write failed. The signature has been journaled for retry; the
	// transfer itself must never be re-submitted.
	SyncPending bool   `json:"syncPending,omitempty"`
	Warning     string `json:"warning,omitempty"`
}

// SyncResult is the response of the transaction-synchronization workflow.
type SyncResult struct {
	Record         TransferRecord `json:"record"`
	SyncedToLedger bool           `json:"syncedToLedger"`
}

// IdentityStatus is the identity slice of a combined account view.
type IdentityStatus struct {
	Verified  bool `json:"verified"`
	RiskScore int  `json:"riskScore"`
}

// CombinedAccountView joins Solana account state with the Fabric identity
// record. Assembled on demand, never persisted.
type CombinedAccountView struct {
	Address      string                     `json:"address"`
	Identity     IdentityStatus             `json:"identity"`
	HomeCurrency string                     `json:"homeCurrency"`
	Balances     map[string]decimal.Decimal `json:"balances"`
}

// RegisterResult is the response of the registration workflow.
type RegisterResult struct {
	Address  string `json:"address"`
	Username string `json:"username"`
	Verified bool   `json:"verified"`
}

// PendingSync is a journaled signature awaiting reconciliation with the
// Fabric record.
type PendingSync struct {
	Id        string    `db:"id"`
	Signature string    `db:"signature"`
	Reason    string    `db:"reason"`
	Status    string    `db:"status"`
	Attempts  int       `db:"attempts"`
	LastError string    `db:"last_error"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Pending-sync reasons.
const (
	SyncReasonRecordWriteFailed   = "record-write-failed"
	SyncReasonAmbiguousSubmission = "ambiguous-submission"
	SyncReasonManual              = "manual"
)

// Pending-sync statuses.
const (
	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
)
