package bridge

import (
	"errors"
	"fmt"
)

// Sentinel errors for the coordinator workflows.
var (
	// ErrNotVerified is a precondition failure: the sender has no identity
	// record or is not KYC verified. No ledger mutation has happened.
	ErrNotVerified = errors.New("sender is not KYC verified")

	// ErrInvalidIntent means the transfer intent itself is malformed
	// (bad amount precision, key/address mismatch, missing fields).
	ErrInvalidIntent = errors.New("invalid transfer intent")

	// ErrInconsistent means the two ledgers disagree in a way the
	// coordinator cannot resolve automatically. Flagged for manual
	// reconciliation; neither side is silently preferred.
	ErrInconsistent = errors.New("ledgers disagree, manual reconciliation required")
)

// AmbiguousSubmissionError reports a transfer whose submission outcome is
// unknown. The signature was computed at signing time and has been journaled;
// the only safe resolution is the sync workflow, never resubmission.
type AmbiguousSubmissionError struct {
	Signature string
	Err       error
}

func (e *AmbiguousSubmissionError) Error() string {
	return fmt.Sprintf("transfer submission ambiguous, resolve via sync of signature %s: %v", e.Signature, e.Err)
}

func (e *AmbiguousSubmissionError) Unwrap() error {
	return e.Err
}
