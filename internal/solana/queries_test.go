package solana

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestLamportsToSol(t *testing.T) {
	cases := []struct {
		lamports uint64
		expected string
	}{
		{0, "0"},
		{1, "0.000000001"},
		{5000, "0.000005"},
		{1000000000, "1"},
		{1500000000, "1.5"},
	}

	for _, tc := range cases {
		got := lamportsToSol(tc.lamports)
		if !got.Equal(decimal.RequireFromString(tc.expected)) {
			t.Errorf("lamportsToSol(%d) = %s, want %s", tc.lamports, got.String(), tc.expected)
		}
	}
}

func TestToLamports(t *testing.T) {
	got, err := toLamports(decimal.RequireFromString("1.5"))
	if err != nil {
		t.Fatalf("toLamports failed: %v", err)
	}
	if got != 1500000000 {
		t.Errorf("Expected 1500000000 lamports, got %d", got)
	}
}

func TestToLamports_SubLamportPrecisionRejected(t *testing.T) {
	if _, err := toLamports(decimal.RequireFromString("0.0000000001")); err == nil {
		t.Fatal("Expected error for sub-lamport precision, got nil")
	}
}

func TestToLamports_NonPositiveRejected(t *testing.T) {
	if _, err := toLamports(decimal.Zero); err == nil {
		t.Fatal("Expected error for zero amount, got nil")
	}
	if _, err := toLamports(decimal.RequireFromString("-1")); err == nil {
		t.Fatal("Expected error for negative amount, got nil")
	}
}

func TestRecipientDelta(t *testing.T) {
	// Sender pays 1.5 SOL plus a 5000-lamport fee; recipient gains exactly 1.5
	amount, err := recipientDelta(
		[]uint64{3000000000, 1000000000},
		[]uint64{1499995000, 2500000000},
	)
	if err != nil {
		t.Fatalf("recipientDelta failed: %v", err)
	}
	if !amount.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("Expected 1.5, got %s", amount.String())
	}
}

func TestRecipientDelta_MissingMeta(t *testing.T) {
	if _, err := recipientDelta([]uint64{1}, []uint64{1}); err == nil {
		t.Fatal("Expected error for missing recipient entry, got nil")
	}
}

func TestRecipientDelta_DecreasedBalanceRejected(t *testing.T) {
	if _, err := recipientDelta([]uint64{5, 10}, []uint64{5, 4}); err == nil {
		t.Fatal("Expected error for decreased recipient balance, got nil")
	}
}

func TestParseCommitment(t *testing.T) {
	if _, err := parseCommitment("confirmed"); err != nil {
		t.Errorf("confirmed should parse: %v", err)
	}
	if _, err := parseCommitment("finalized"); err != nil {
		t.Errorf("finalized should parse: %v", err)
	}
	if _, err := parseCommitment(""); err != nil {
		t.Errorf("empty should default: %v", err)
	}
	if _, err := parseCommitment("processed"); err == nil {
		t.Error("processed should be rejected")
	}
}
