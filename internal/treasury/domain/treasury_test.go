package domain

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/guildforge/treasury/internal/platform/errors"
)

func TestDedupeSignersPreservesOrder(t *testing.T) {
	t.Parallel()

	got := DedupeSigners([]string{"alice", "bob", "alice", " ", "carol", "bob"})
	want := []string{"alice", "bob", "carol"}
	if len(got) != len(want) {
		t.Fatalf("signers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("signers[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestValidateThreshold(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		signers   int
		threshold int
		wantCode  apperrors.Code
	}{
		{"no signers", 0, 1, apperrors.CodeTreasuryNoSigners},
		{"zero threshold", 3, 0, apperrors.CodeTreasuryInvalidThreshold},
		{"threshold above signer count", 3, 4, apperrors.CodeTreasuryInvalidThreshold},
		{"below majority", 5, 2, apperrors.CodeTreasuryInvalidThreshold},
		{"exact majority", 5, 3, ""},
		{"single signer", 1, 1, ""},
		{"two of three", 3, 2, ""},
		{"unanimous", 3, 3, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateThreshold(tc.signers, tc.threshold)
			if tc.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, apperrors.New(tc.wantCode, "")) {
				t.Fatalf("error = %v, want code %s", err, tc.wantCode)
			}
		})
	}
}

func TestNewTreasuryDefaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	treasury, err := NewTreasury(42, []string{"alice", "bob", "alice", "carol"}, 2, now)
	if err != nil {
		t.Fatalf("new treasury: %v", err)
	}
	if treasury.Owner != "alice" {
		t.Fatalf("owner = %q, want alice", treasury.Owner)
	}
	if len(treasury.Signers) != 3 {
		t.Fatalf("signers = %v, want 3 unique", treasury.Signers)
	}
	if treasury.HighValueThreshold != DefaultHighValueThreshold {
		t.Fatalf("high value threshold = %d, want %d", treasury.HighValueThreshold, DefaultHighValueThreshold)
	}
	if treasury.Paused {
		t.Fatal("new treasury should not be paused")
	}
}

func TestNewTreasuryRejectsDuplicateInflatedThreshold(t *testing.T) {
	t.Parallel()

	// Three entries but only two unique signers, so a threshold of 3 is invalid.
	_, err := NewTreasury(1, []string{"alice", "bob", "alice"}, 3, time.Now())
	if !errors.Is(err, apperrors.New(apperrors.CodeTreasuryInvalidThreshold, "")) {
		t.Fatalf("error = %v, want invalid threshold", err)
	}
}

func TestCreditAndDebitTrackCounters(t *testing.T) {
	t.Parallel()

	treasury, err := NewTreasury(1, []string{"alice"}, 1, time.Now())
	if err != nil {
		t.Fatalf("new treasury: %v", err)
	}

	treasury.Credit("", 500)
	treasury.Credit("token-a", 200)
	if treasury.Balance("") != 500 {
		t.Fatalf("native balance = %d, want 500", treasury.Balance(""))
	}
	if treasury.Balance("token-a") != 200 {
		t.Fatalf("token balance = %d, want 200", treasury.Balance("token-a"))
	}
	if treasury.TotalDeposits != 700 {
		t.Fatalf("total deposits = %d, want 700", treasury.TotalDeposits)
	}

	if err := treasury.Debit("", 300); err != nil {
		t.Fatalf("debit native: %v", err)
	}
	if treasury.Balance("") != 200 {
		t.Fatalf("native balance = %d, want 200", treasury.Balance(""))
	}
	if treasury.TotalWithdrawals != 300 {
		t.Fatalf("total withdrawals = %d, want 300", treasury.TotalWithdrawals)
	}
}

func TestDebitInsufficientBalanceLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	treasury, err := NewTreasury(1, []string{"alice"}, 1, time.Now())
	if err != nil {
		t.Fatalf("new treasury: %v", err)
	}
	treasury.Credit("token-a", 100)

	err = treasury.Debit("token-a", 101)
	if !errors.Is(err, apperrors.New(apperrors.CodeInsufficientBalance, "")) {
		t.Fatalf("error = %v, want insufficient balance", err)
	}
	if treasury.Balance("token-a") != 100 {
		t.Fatalf("balance = %d, want 100 after failed debit", treasury.Balance("token-a"))
	}
	if treasury.TotalWithdrawals != 0 {
		t.Fatalf("total withdrawals = %d, want 0 after failed debit", treasury.TotalWithdrawals)
	}
}

func TestIsSigner(t *testing.T) {
	t.Parallel()

	treasury, err := NewTreasury(1, []string{"alice", "bob"}, 1, time.Now())
	if err != nil {
		t.Fatalf("new treasury: %v", err)
	}
	if !treasury.IsSigner("bob") {
		t.Fatal("bob should be a signer")
	}
	if treasury.IsSigner("mallory") {
		t.Fatal("mallory should not be a signer")
	}
}
