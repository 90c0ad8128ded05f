package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	t.Parallel()

	err := New(CodeBudgetExceeded, "budget exceeded for category withdrawal")
	if !stderrors.Is(err, New(CodeBudgetExceeded, "")) {
		t.Fatal("expected errors with same code to match")
	}
	if stderrors.Is(err, New(CodeAllowanceExceeded, "")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("disk full")
	err := Wrap(CodeUnknown, "append transaction", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be traversable")
	}
	if err.Error() != "append transaction" {
		t.Fatalf("message = %q, want %q", err.Error(), "append transaction")
	}
}

func TestWithMetadataCarriesContext(t *testing.T) {
	t.Parallel()

	err := WithMetadata(CodeInsufficientBalance, "balance too low", map[string]string{
		"treasury_id": "7",
	})
	if err.Metadata["treasury_id"] != "7" {
		t.Fatalf("metadata = %v, want treasury_id=7", err.Metadata)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code Code
		want int
	}{
		{CodeTreasuryInvalidThreshold, http.StatusBadRequest},
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeTreasuryNotSigner, http.StatusForbidden},
		{CodeTreasuryNotFound, http.StatusNotFound},
		{CodeTreasuryPaused, http.StatusConflict},
		{CodeBudgetExceeded, http.StatusConflict},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Fatalf("%s status = %d, want %d", tc.code, got, tc.want)
		}
	}
}
