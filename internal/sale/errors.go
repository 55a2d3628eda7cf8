package sale

import (
	"errors"

	chain "github.com/weblime-studio/fastchain-app/internal/solana"
)

// Failure kinds, in the order a payout can hit them. Handlers map all of them
// to one flat response shape, but the kinds stay distinguishable for callers
// and tests.
var (
	// ErrInvalidInput rejects malformed account references and non-positive
	// amounts before any network call.
	ErrInvalidInput = chain.ErrInvalidInput

	// ErrInsufficientFunds means the service account balance is below the
	// configured fee reserve; nothing was resolved or submitted.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountResolution wraps mint or associated-account lookup failures.
	ErrAccountResolution = errors.New("account resolution failed")

	// ErrSubmission wraps ledger rejections. Resubmitting with a fresh
	// blockhash is the caller's responsibility and safe to repeat.
	ErrSubmission = errors.New("transaction submission failed")
)
