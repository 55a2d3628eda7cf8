package sale

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/weblime-studio/fastchain-app/internal/metrics"
	chain "github.com/weblime-studio/fastchain-app/internal/solana"
	"github.com/weblime-studio/fastchain-app/internal/txrecord"
	"github.com/weblime-studio/fastchain-app/internal/util"
)

// Ledger is the remote-node capability surface the transfer flows depend on.
// *chain.Network satisfies it; tests substitute fakes.
type Ledger interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	Balance(ctx context.Context, account solana.PublicKey) (uint64, error)
	MintInfo(ctx context.Context, mint solana.PublicKey) (chain.MintInfo, error)
	AssociatedTokenAccount(owner, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error)
	AccountExists(ctx context.Context, account solana.PublicKey) (bool, error)
	Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Service orchestrates the two transfer flows: cooperative purchase
// transactions that the buyer co-signs, and server-initiated token payouts.
type Service struct {
	ledger             Ledger
	signer             *chain.Signer
	mint               solana.PublicKey
	reserveLamports    uint64
	defaultSolAmount   string
	defaultTokenAmount string
	recorder           txrecord.Recorder
	logger             *logrus.Logger
}

func New(cfg Config, ledger Ledger, recorder txrecord.Recorder, logger *logrus.Logger) (*Service, error) {
	key, err := ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	signer, err := chain.NewSigner(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	mint, err := solana.PublicKeyFromBase58(cfg.TokenMint)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed token mint: %v", ErrInvalidInput, err)
	}

	reserve, err := util.SolToLamports(cfg.MinReserveSol)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed minimum reserve: %v", ErrInvalidInput, err)
	}

	if recorder == nil {
		recorder = txrecord.Nop{}
	}

	return &Service{
		ledger:             ledger,
		signer:             signer,
		mint:               mint,
		reserveLamports:    reserve,
		defaultSolAmount:   cfg.DefaultSolAmount,
		defaultTokenAmount: cfg.DefaultTokenAmount,
		recorder:           recorder,
		logger:             logger,
	}, nil
}

// ServiceAccount returns the public key of the service signing key.
func (s *Service) ServiceAccount() solana.PublicKey {
	return s.signer.PublicKey()
}

// PurchaseTransaction is a serialized envelope awaiting the buyer's signature
// and submission. Building it has no effect on ledger state.
type PurchaseTransaction struct {
	Transaction     string
	RecentBlockhash string
}

// BuildPurchaseTransaction builds a transaction transferring solAmount SOL
// from the buyer to the service account, with the buyer as fee payer. The
// buyer is the only required signer, so the envelope goes back unsigned; the
// signer is still applied so a service-funded variant signs its own slot.
func (s *Service) BuildPurchaseTransaction(ctx context.Context, buyerRef, solAmount string) (PurchaseTransaction, error) {
	buyer, err := parseAccount(buyerRef)
	if err != nil {
		return PurchaseTransaction{}, err
	}

	if solAmount == "" {
		solAmount = s.defaultSolAmount
	}
	lamports, err := util.SolToLamports(solAmount)
	if err != nil {
		return PurchaseTransaction{}, fmt.Errorf("%w: malformed SOL amount: %v", ErrInvalidInput, err)
	}
	if lamports == 0 {
		return PurchaseTransaction{}, fmt.Errorf("%w: SOL amount must be positive", ErrInvalidInput)
	}

	blockhash, err := s.ledger.LatestBlockhash(ctx)
	if err != nil {
		return PurchaseTransaction{}, err
	}

	inst, err := chain.NativeTransfer(buyer, s.signer.PublicKey(), lamports)
	if err != nil {
		return PurchaseTransaction{}, err
	}

	tx, err := chain.BuildTransaction([]solana.Instruction{inst}, buyer, blockhash)
	if err != nil {
		return PurchaseTransaction{}, err
	}

	if _, err := s.signer.Apply(tx); err != nil {
		return PurchaseTransaction{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	raw, err := chain.SerializePartial(tx)
	if err != nil {
		return PurchaseTransaction{}, err
	}

	metrics.IncPurchaseTransactions()
	s.logger.WithFields(logrus.Fields{
		"buyer":    buyer.String(),
		"lamports": lamports,
	}).Info("built purchase transaction")

	return PurchaseTransaction{
		Transaction:     base64.StdEncoding.EncodeToString(raw),
		RecentBlockhash: blockhash.String(),
	}, nil
}

// SendTokens transfers tokenAmount tokens from the service's associated token
// account to the buyer's, creating missing associated accounts in the same
// transaction, then signs fully and submits. Step order is fixed: reserve
// check, then mint and account resolution, then build, sign, submit.
func (s *Service) SendTokens(ctx context.Context, buyerRef, tokenAmount string) (solana.Signature, error) {
	start := time.Now()

	sig, amount, err := s.sendTokens(ctx, buyerRef, tokenAmount)
	if err != nil {
		metrics.ObservePayout("failed", start)
		return solana.Signature{}, err
	}
	metrics.ObservePayout("submitted", start)

	if err := s.recorder.RecordPayout(ctx, txrecord.Payout{
		Buyer:     buyerRef,
		Mint:      s.mint.String(),
		Amount:    amount,
		Signature: sig.String(),
	}); err != nil {
		// The transfer is already on chain; losing the audit row must not
		// fail the request.
		s.logger.Errorf("failed to record payout %s: %v", sig, err)
	}

	return sig, nil
}

func (s *Service) sendTokens(ctx context.Context, buyerRef, tokenAmount string) (solana.Signature, uint64, error) {
	buyer, err := parseAccount(buyerRef)
	if err != nil {
		return solana.Signature{}, 0, err
	}

	if tokenAmount == "" {
		tokenAmount = s.defaultTokenAmount
	}
	if err := validateAmount(tokenAmount); err != nil {
		return solana.Signature{}, 0, err
	}

	service := s.signer.PublicKey()

	balance, err := s.ledger.Balance(ctx, service)
	if err != nil {
		return solana.Signature{}, 0, fmt.Errorf("failed to check service balance: %w", err)
	}
	if balance < s.reserveLamports {
		return solana.Signature{}, 0, fmt.Errorf(
			"%w: service balance %s SOL below reserve %s SOL",
			ErrInsufficientFunds,
			util.FromBaseUnits(balance, util.SolDecimals),
			util.FromBaseUnits(s.reserveLamports, util.SolDecimals),
		)
	}

	// Decimals must be known before the amount conversion.
	info, err := s.ledger.MintInfo(ctx, s.mint)
	if err != nil {
		return solana.Signature{}, 0, fmt.Errorf("%w: %v", ErrAccountResolution, err)
	}

	amount, err := util.ToBaseUnitsUint64(tokenAmount, int(info.Decimals))
	if err != nil {
		return solana.Signature{}, 0, fmt.Errorf("%w: malformed token amount: %v", ErrInvalidInput, err)
	}
	if amount == 0 {
		return solana.Signature{}, 0, fmt.Errorf("%w: token amount must be positive", ErrInvalidInput)
	}

	var instructions []solana.Instruction

	sourceATA, err := s.resolveTokenAccount(ctx, service, info, &instructions)
	if err != nil {
		return solana.Signature{}, 0, err
	}
	destATA, err := s.resolveTokenAccount(ctx, buyer, info, &instructions)
	if err != nil {
		return solana.Signature{}, 0, err
	}

	transfer, err := chain.TokenTransfer(sourceATA, destATA, service, info.Program, amount)
	if err != nil {
		return solana.Signature{}, 0, err
	}
	instructions = append(instructions, transfer)

	blockhash, err := s.ledger.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, 0, err
	}

	tx, err := chain.BuildTransaction(instructions, service, blockhash)
	if err != nil {
		return solana.Signature{}, 0, err
	}

	if _, err := s.signer.Apply(tx); err != nil {
		return solana.Signature{}, 0, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if !chain.Complete(tx) {
		return solana.Signature{}, 0, fmt.Errorf("transaction requires signers beyond the service key")
	}

	sig, err := s.ledger.Submit(ctx, tx)
	if err != nil {
		return solana.Signature{}, 0, fmt.Errorf("%w: %v", ErrSubmission, err)
	}

	s.logger.WithFields(logrus.Fields{
		"buyer":     buyer.String(),
		"amount":    amount,
		"signature": sig.String(),
	}).Info("submitted token payout")

	return sig, amount, nil
}

// resolveTokenAccount derives the associated token account of owner and, when
// it does not exist yet, appends a create instruction funded by the service.
// A pre-existing account is reused as is, which keeps retries idempotent.
func (s *Service) resolveTokenAccount(
	ctx context.Context,
	owner solana.PublicKey,
	info chain.MintInfo,
	instructions *[]solana.Instruction,
) (solana.PublicKey, error) {
	ata, err := s.ledger.AssociatedTokenAccount(owner, s.mint, info.Program)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrAccountResolution, err)
	}

	exists, err := s.ledger.AccountExists(ctx, ata)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrAccountResolution, err)
	}
	if !exists {
		inst, err := chain.CreateATAInstruction(s.signer.PublicKey(), owner, s.mint, info.Program)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("%w: %v", ErrAccountResolution, err)
		}
		*instructions = append(*instructions, inst)
	}

	return ata, nil
}

func parseAccount(ref string) (solana.PublicKey, error) {
	if ref == "" {
		return solana.PublicKey{}, fmt.Errorf("%w: buyer account is required", ErrInvalidInput)
	}
	account, err := solana.PublicKeyFromBase58(ref)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: malformed account reference %q: %v", ErrInvalidInput, ref, err)
	}
	return account, nil
}

// validateAmount rejects malformed or zero amounts before any network call;
// the precise conversion happens later, once mint decimals are known.
func validateAmount(amount string) error {
	v, err := util.ToBaseUnits(amount, 18)
	if err != nil {
		return fmt.Errorf("%w: malformed token amount: %v", ErrInvalidInput, err)
	}
	if v.Sign() == 0 {
		return fmt.Errorf("%w: token amount must be positive", ErrInvalidInput)
	}
	return nil
}
