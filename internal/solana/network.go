package solana

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Network is the ledger access layer: one long-lived RPC connection shared by
// all requests, safe for concurrent use.
type Network struct {
	rpcClient    rpcAPI
	tokenAccount *tokenAccountService
}

// NewNetwork connects to a Solana RPC endpoint, verifying reachability before
// the service starts taking requests.
func NewNetwork(ctx context.Context, rpcURL string) (*Network, error) {
	rpcClient := rpc.New(rpcURL)

	_, err := rpcClient.GetVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Solana RPC: %w", err)
	}

	return newNetwork(rpcClient), nil
}

func newNetwork(rpcClient rpcAPI) *Network {
	return &Network{
		rpcClient:    rpcClient,
		tokenAccount: newTokenAccountService(rpcClient),
	}
}

// LatestBlockhash returns the freshness token bounding how long a transaction
// built against it remains submittable.
func (n *Network) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	block, err := n.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}
	return block.Value.Blockhash, nil
}

// Balance returns the lamport balance of an account.
func (n *Network) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	balance, err := n.rpcClient.GetBalance(ctx, account, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance.Value, nil
}

func (n *Network) MintInfo(ctx context.Context, mint solana.PublicKey) (MintInfo, error) {
	return n.tokenAccount.MintInfo(ctx, mint)
}

func (n *Network) AssociatedTokenAccount(owner, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error) {
	return n.tokenAccount.AssociatedTokenAccount(owner, mint, tokenProgram)
}

func (n *Network) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	return n.tokenAccount.AccountExists(ctx, account)
}

// Submit sends a fully signed transaction to the ledger and returns its
// signature. No automatic resubmission: retrying is the caller's call, and is
// safe because each attempt fetches a fresh blockhash.
func (n *Network) Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := n.rpcClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}
