package solana

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// MintInfo describes an SPL mint: the token program owning it and its decimal
// precision.
type MintInfo struct {
	Program  solana.PublicKey
	Decimals uint8
}

type tokenAccountService struct {
	rpcClient rpcAPI
}

func newTokenAccountService(rpcClient rpcAPI) *tokenAccountService {
	return &tokenAccountService{
		rpcClient: rpcClient,
	}
}

// MintInfo queries the mint account to determine which token program owns it
// and the token decimals. Token-2022 mints may carry extension data, but the
// base Mint layout is identical to legacy SPL Token.
func (s *tokenAccountService) MintInfo(ctx context.Context, mint solana.PublicKey) (MintInfo, error) {
	accountInfo, err := s.rpcClient.GetAccountInfo(ctx, mint)
	if err != nil {
		return MintInfo{}, fmt.Errorf("failed to get mint account info: %w", err)
	}

	if accountInfo.Value == nil {
		return MintInfo{}, fmt.Errorf("mint account not found: %s", mint)
	}

	owner := accountInfo.Value.Owner
	if owner != solana.TokenProgramID && owner != solana.Token2022ProgramID {
		return MintInfo{}, fmt.Errorf("mint account is not owned by a token program: %s", owner)
	}

	data := accountInfo.Value.Data.GetBinary()
	var mintData token.Mint
	if err := mintData.UnmarshalWithDecoder(bin.NewBinDecoder(data)); err != nil {
		return MintInfo{}, fmt.Errorf("failed to deserialize mint data: %w", err)
	}

	return MintInfo{Program: owner, Decimals: mintData.Decimals}, nil
}

// FindAssociatedTokenAddress derives the ATA address of wallet for mint under
// the given token program. The derivation is deterministic: the same inputs
// always yield the same address.
func FindAssociatedTokenAddress(wallet, mint, tokenProgram solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{
			wallet[:],
			tokenProgram[:],
			mint[:],
		},
		solana.SPLAssociatedTokenAccountProgramID,
	)
}

func (s *tokenAccountService) AssociatedTokenAccount(owner, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error) {
	a, _, err := FindAssociatedTokenAddress(owner, mint, tokenProgram)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive associated token address: %w", err)
	}
	return a, nil
}

func (s *tokenAccountService) AccountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	accountInfo, err := s.rpcClient.GetAccountInfo(ctx, account)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get account info: %w", err)
	}
	return accountInfo.Value != nil, nil
}
