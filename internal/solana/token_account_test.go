package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRPC struct {
	accountInfo    map[solana.PublicKey]*rpc.GetAccountInfoResult
	accountInfoErr error
}

func (f *fakeRPC) GetVersion(ctx context.Context) (*rpc.GetVersionResult, error) {
	return &rpc.GetVersionResult{}, nil
}

func (f *fakeRPC) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	return &rpc.GetLatestBlockhashResult{Value: &rpc.LatestBlockhashResult{}}, nil
}

func (f *fakeRPC) GetBalance(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) (*rpc.GetBalanceResult, error) {
	return &rpc.GetBalanceResult{}, nil
}

func (f *fakeRPC) GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	if f.accountInfoErr != nil {
		return nil, f.accountInfoErr
	}
	if info, ok := f.accountInfo[account]; ok {
		return info, nil
	}
	return nil, rpc.ErrNotFound
}

func (f *fakeRPC) SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error) {
	return solana.Signature{}, nil
}

func accountDataFromBytes(t *testing.T, raw []byte) *rpc.DataBytesOrJSON {
	t.Helper()

	encoded, err := json.Marshal([]string{base64.StdEncoding.EncodeToString(raw), "base64"})
	require.NoError(t, err)

	var data rpc.DataBytesOrJSON
	require.NoError(t, json.Unmarshal(encoded, &data))
	return &data
}

func TestFindAssociatedTokenAddress_Deterministic(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	first, _, err := FindAssociatedTokenAddress(owner, mint, solana.TokenProgramID)
	require.NoError(t, err)
	second, _, err := FindAssociatedTokenAddress(owner, mint, solana.TokenProgramID)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same (owner, mint) must derive the same account")

	otherOwner := solana.NewWallet().PublicKey()
	third, _, err := FindAssociatedTokenAddress(otherOwner, mint, solana.TokenProgramID)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestTokenAccountService_MintInfo(t *testing.T) {
	mint := solana.NewWallet().PublicKey()

	var buf bytes.Buffer
	mintData := token.Mint{
		Supply:        1_000_000_000,
		Decimals:      9,
		IsInitialized: true,
	}
	require.NoError(t, mintData.MarshalWithEncoder(bin.NewBinEncoder(&buf)))

	svc := newTokenAccountService(&fakeRPC{
		accountInfo: map[solana.PublicKey]*rpc.GetAccountInfoResult{
			mint: {Value: &rpc.Account{
				Owner: solana.TokenProgramID,
				Data:  accountDataFromBytes(t, buf.Bytes()),
			}},
		},
	})

	info, err := svc.MintInfo(context.Background(), mint)
	require.NoError(t, err)
	assert.Equal(t, solana.TokenProgramID, info.Program)
	assert.Equal(t, uint8(9), info.Decimals)
}

func TestTokenAccountService_MintInfo_NotAMint(t *testing.T) {
	mint := solana.NewWallet().PublicKey()

	svc := newTokenAccountService(&fakeRPC{
		accountInfo: map[solana.PublicKey]*rpc.GetAccountInfoResult{
			mint: {Value: &rpc.Account{Owner: solana.SystemProgramID}},
		},
	})

	_, err := svc.MintInfo(context.Background(), mint)
	assert.ErrorContains(t, err, "not owned by a token program")
}

func TestTokenAccountService_AccountExists(t *testing.T) {
	existing := solana.NewWallet().PublicKey()
	missing := solana.NewWallet().PublicKey()

	svc := newTokenAccountService(&fakeRPC{
		accountInfo: map[solana.PublicKey]*rpc.GetAccountInfoResult{
			existing: {Value: &rpc.Account{Owner: solana.TokenProgramID}},
		},
	})

	exists, err := svc.AccountExists(context.Background(), existing)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.AccountExists(context.Background(), missing)
	require.NoError(t, err)
	assert.False(t, exists, "not-found accounts report as missing, not as errors")
}
