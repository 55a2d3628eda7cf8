package solana

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTransaction_SingleNativeTransfer(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	blockhash := solana.Hash{}

	inst, err := NativeTransfer(from, to, 1_000_000)
	require.NoError(t, err)

	tx, err := BuildTransaction([]solana.Instruction{inst}, from, blockhash)
	require.NoError(t, err)

	require.Len(t, tx.Message.Instructions, 1)
	assert.Equal(t, from, tx.Message.AccountKeys[0], "fee payer must be the first account key")
	assert.Equal(t, blockhash, tx.Message.RecentBlockhash)

	ix := tx.Message.Instructions[0]
	program, err := tx.Message.Program(ix.ProgramIDIndex)
	require.NoError(t, err)
	assert.Equal(t, solana.SystemProgramID, program)

	// System transfer data: u32 instruction index (2) + u64 lamports, little-endian.
	require.Len(t, []byte(ix.Data), 12)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(ix.Data[:4]))
	assert.Equal(t, uint64(1_000_000), binary.LittleEndian.Uint64(ix.Data[4:]))

	// Source and destination appear in instruction account order.
	accounts, err := ix.ResolveInstructionAccounts(&tx.Message)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, from, accounts[0].PublicKey)
	assert.Equal(t, to, accounts[1].PublicKey)
}

func TestBuildTransaction_PreservesInstructionOrder(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()
	blockhash := solana.Hash{}

	first, err := NativeTransfer(payer, other, 1)
	require.NoError(t, err)
	second, err := NativeTransfer(payer, other, 2)
	require.NoError(t, err)

	tx, err := BuildTransaction([]solana.Instruction{first, second}, payer, blockhash)
	require.NoError(t, err)

	require.Len(t, tx.Message.Instructions, 2)
	assert.Equal(t, uint64(1), binary.LittleEndian.Uint64(tx.Message.Instructions[0].Data[4:]))
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(tx.Message.Instructions[1].Data[4:]))
}

func TestBuildTransaction_Deterministic(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	blockhash := solana.Hash{}

	build := func() []byte {
		inst, err := NativeTransfer(from, to, 5_000)
		require.NoError(t, err)
		tx, err := BuildTransaction([]solana.Instruction{inst}, from, blockhash)
		require.NoError(t, err)
		raw, err := SerializePartial(tx)
		require.NoError(t, err)
		return raw
	}

	assert.Equal(t, build(), build(), "identical inputs must produce byte-identical envelopes")
}

func TestBuildTransaction_EmptyInstructions(t *testing.T) {
	payer := solana.NewWallet().PublicKey()

	tx, err := BuildTransaction(nil, payer, solana.Hash{})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, tx)
}

func TestNativeTransfer_ZeroAmount(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()

	inst, err := NativeTransfer(from, to, 0)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, inst)
}

func TestTokenTransfer_ZeroAmount(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	inst, err := TokenTransfer(a, b, owner, solana.TokenProgramID, 0)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, inst)
}

func TestTokenTransfer_Data(t *testing.T) {
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	inst, err := TokenTransfer(a, b, owner, solana.TokenProgramID, 1_000_000_000)
	require.NoError(t, err)

	data, err := inst.Data()
	require.NoError(t, err)
	require.Len(t, data, 9)
	assert.Equal(t, byte(3), data[0])
	assert.Equal(t, uint64(1_000_000_000), binary.LittleEndian.Uint64(data[1:]))
	assert.Equal(t, solana.TokenProgramID, inst.ProgramID())
}

func TestSerializePartial_UnsignedRoundTrip(t *testing.T) {
	from := solana.NewWallet().PublicKey()
	to := solana.NewWallet().PublicKey()
	blockhash := solana.Hash{}

	inst, err := NativeTransfer(from, to, 42)
	require.NoError(t, err)
	tx, err := BuildTransaction([]solana.Instruction{inst}, from, blockhash)
	require.NoError(t, err)

	raw, err := SerializePartial(tx)
	require.NoError(t, err)

	decoded, err := solana.TransactionFromBytes(raw)
	require.NoError(t, err)
	require.Len(t, decoded.Signatures, 1)
	assert.Equal(t, solana.Signature{}, decoded.Signatures[0], "unsigned slot must be a zero placeholder")
	assert.Equal(t, from, decoded.Message.AccountKeys[0])
}
