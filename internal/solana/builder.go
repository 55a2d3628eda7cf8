package solana

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

// ErrInvalidInput marks construction failures caught before any network call:
// malformed account references, empty instruction lists, non-positive amounts.
var ErrInvalidInput = errors.New("invalid input")

// NativeTransfer builds a system-program transfer of lamports from one account
// to another. The source account becomes a required signer of any transaction
// that includes the instruction.
func NativeTransfer(from, to solana.PublicKey, lamports uint64) (solana.Instruction, error) {
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: transfer requires source and destination accounts", ErrInvalidInput)
	}
	if lamports == 0 {
		return nil, fmt.Errorf("%w: transfer amount must be positive", ErrInvalidInput)
	}

	return system.NewTransferInstruction(lamports, from, to).Build(), nil
}

// TokenTransfer builds a token-program transfer of base units between two
// token accounts, authorized by owner. The instruction layout is shared by the
// legacy SPL token program and Token-2022.
func TokenTransfer(source, destination, owner, tokenProgram solana.PublicKey, amount uint64) (solana.Instruction, error) {
	if source.IsZero() || destination.IsZero() || owner.IsZero() {
		return nil, fmt.Errorf("%w: token transfer requires source, destination and owner accounts", ErrInvalidInput)
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: transfer amount must be positive", ErrInvalidInput)
	}

	// Transfer instruction data: discriminator (1 byte) + amount (8 bytes little-endian)
	data := make([]byte, 9)
	data[0] = 3
	binary.LittleEndian.PutUint64(data[1:], amount)

	return solana.NewInstruction(
		tokenProgram,
		[]*solana.AccountMeta{
			{PublicKey: source, IsSigner: false, IsWritable: true},
			{PublicKey: destination, IsSigner: false, IsWritable: true},
			{PublicKey: owner, IsSigner: true, IsWritable: false},
		},
		data,
	), nil
}

// CreateATAInstruction builds an instruction creating the associated token
// account of owner for mint, funded by payer. Creating an account that already
// exists fails on chain, so callers check existence first.
func CreateATAInstruction(payer, owner, mint, tokenProgram solana.PublicKey) (solana.Instruction, error) {
	ataAddress, _, err := FindAssociatedTokenAddress(owner, mint, tokenProgram)
	if err != nil {
		return nil, fmt.Errorf("failed to derive ATA address: %w", err)
	}

	return solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID,
		[]*solana.AccountMeta{
			{PublicKey: payer, IsSigner: true, IsWritable: true},
			{PublicKey: ataAddress, IsSigner: false, IsWritable: true},
			{PublicKey: owner, IsSigner: false, IsWritable: false},
			{PublicKey: mint, IsSigner: false, IsWritable: false},
			{PublicKey: solana.SystemProgramID, IsSigner: false, IsWritable: false},
			{PublicKey: tokenProgram, IsSigner: false, IsWritable: false},
		},
		[]byte{0}, // instruction discriminator for "Create"
	), nil
}

// BuildTransaction assembles instructions into an unsigned transaction with
// the given fee payer and recent blockhash. Instructions keep their order and
// the signature list is zero-padded to the required signer count. The result
// is deterministic for identical inputs.
func BuildTransaction(instructions []solana.Instruction, feePayer solana.PublicKey, blockhash solana.Hash) (*solana.Transaction, error) {
	if len(instructions) == 0 {
		return nil, fmt.Errorf("%w: transaction requires at least one instruction", ErrInvalidInput)
	}
	if feePayer.IsZero() {
		return nil, fmt.Errorf("%w: transaction requires a fee payer", ErrInvalidInput)
	}

	tx, err := solana.NewTransaction(
		instructions,
		blockhash,
		solana.TransactionPayer(feePayer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	padSignatures(tx)
	return tx, nil
}

// SerializePartial marshals a transaction without requiring all signatures,
// leaving zero placeholders for missing signers so counterparties can co-sign.
func SerializePartial(tx *solana.Transaction) ([]byte, error) {
	padSignatures(tx)

	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}
	return raw, nil
}

func padSignatures(tx *solana.Transaction) {
	required := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Signatures) < required {
		sigs := make([]solana.Signature, required)
		copy(sigs, tx.Signatures)
		tx.Signatures = sigs
	}
}
