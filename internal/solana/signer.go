package solana

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Signer applies the service signing key to transactions. The key is loaded
// once at startup and never changes, so a Signer is safe for concurrent use.
type Signer struct {
	key solana.PrivateKey
	pub solana.PublicKey
}

func NewSigner(key solana.PrivateKey) (*Signer, error) {
	if len(key) != 64 {
		return nil, fmt.Errorf("%w: private key must be 64 bytes, got %d", ErrInvalidInput, len(key))
	}
	return &Signer{
		key: key,
		pub: key.PublicKey(),
	}, nil
}

func (s *Signer) PublicKey() solana.PublicKey {
	return s.pub
}

// Apply signs the transaction's canonical message bytes into every required
// signer slot whose account matches the signer's key, and reports whether any
// slot was signed. Instruction order and fee payer are part of the signed
// message and are never touched. Re-applying overwrites the same slot with an
// identical signature, so the operation is idempotent.
func (s *Signer) Apply(tx *solana.Transaction) (bool, error) {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return false, fmt.Errorf("failed to marshal message: %w", err)
	}

	padSignatures(tx)

	required := int(tx.Message.Header.NumRequiredSignatures)
	if required > len(tx.Message.AccountKeys) {
		return false, fmt.Errorf("malformed message: %d required signers, %d account keys", required, len(tx.Message.AccountKeys))
	}

	signed := false
	for i := 0; i < required; i++ {
		if !tx.Message.AccountKeys[i].Equals(s.pub) {
			continue
		}
		sig, err := s.key.Sign(msg)
		if err != nil {
			return false, fmt.Errorf("failed to sign message: %w", err)
		}
		tx.Signatures[i] = sig
		signed = true
	}

	return signed, nil
}

// Complete reports whether every required signer slot holds a signature.
func Complete(tx *solana.Transaction) bool {
	required := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Signatures) < required {
		return false
	}
	for i := 0; i < required; i++ {
		if tx.Signatures[i] == (solana.Signature{}) {
			return false
		}
	}
	return true
}
