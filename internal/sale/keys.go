package sale

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// ParsePrivateKey accepts a base58-encoded key or the JSON byte-array form
// emitted by solana-keygen, and returns the 64-byte signing key.
func ParsePrivateKey(raw string) (solana.PrivateKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: private key is empty", ErrInvalidInput)
	}

	if strings.HasPrefix(raw, "[") {
		var values []int
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, fmt.Errorf("%w: malformed JSON private key: %v", ErrInvalidInput, err)
		}
		key := make(solana.PrivateKey, len(values))
		for i, v := range values {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("%w: private key byte %d out of range", ErrInvalidInput, v)
			}
			key[i] = byte(v)
		}
		if len(key) != 64 {
			return nil, fmt.Errorf("%w: private key must be 64 bytes, got %d", ErrInvalidInput, len(key))
		}
		return key, nil
	}

	key, err := solana.PrivateKeyFromBase58(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed base58 private key: %v", ErrInvalidInput, err)
	}
	if len(key) != 64 {
		return nil, fmt.Errorf("%w: private key must be 64 bytes, got %d", ErrInvalidInput, len(key))
	}
	return key, nil
}
