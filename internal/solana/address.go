package solana

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// publicKeyLength is the byte length of an ed25519 Solana account address.
const publicKeyLength = 32

// ValidateAddress checks that addr is a syntactically valid Solana account
// address: base58 text decoding to exactly 32 bytes.
func ValidateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("empty address")
	}
	decoded := base58.Decode(addr)
	if len(decoded) == 0 {
		return fmt.Errorf("address %q is not valid base58", addr)
	}
	if len(decoded) != publicKeyLength {
		return fmt.Errorf("address %q decodes to %d bytes, want %d", addr, len(decoded), publicKeyLength)
	}
	return nil
}
