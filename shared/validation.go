package shared

import "fmt"

// ValidateAmount rejects zero-value transfers.
func ValidateAmount(amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

// ValidateNonDefault rejects the zero address sentinel for a named field.
func ValidateNonDefault(name string, p Pubkey) error {
	if p.IsDefault() {
		return fmt.Errorf("%s cannot be the default address", name)
	}
	return nil
}

// ValidateSignatureArgs checks the byte widths of TSS verification arguments.
func ValidateSignatureArgs(signature []byte, messageHash []byte) error {
	if len(signature) != SignatureLength {
		return fmt.Errorf("invalid signature length: expected %d bytes, got %d", SignatureLength, len(signature))
	}
	if len(messageHash) != MessageHashLength {
		return fmt.Errorf("invalid message hash length: expected %d bytes, got %d", MessageHashLength, len(messageHash))
	}
	return nil
}
