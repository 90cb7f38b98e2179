// Package shared contains value types and validation logic used across the gateway core.
package shared

const (
	// Native asset scale (subunits per whole unit)
	NativeUnitScale = 1_000_000_000

	// USD cap fixed-point convention: 1e8 = $1
	UsdDecimals = 8

	// Whitelist capacity, mirroring the fixed account size of the storage backend
	MaxWhitelistedTokens = 50

	// Default oracle confidence threshold applied at initialization
	DefaultConfidenceThreshold = 1_000_000

	// Byte widths of the TSS verification arguments
	SignatureLength   = 64
	MessageHashLength = 32
	EthAddressLength  = 20
)
