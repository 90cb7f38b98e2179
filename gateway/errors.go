package gateway

import (
	"errors"
	"fmt"
)

// Error codes for external consumption. Every validation failure surfaces one
// of these; nothing is silently swallowed.
const (
	CodePaused                  = "PAUSED"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeNonceMismatch           = "NONCE_MISMATCH"
	CodeMessageHashMismatch     = "MESSAGE_HASH_MISMATCH"
	CodeTssAuthFailed           = "TSS_AUTH_FAILED"
	CodeInvalidAmount           = "INVALID_AMOUNT"
	CodeInvalidRecipient        = "INVALID_RECIPIENT"
	CodeZeroAddress             = "ZERO_ADDRESS"
	CodeInvalidCapRange         = "INVALID_CAP_RANGE"
	CodeBelowMinCap             = "BELOW_MIN_CAP"
	CodeAboveMaxCap             = "ABOVE_MAX_CAP"
	CodeInvalidPrice            = "INVALID_PRICE"
	CodeTokenAlreadyWhitelisted = "TOKEN_ALREADY_WHITELISTED"
	CodeTokenNotWhitelisted     = "TOKEN_NOT_WHITELISTED"
	CodeWhitelistFull           = "WHITELIST_FULL"
	CodeInsufficientBalance     = "INSUFFICIENT_BALANCE"
	CodeInvalidToken            = "INVALID_TOKEN"
	CodeInvalidMint             = "INVALID_MINT"
	CodeInvalidOwner            = "INVALID_OWNER"
	CodeInvalidInput            = "INVALID_INPUT"
	CodeNotInitialized          = "NOT_INITIALIZED"
)

// Error is a coded gateway failure. The code is stable for programmatic
// handling; internal detail is kept for logs via Unwrap.
type Error struct {
	Code     string
	Message  string
	internal error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the internal error for logging.
func (e *Error) Unwrap() error {
	return e.internal
}

// ErrorCode extracts the gateway error code, or "" for foreign errors.
func ErrorCode(err error) string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

func errPaused() error {
	return &Error{Code: CodePaused, Message: "gateway is paused"}
}

func errUnauthorized(action string) error {
	return &Error{Code: CodeUnauthorized, Message: fmt.Sprintf("caller not authorized for %s", action)}
}

func errNonceMismatch(expected, got uint64) error {
	return &Error{Code: CodeNonceMismatch, Message: fmt.Sprintf("expected nonce %d, got %d", expected, got)}
}

func errMessageHashMismatch() error {
	return &Error{Code: CodeMessageHashMismatch, Message: "reconstructed message hash does not match"}
}

func errTssAuthFailed(internal error) error {
	return &Error{Code: CodeTssAuthFailed, Message: "recovered signer is not the TSS authority", internal: internal}
}

func errInvalidAmount() error {
	return &Error{Code: CodeInvalidAmount, Message: "amount must be positive"}
}

func errInvalidRecipient(field string) error {
	return &Error{Code: CodeInvalidRecipient, Message: fmt.Sprintf("%s cannot be the default address", field)}
}

func errZeroAddress(field string) error {
	return &Error{Code: CodeZeroAddress, Message: fmt.Sprintf("%s cannot be the zero address", field)}
}

func errInvalidCapRange() error {
	return &Error{Code: CodeInvalidCapRange, Message: "minimum cap exceeds maximum cap"}
}

func errBelowMinCap(internal error) error {
	return &Error{Code: CodeBelowMinCap, Message: "usd amount below minimum cap", internal: internal}
}

func errAboveMaxCap(internal error) error {
	return &Error{Code: CodeAboveMaxCap, Message: "usd amount above maximum cap", internal: internal}
}

func errInvalidPrice(internal error) error {
	return &Error{Code: CodeInvalidPrice, Message: "price feed reading unusable", internal: internal}
}

func errTokenAlreadyWhitelisted() error {
	return &Error{Code: CodeTokenAlreadyWhitelisted, Message: "token already whitelisted"}
}

func errTokenNotWhitelisted() error {
	return &Error{Code: CodeTokenNotWhitelisted, Message: "token not whitelisted"}
}

func errWhitelistFull() error {
	return &Error{Code: CodeWhitelistFull, Message: "token whitelist is at capacity"}
}

func errInsufficientBalance(internal error) error {
	return &Error{Code: CodeInsufficientBalance, Message: "insufficient balance", internal: internal}
}

func errInvalidToken() error {
	return &Error{Code: CodeInvalidToken, Message: "token cannot be the default address"}
}

func errInvalidMint(field string) error {
	return &Error{Code: CodeInvalidMint, Message: fmt.Sprintf("%s is not an account of the bridged mint", field)}
}

func errInvalidOwner(field string) error {
	return &Error{Code: CodeInvalidOwner, Message: fmt.Sprintf("%s is not owned by the expected authority", field)}
}

func errInvalidInput(detail string) error {
	return &Error{Code: CodeInvalidInput, Message: detail}
}

func errNotInitialized() error {
	return &Error{Code: CodeNotInitialized, Message: "gateway not initialized"}
}
