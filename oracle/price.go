// Package oracle converts native asset amounts into USD fixed-point figures
// using an external price feed reading, and enforces configured USD caps.
package oracle

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"pushgateway/shared"
)

// PriceData is one oracle reading: raw integer price with a signed decimal
// exponent, the confidence interval, and the publish time.
type PriceData struct {
	Price       int64
	Exponent    int32
	PublishTime int64
	Confidence  uint64
}

// Validate rejects non-positive prices.
func (p PriceData) Validate() error {
	if p.Price <= 0 {
		return fmt.Errorf("price must be positive, got %d", p.Price)
	}
	return nil
}

// Reader supplies the current price reading. Implementations wrap the
// external feed account; StaticReader serves tests and tooling.
type Reader interface {
	Price() (PriceData, error)
}

// StaticReader returns a fixed reading.
type StaticReader struct {
	Data PriceData
	Err  error
}

func (r StaticReader) Price() (PriceData, error) {
	if r.Err != nil {
		return PriceData{}, r.Err
	}
	return r.Data, nil
}

// UsdAmount converts native subunits to a USD figure still carrying the
// feed's exponent: round(amount / NativeUnitScale * price), half away
// from zero.
func UsdAmount(amount uint64, p PriceData) decimal.Decimal {
	native := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), 0).
		Div(decimal.New(shared.NativeUnitScale, 0))
	return native.Mul(decimal.New(p.Price, 0)).Round(0)
}

// UsdAmount8Dec rescales the raw USD figure from the feed exponent to the
// 8-decimal cap convention: raw * 10^(exponent+8). A feed finer than 8
// decimals scales down with truncation toward zero, matching integer
// division on the raw figure.
func UsdAmount8Dec(amount uint64, p PriceData) decimal.Decimal {
	raw := UsdAmount(amount, p)
	shift := p.Exponent + shared.UsdDecimals
	if shift >= 0 {
		return raw.Mul(decimal.New(1, shift))
	}
	return raw.DivRound(decimal.New(1, -shift), 64).Truncate(0)
}

// CheckCaps validates one reading against the configured policy: the price
// must be positive, the confidence interval must be inside the configured
// threshold (0 disables the check), and the 8-decimal USD equivalent of
// amount must sit within [minCap, maxCap].
func CheckCaps(minCap, maxCap decimal.Decimal, confidenceThreshold uint64, amount uint64, p PriceData) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if confidenceThreshold > 0 && p.Confidence > confidenceThreshold {
		return fmt.Errorf("price confidence interval %d exceeds threshold %d", p.Confidence, confidenceThreshold)
	}
	usd := UsdAmount8Dec(amount, p)
	if usd.Cmp(minCap) < 0 {
		return &CapError{Below: true, Usd: usd, Cap: minCap}
	}
	if usd.Cmp(maxCap) > 0 {
		return &CapError{Below: false, Usd: usd, Cap: maxCap}
	}
	return nil
}

// CapError reports which bound a deposit violated.
type CapError struct {
	Below bool
	Usd   decimal.Decimal
	Cap   decimal.Decimal
}

func (e *CapError) Error() string {
	if e.Below {
		return fmt.Sprintf("usd amount %s below minimum cap %s", e.Usd, e.Cap)
	}
	return fmt.Sprintf("usd amount %s above maximum cap %s", e.Usd, e.Cap)
}
