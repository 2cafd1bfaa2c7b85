// Package billing implements the money side of a stay: the balance ledger,
// payment line sets, partial payments and the checkout commit.
package billing

import (
	"math"
	"time"
)

// Method enumerates payment methods.
type Method string

const (
	MethodCashUSD       Method = "CASH_USD"
	MethodCashLocal     Method = "CASH_LOCAL"
	MethodMobilePayment Method = "MOBILE_PAYMENT"
	MethodTransfer      Method = "TRANSFER"
	MethodZelle         Method = "ZELLE"
	MethodOther         Method = "OTHER"
)

// Valid reports whether m is a known payment method.
func (m Method) Valid() bool {
	switch m {
	case MethodCashUSD, MethodCashLocal, MethodMobilePayment, MethodTransfer, MethodZelle, MethodOther:
		return true
	}
	return false
}

// RequiresReference reports whether the method needs an external transaction
// identifier. Electronic transfers cannot be reconciled without one.
func (m Method) RequiresReference() bool {
	switch m {
	case MethodMobilePayment, MethodTransfer, MethodZelle:
		return true
	}
	return false
}

// Kind enumerates ledger entry kinds.
type Kind string

const (
	KindCharge  Kind = "CHARGE"
	KindPayment Kind = "PAYMENT"
)

// Transaction is one immutable ledger entry.
type Transaction struct {
	ID           int64     `json:"id"`
	StayID       *int64    `json:"stay_id,omitempty"`
	AmountUSD    float64   `json:"amount_usd"`
	ExchangeRate float64   `json:"exchange_rate"`
	AmountLocal  float64   `json:"amount_local"`
	Method       Method    `json:"method"`
	Kind         Kind      `json:"kind"`
	RecordedAt   time.Time `json:"recorded_at"`
	UserID       int64     `json:"user_id"`
	Reference    string    `json:"reference"`
	Description  string    `json:"description"`
}

// AmountDue computes what a guest owes at checkout. Carried debt raises the
// due amount, carried credit offsets it, and the result never goes below
// zero: excess credit survives as credit rather than becoming a payout.
func AmountDue(baseCharge, guestBalance, amountAlreadyPaid float64) float64 {
	var debt, credit float64
	if guestBalance < 0 {
		debt = -guestBalance
	} else {
		credit = guestBalance
	}
	due := baseCharge + debt - credit - amountAlreadyPaid
	if due < 0 {
		return 0
	}
	return due
}

// Overpay is the portion of the collected total beyond the amount due.
func Overpay(totalCollected, amountDue float64) float64 {
	return math.Max(totalCollected-amountDue, 0)
}

// Settle produces the guest's post-checkout balance when the due amount was
// covered: only the overpay moves the balance.
func Settle(guestBalance, amountDue, totalCollected float64) float64 {
	return round2(guestBalance + Overpay(totalCollected, amountDue))
}

// AccrueShortfall produces the post-checkout balance for an underpaid
// checkout that the caller chose to push through. The prior balance was
// already folded into the due amount, so the unpaid remainder replaces it
// as debt.
func AccrueShortfall(amountDue, totalCollected float64) float64 {
	return round2(totalCollected - amountDue)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
