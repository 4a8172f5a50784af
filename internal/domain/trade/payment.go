package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradedesk/backend/internal/domain/shared"
)

// PaymentMethod describes how money moved
type PaymentMethod string

const (
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
	PaymentMethodLetterOfCredit PaymentMethod = "letter_of_credit"
	PaymentMethodCash           PaymentMethod = "cash"
	PaymentMethodCheque         PaymentMethod = "cheque"
	PaymentMethodCard           PaymentMethod = "card"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodLetterOfCredit, PaymentMethodCash, PaymentMethodCheque, PaymentMethodCard:
		return true
	}
	return false
}

// Label returns the display label
func (m PaymentMethod) Label() string {
	return shared.DisplayLabel(string(m))
}

// Payment records money paid against a document
type Payment struct {
	ID        uuid.UUID
	Amount    decimal.Decimal
	PaidAt    time.Time
	Method    PaymentMethod
	Reference string
}

// newPayment validates a payment against the outstanding amount
func newPayment(amount, outstanding decimal.Decimal, paidAt time.Time, method PaymentMethod, reference string) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(outstanding) {
		return nil, shared.NewDomainError("PAYMENT_EXCEEDS_BALANCE",
			fmt.Sprintf("Payment of %s exceeds the remaining amount of %s", amount.String(), outstanding.String()))
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Invalid payment method: %s", method))
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	return &Payment{
		ID:        uuid.New(),
		Amount:    amount,
		PaidAt:    paidAt,
		Method:    method,
		Reference: reference,
	}, nil
}
