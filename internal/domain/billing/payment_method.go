package billing

import "strings"

// PaymentMethod is how the customer intends to pay an order
type PaymentMethod string

const (
	PaymentManual     PaymentMethod = "manual"
	PaymentBank       PaymentMethod = "bank"
	PaymentPaypal     PaymentMethod = "paypal"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentSwish      PaymentMethod = "swish"
)

// IsValid checks if the payment method is supported
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentManual, PaymentBank, PaymentPaypal, PaymentCreditCard, PaymentSwish:
		return true
	}
	return false
}

// ParsePaymentMethod normalizes and validates a payment method string
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	p := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", ErrInvalidPaymentMethod
	}
	return p, nil
}
