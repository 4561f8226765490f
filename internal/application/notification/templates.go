package notification

import (
	"fmt"
	"html"
	"strings"
)

// NewOrder is sent to the customer after an order and its invoice exist
func NewOrder(company, to, customerName, orderUID, invoiceUID string) Message {
	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("New order from %s #%s", company, orderUID),
		Body: fmt.Sprintf(
			"<p>Hi %s,</p><p>Thank you for your order #%s.</p><p>Invoice %s has been sent to you.</p>",
			html.EscapeString(customerName), orderUID, invoiceUID,
		),
		HTML: true,
	}
}

// InvoiceCreated is sent to the admins
func InvoiceCreated(to []string, invoiceUID string) Message {
	return Message{
		To:      to,
		Subject: "Invoice created",
		Body:    fmt.Sprintf("Invoice %s has been created", invoiceUID),
	}
}

// OrderCancelledCustomer confirms a cancellation to the customer
func OrderCancelledCustomer(to, orderUID string) Message {
	return Message{
		To:      []string{to},
		Subject: "Order Cancelled Confirmation",
		Body:    fmt.Sprintf("<p>Your order #%s has been cancelled.</p>", orderUID),
		HTML:    true,
	}
}

// OrderCancelledAdmin tells the admins that a customer cancelled
func OrderCancelledAdmin(to []string, orderUID string, customerID int64) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("Order Cancelled #%s", orderUID),
		Body:    fmt.Sprintf("Order %s has been cancelled by customer %d", orderUID, customerID),
	}
}

// ResetPassword carries the reset link
func ResetPassword(to, link string) Message {
	return Message{
		To:      []string{to},
		Subject: "Reset Password",
		Body: fmt.Sprintf(
			"<p>A password reset was requested for your account.</p><p><a href=\"%s\">Choose a new password</a></p>",
			html.EscapeString(link),
		),
		HTML: true,
	}
}

// LoginAttempts warns the customer about repeated failed logins
func LoginAttempts(to string, attempts int) Message {
	return Message{
		To:      []string{to},
		Subject: "Account login attempts",
		Body: strings.Join([]string{
			fmt.Sprintf("<p>There were %d failed login attempts on your account.</p>", attempts),
			"<p>If this was not you, reset your password.</p>",
		}, ""),
		HTML: true,
	}
}
