// Package billing provides the domain model for orders, invoices and the
// rules that turn a customer's cart into billable orders.
//
// Key pieces:
//   - NextCycle: calendar-correct next billing date for a recurring cadence
//   - Classify: partitions resolved cart products into billing cohorts
//   - Order: one order per cohort, with an explicit invoicing stage
//   - Invoice and Transaction: the billable documents derived from orders
//
// The billing domain depends on the catalog domain for products and
// configurable options, and on the identity domain only through customer ids.
package billing
