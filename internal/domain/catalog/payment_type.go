package catalog

// PaymentType is how a product is charged
type PaymentType string

const (
	PaymentTypeOneTime   PaymentType = "one_time"
	PaymentTypeRecurring PaymentType = "recurring"
)

// IsValid checks if the payment type is recognized
func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentTypeOneTime, PaymentTypeRecurring:
		return true
	}
	return false
}

// RecurringMethod is the billing cadence of a recurring product
type RecurringMethod string

const (
	RecurringMonthly      RecurringMethod = "monthly"
	RecurringQuarterly    RecurringMethod = "quarterly"
	RecurringSemiAnnually RecurringMethod = "semi_annually"
	RecurringBiennially   RecurringMethod = "biennially"
	RecurringTriennially  RecurringMethod = "triennially"
	RecurringYearly       RecurringMethod = "yearly"
)

// IsValid checks if the recurring method is one of the supported cadences
func (r RecurringMethod) IsValid() bool {
	_, ok := cadenceMonths[r]
	return ok
}

// Months returns the length of one billing cycle in calendar months
func (r RecurringMethod) Months() (int, bool) {
	m, ok := cadenceMonths[r]
	return m, ok
}

// String returns the string representation of RecurringMethod
func (r RecurringMethod) String() string {
	return string(r)
}

var cadenceMonths = map[RecurringMethod]int{
	RecurringMonthly:      1,
	RecurringQuarterly:    3,
	RecurringSemiAnnually: 6,
	RecurringYearly:       12,
	RecurringBiennially:   24,
	RecurringTriennially:  36,
}
