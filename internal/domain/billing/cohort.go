package billing

import (
	"github.com/cpg/backend/internal/domain/catalog"
)

// CohortKey identifies a billing cohort. RecurringMethod is empty for one-time cohorts.
type CohortKey struct {
	PaymentType     catalog.PaymentType
	RecurringMethod catalog.RecurringMethod
}

// IsRecurring reports whether orders for this cohort renew
func (k CohortKey) IsRecurring() bool {
	return k.PaymentType == catalog.PaymentTypeRecurring
}

// String returns the bucket name, e.g. "monthly" or "one_time"
func (k CohortKey) String() string {
	if k.IsRecurring() {
		return string(k.RecurringMethod)
	}
	return string(k.PaymentType)
}

// BucketOrder is the fixed order cohorts are emitted and orders are created in.
// Invoice numbering depends on it, so it must not be re-sorted.
var BucketOrder = []CohortKey{
	{catalog.PaymentTypeRecurring, catalog.RecurringMonthly},
	{catalog.PaymentTypeRecurring, catalog.RecurringQuarterly},
	{catalog.PaymentTypeRecurring, catalog.RecurringSemiAnnually},
	{catalog.PaymentTypeRecurring, catalog.RecurringBiennially},
	{catalog.PaymentTypeRecurring, catalog.RecurringTriennially},
	{catalog.PaymentTypeOneTime, ""},
	{catalog.PaymentTypeRecurring, catalog.RecurringYearly},
}

// OptionSelection is the configurable option picked on a cart line,
// by index or by variant name.
type OptionSelection struct {
	ID    int64
	Index *int
	Name  string
}

// CartLine is one requested line of a cart
type CartLine struct {
	ProductID           int64
	Quantity            int
	ConfigurableOptions []OptionSelection
}

// CohortMember is a resolved product with its requested quantity and option
type CohortMember struct {
	Product                 catalog.Product
	Quantity                int
	ConfigurableOptionID    *int64
	ConfigurableOptionIndex int
}

// Cohort is a group of products sharing payment type and cadence
type Cohort struct {
	Key     CohortKey
	Members []CohortMember
}

// DropReason explains why a cart line did not end up in any cohort
type DropReason string

const (
	DropUnresolvedProduct   DropReason = "unresolved_product"
	DropUnrecognizedBilling DropReason = "unrecognized_billing"
)

// DroppedLine is a cart line left out of every cohort
type DroppedLine struct {
	ProductID int64
	Reason    DropReason
}

// Classification is the result of Classify
type Classification struct {
	Cohorts []Cohort
	Dropped []DroppedLine
}

// Empty reports whether no cohort was produced
func (c Classification) Empty() bool {
	return len(c.Cohorts) == 0
}

// Classify partitions the resolved products of a cart into cohorts.
//
// products is the catalog's answer for the cart's product ids and may contain
// duplicates. Lines whose product did not resolve, and products whose
// payment type and cadence match no bucket, are reported in Dropped instead
// of failing the cart.
func Classify(lines []CartLine, products []catalog.Product, options []catalog.ConfigurableOption) Classification {
	var result Classification

	resolved := make(map[int64]struct{}, len(products))
	buckets := make(map[CohortKey][]CohortMember, len(BucketOrder))

	for _, p := range products {
		if _, seen := resolved[p.ID]; seen {
			continue
		}
		resolved[p.ID] = struct{}{}

		key, ok := bucketFor(p)
		if !ok {
			result.Dropped = append(result.Dropped, DroppedLine{ProductID: p.ID, Reason: DropUnrecognizedBilling})
			continue
		}

		line := findLine(lines, p.ID)
		member := CohortMember{
			Product:  p,
			Quantity: 1,
		}
		if line != nil && line.Quantity > 0 {
			member.Quantity = line.Quantity
		}
		if opt := optionFor(options, p.ID); opt != nil {
			id := opt.ID
			member.ConfigurableOptionID = &id
			member.ConfigurableOptionIndex = selectedIndex(line, opt)
		}
		buckets[key] = append(buckets[key], member)
	}

	dropped := make(map[int64]struct{})
	for _, l := range lines {
		if _, ok := resolved[l.ProductID]; ok {
			continue
		}
		if _, ok := dropped[l.ProductID]; ok {
			continue
		}
		dropped[l.ProductID] = struct{}{}
		result.Dropped = append(result.Dropped, DroppedLine{ProductID: l.ProductID, Reason: DropUnresolvedProduct})
	}

	for _, key := range BucketOrder {
		if members := buckets[key]; len(members) > 0 {
			result.Cohorts = append(result.Cohorts, Cohort{Key: key, Members: members})
		}
	}
	return result
}

func bucketFor(p catalog.Product) (CohortKey, bool) {
	switch p.PaymentType {
	case catalog.PaymentTypeOneTime:
		return CohortKey{PaymentType: catalog.PaymentTypeOneTime}, true
	case catalog.PaymentTypeRecurring:
		if p.RecurringMethod.IsValid() {
			return CohortKey{PaymentType: catalog.PaymentTypeRecurring, RecurringMethod: p.RecurringMethod}, true
		}
	}
	return CohortKey{}, false
}

func findLine(lines []CartLine, productID int64) *CartLine {
	for i := range lines {
		if lines[i].ProductID == productID {
			return &lines[i]
		}
	}
	return nil
}

func optionFor(options []catalog.ConfigurableOption, productID int64) *catalog.ConfigurableOption {
	for i := range options {
		if options[i].AppliesTo(productID) {
			return &options[i]
		}
	}
	return nil
}

// selectedIndex resolves the chosen variant: explicit index, then name, then 0.
func selectedIndex(line *CartLine, opt *catalog.ConfigurableOption) int {
	if line == nil {
		return 0
	}
	for _, sel := range line.ConfigurableOptions {
		if sel.ID != opt.ID {
			continue
		}
		if sel.Index != nil {
			if _, ok := opt.Choice(*sel.Index); ok {
				return *sel.Index
			}
		}
		if sel.Name != "" {
			if idx, ok := opt.IndexOf(sel.Name); ok {
				return idx
			}
		}
		return 0
	}
	return 0
}
