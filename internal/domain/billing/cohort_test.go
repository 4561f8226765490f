package billing

import (
	"testing"

	"github.com/cpg/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recurring(id int64, method catalog.RecurringMethod) catalog.Product {
	return catalog.Product{
		ID:              id,
		Name:            "recurring",
		Price:           decimal.NewFromInt(10),
		PaymentType:     catalog.PaymentTypeRecurring,
		RecurringMethod: method,
	}
}

func oneTime(id int64) catalog.Product {
	return catalog.Product{
		ID:          id,
		Name:        "one time",
		Price:       decimal.NewFromInt(25),
		PaymentType: catalog.PaymentTypeOneTime,
	}
}

func intPtr(i int) *int { return &i }

func TestClassify_ConcreteCart(t *testing.T) {
	lines := []CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	}
	products := []catalog.Product{recurring(1, catalog.RecurringMonthly), oneTime(2)}

	result := Classify(lines, products, nil)

	require.Len(t, result.Cohorts, 2)
	assert.Equal(t, "monthly", result.Cohorts[0].Key.String())
	require.Len(t, result.Cohorts[0].Members, 1)
	assert.Equal(t, int64(1), result.Cohorts[0].Members[0].Product.ID)
	assert.Equal(t, 2, result.Cohorts[0].Members[0].Quantity)

	assert.Equal(t, "one_time", result.Cohorts[1].Key.String())
	assert.Equal(t, catalog.RecurringMethod(""), result.Cohorts[1].Key.RecurringMethod)
	require.Len(t, result.Cohorts[1].Members, 1)
	assert.Equal(t, int64(2), result.Cohorts[1].Members[0].Product.ID)

	assert.Equal(t, []DroppedLine{{ProductID: 99, Reason: DropUnresolvedProduct}}, result.Dropped)
}

func TestClassify_BucketOrder(t *testing.T) {
	products := []catalog.Product{
		recurring(7, catalog.RecurringYearly),
		oneTime(6),
		recurring(5, catalog.RecurringTriennially),
		recurring(4, catalog.RecurringBiennially),
		recurring(3, catalog.RecurringSemiAnnually),
		recurring(2, catalog.RecurringQuarterly),
		recurring(1, catalog.RecurringMonthly),
	}
	var lines []CartLine
	for _, p := range products {
		lines = append(lines, CartLine{ProductID: p.ID, Quantity: 1})
	}

	result := Classify(lines, products, nil)

	require.Len(t, result.Cohorts, 7)
	var got []string
	for _, c := range result.Cohorts {
		got = append(got, c.Key.String())
	}
	assert.Equal(t, []string{"monthly", "quarterly", "semi_annually", "biennially", "triennially", "one_time", "yearly"}, got)
	assert.Empty(t, result.Dropped)
}

func TestClassify_CohortsAreDisjointAndComplete(t *testing.T) {
	products := []catalog.Product{
		recurring(1, catalog.RecurringMonthly),
		recurring(2, catalog.RecurringMonthly),
		oneTime(3),
		recurring(4, catalog.RecurringMethod("weekly")),
		recurring(1, catalog.RecurringMonthly),
	}
	lines := []CartLine{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 3},
		{ProductID: 3, Quantity: 1},
		{ProductID: 4, Quantity: 1},
		{ProductID: 5, Quantity: 1},
		{ProductID: 5, Quantity: 2},
	}

	result := Classify(lines, products, nil)

	seen := map[int64]int{}
	for _, c := range result.Cohorts {
		for _, m := range c.Members {
			seen[m.Product.ID]++
			if c.Key.IsRecurring() {
				assert.Equal(t, m.Product.RecurringMethod, c.Key.RecurringMethod)
			}
			assert.Equal(t, m.Product.PaymentType, c.Key.PaymentType)
		}
	}
	assert.Equal(t, map[int64]int{1: 1, 2: 1, 3: 1}, seen)
	assert.ElementsMatch(t, []DroppedLine{
		{ProductID: 4, Reason: DropUnrecognizedBilling},
		{ProductID: 5, Reason: DropUnresolvedProduct},
	}, result.Dropped)
}

func TestClassify_QuantityDefaults(t *testing.T) {
	products := []catalog.Product{oneTime(1), oneTime(2)}
	lines := []CartLine{{ProductID: 1, Quantity: 0}}

	result := Classify(lines, products, nil)

	require.Len(t, result.Cohorts, 1)
	for _, m := range result.Cohorts[0].Members {
		assert.Equal(t, 1, m.Quantity)
	}
}

func TestClassify_RecurringWithoutCadenceDropped(t *testing.T) {
	products := []catalog.Product{{ID: 1, PaymentType: catalog.PaymentTypeRecurring}}

	result := Classify([]CartLine{{ProductID: 1, Quantity: 1}}, products, nil)

	assert.True(t, result.Empty())
	assert.Equal(t, []DroppedLine{{ProductID: 1, Reason: DropUnrecognizedBilling}}, result.Dropped)
}

func TestClassify_ConfigurableOptions(t *testing.T) {
	size := catalog.ConfigurableOption{
		ID:         10,
		ProductIDs: []int64{1, 2, 3, 4},
		Options: []catalog.OptionChoice{
			{Name: "small"}, {Name: "medium"}, {Name: "large"},
		},
	}
	products := []catalog.Product{oneTime(1), oneTime(2), oneTime(3), oneTime(4), oneTime(5)}
	lines := []CartLine{
		{ProductID: 1, Quantity: 1, ConfigurableOptions: []OptionSelection{{ID: 10, Index: intPtr(2)}}},
		{ProductID: 2, Quantity: 1, ConfigurableOptions: []OptionSelection{{ID: 10, Name: "medium"}}},
		{ProductID: 3, Quantity: 1, ConfigurableOptions: []OptionSelection{{ID: 10, Index: intPtr(9)}}},
		{ProductID: 4, Quantity: 1},
		{ProductID: 5, Quantity: 1},
	}

	result := Classify(lines, products, []catalog.ConfigurableOption{size})

	require.Len(t, result.Cohorts, 1)
	members := result.Cohorts[0].Members
	require.Len(t, members, 5)

	wantIndex := []int{2, 1, 0, 0}
	for i, want := range wantIndex {
		require.NotNil(t, members[i].ConfigurableOptionID)
		assert.Equal(t, int64(10), *members[i].ConfigurableOptionID)
		assert.Equal(t, want, members[i].ConfigurableOptionIndex, "product %d", members[i].Product.ID)
	}
	assert.Nil(t, members[4].ConfigurableOptionID)
}

func TestClassify_NothingResolves(t *testing.T) {
	result := Classify([]CartLine{{ProductID: 1, Quantity: 1}}, nil, nil)

	assert.True(t, result.Empty())
	assert.Len(t, result.Dropped, 1)
}
