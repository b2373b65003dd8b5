package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procure-service/internal/procure/model"
)

func offer(supplier, product, spec string, price float64) model.Offer {
	return model.Offer{Supplier: supplier, Product: product, Spec: spec, Price: price, Key: model.ProductKey(product, spec)}
}

func mustDemand(t *testing.T, text string) model.Demand {
	t.Helper()
	d, _, err := ParseDemand(text)
	require.NoError(t, err)
	return d
}

func TestAllocatePotatoScenario(t *testing.T) {
	t.Parallel()
	offers := []model.Offer{
		offer("X", "potato", "", 2.0),
		offer("Y", "potato", "", 1.8),
	}

	plan := Allocate(offers, mustDemand(t, "potato,,100"), []string{"X", "Y"})

	require.Len(t, plan.Lines, 1)
	line := plan.Lines[0]
	assert.Equal(t, "Y", line.Supplier)
	assert.InDelta(t, 1.8, line.UnitPrice, 1e-9)
	assert.InDelta(t, 180.0, line.LineTotal, 1e-9)
	assert.Equal(t, "potato", line.DisplayName)

	require.Len(t, plan.SupplierTotals, 1)
	assert.Equal(t, "Y", plan.SupplierTotals[0].Supplier)
	assert.InDelta(t, 180.0, plan.SupplierTotals[0].Total, 1e-9)
	assert.InDelta(t, 180.0, plan.GrandTotal, 1e-9)
	assert.Empty(t, plan.Unmatched)
	assert.Empty(t, plan.Notes)

	_, ok := plan.TotalFor("X")
	assert.False(t, ok, "supplier without won lines must be omitted")
}

func TestAllocateTieBreakFirstEncountered(t *testing.T) {
	t.Parallel()
	offers := []model.Offer{
		offer("S1", "rice", "", 10.0),
		offer("S2", "rice", "", 9.5),
		offer("S3", "rice", "", 9.5),
	}

	plan := Allocate(offers, mustDemand(t, "rice,,1"), []string{"S1", "S2", "S3"})

	require.Len(t, plan.Lines, 1)
	assert.Equal(t, "S2", plan.Lines[0].Supplier)
	assert.InDelta(t, 9.5, plan.Lines[0].UnitPrice, 1e-9)
	assert.Equal(t, []model.Quote{
		{Supplier: "S1", Price: 10.0, Quoted: true},
		{Supplier: "S2", Price: 9.5, Quoted: true},
		{Supplier: "S3", Price: 9.5, Quoted: true},
	}, plan.Lines[0].Comparison)
}

func TestAllocateComparisonNoQuote(t *testing.T) {
	t.Parallel()
	offers := []model.Offer{
		offer("A", "apple", "large", 3),
		offer("B", "pear", "", 2),
	}

	plan := Allocate(offers, mustDemand(t, "apple,large,2"), []string{"A", "B", "C"})

	require.Len(t, plan.Lines, 1)
	assert.Equal(t, []model.Quote{
		{Supplier: "A", Price: 3, Quoted: true},
		{Supplier: "B"},
		{Supplier: "C"},
	}, plan.Lines[0].Comparison)
}

func TestAllocateMatchIgnoresCaseAndOuterSpace(t *testing.T) {
	t.Parallel()
	offers := []model.Offer{
		{Supplier: "A", Product: "Potato", Spec: "70CM", Price: 2, Key: "  Potato|70CM "},
	}

	plan := Allocate(offers, mustDemand(t, "potato,70cm,3"), []string{"A", "B"})

	require.Len(t, plan.Lines, 1)
	assert.Equal(t, "potato|70cm", plan.Lines[0].Key)
	assert.Equal(t, "potato (70cm)", plan.Lines[0].DisplayName)
}

func TestAllocateSupplierDuplicateComparisonShowsFirstRow(t *testing.T) {
	t.Parallel()
	offers := []model.Offer{
		offer("A", "salt", "", 1.5),
		offer("B", "salt", "", 1.4),
		offer("A", "salt", "", 1.2),
	}

	plan := Allocate(offers, mustDemand(t, "salt,,10"), []string{"A", "B"})

	require.Len(t, plan.Lines, 1)
	assert.Equal(t, "A", plan.Lines[0].Supplier)
	assert.InDelta(t, 1.2, plan.Lines[0].UnitPrice, 1e-9)
	assert.InDelta(t, 12.0, plan.Lines[0].LineTotal, 1e-9)
	// в сравнении: первая строка прайса A, а не его минимум
	require.Len(t, plan.Lines[0].Comparison, 2)
	assert.InDelta(t, 1.5, plan.Lines[0].Comparison[0].Price, 1e-9)
	assert.InDelta(t, 1.4, plan.Lines[0].Comparison[1].Price, 1e-9)
}

func TestAllocateUnmatched(t *testing.T) {
	t.Parallel()
	offers := []model.Offer{offer("A", "potato", "", 2)}

	plan := Allocate(offers, mustDemand(t, "potato,,1\nmango,ripe,4"), []string{"A", "B"})

	assert.Equal(t, []string{"mango (ripe)"}, plan.Unmatched)
	require.Len(t, plan.Lines, 1)
	assert.InDelta(t, 2.0, plan.GrandTotal, 1e-9)
	require.Len(t, plan.Notes, 1)
	assert.Contains(t, plan.Notes[0], "mango (ripe)")
}

func TestAllocateNoOffers(t *testing.T) {
	t.Parallel()

	plan := Allocate(nil, mustDemand(t, "potato,,1"), []string{"A", "B"})

	assert.True(t, plan.Empty())
	assert.Empty(t, plan.SupplierTotals)
	assert.Zero(t, plan.GrandTotal)
	assert.Equal(t, []string{ErrNoOffers.Error()}, plan.Notes)
}

func TestAllocateGroupingAndTotals(t *testing.T) {
	t.Parallel()
	offers := []model.Offer{
		offer("A", "potato", "", 2.0),
		offer("A", "onion", "", 1.0),
		offer("B", "potato", "", 2.5),
		offer("B", "onion", "", 0.8),
		offer("B", "carrot", "", 1.1),
		offer("A", "carrot", "", 1.3),
		offer("C", "garlic", "", 7.0),
	}
	demand := mustDemand(t, "onion,,10\npotato,,5\ngarlic,,1\ncarrot,,3\npotato,,5")

	plan := Allocate(offers, demand, []string{"A", "B", "C"})

	// группы в порядке поставщиков, внутри: порядок позиций
	var got [][2]string
	for _, l := range plan.Lines {
		got = append(got, [2]string{l.Supplier, l.Key})
	}
	assert.Equal(t, [][2]string{
		{"A", "potato"},
		{"B", "onion"},
		{"B", "carrot"},
		{"C", "garlic"},
	}, got)

	sum := 0.0
	for _, st := range plan.SupplierTotals {
		lineSum := 0.0
		for _, l := range plan.LinesFor(st.Supplier) {
			lineSum += l.LineTotal
		}
		assert.InDelta(t, lineSum, st.Total, 1e-9, st.Supplier)
		sum += st.Total
	}
	assert.InDelta(t, sum, plan.GrandTotal, 1e-9)
	assert.InDelta(t, 20.0+8.0+3.3+7.0, plan.GrandTotal, 1e-9)
}

func TestAllocateDeterministic(t *testing.T) {
	t.Parallel()
	offers := []model.Offer{
		offer("A", "potato", "", 2.0),
		offer("B", "potato", "", 2.0),
		offer("B", "onion", "", 0.8),
	}
	demand := mustDemand(t, "potato,,5\nonion,,2\nleek,,1")
	suppliers := []string{"A", "B"}

	first := Allocate(offers, demand, suppliers)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Allocate(offers, demand, suppliers))
	}
}
