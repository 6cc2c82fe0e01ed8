package form_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/folio-labs/orderform-api/internal/form"
)

func TestActiveLineItems(t *testing.T) {
	fixed := []form.LineItem{
		{ID: "a", Kind: form.ItemFixed, Name: "Alpha", Enabled: true},
		{ID: "b", Kind: form.ItemFixed, Name: "Beta"},
		{ID: "c", Kind: form.ItemFixed, Name: "Gamma", Enabled: true},
	}
	custom := []form.LineItem{
		{ID: "x", Kind: form.ItemCustom, Name: "Extra"},
		{ID: "y", Kind: form.ItemCustom, Name: ""},
		{ID: "z", Kind: form.ItemCustom, Name: "  "},
	}

	active := form.ActiveLineItems(fixed, custom)
	ids := make([]string, 0, len(active))
	for _, item := range active {
		ids = append(ids, item.ID)
	}
	require.Equal(t, []string{"a", "c", "x"}, ids, "fixed first in catalog order, then named custom items")

	again := form.ActiveLineItems(fixed, custom)
	require.Equal(t, active, again, "filtering is deterministic")
	require.Equal(t, active, form.ActiveLineItems(active, nil), "filtering its own output is a no-op")
}

func TestActiveLineItemsEmptyInputs(t *testing.T) {
	require.Empty(t, form.ActiveLineItems(nil, nil))
	require.Empty(t, form.ActiveLineItems([]form.LineItem{{ID: "a", Kind: form.ItemFixed}}, nil))
}

func TestActiveUsageTiers(t *testing.T) {
	tiers := []form.UsageTier{
		{ID: "t3", StartMonth: "10", Amount: "500"},
		{ID: "t1", StartMonth: "1", EndMonth: "4", Amount: "1000"},
		{ID: "t2", StartMonth: "5"},
		{ID: "t4", Amount: "250"},
	}
	active := form.ActiveUsageTiers(tiers)
	require.Len(t, active, 2)
	require.Equal(t, "t3", active[0].ID, "insertion order preserved, never sorted by start month")
	require.Equal(t, "t1", active[1].ID)
}

func TestTierLabel(t *testing.T) {
	require.Equal(t, "Months 1-4", form.TierLabel(form.UsageTier{StartMonth: "1", EndMonth: "4"}))
	require.Equal(t, "Months 13+", form.TierLabel(form.UsageTier{StartMonth: "13"}))
}
