package form_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/folio-labs/orderform-api/internal/form"
)

func TestNewStateDefaults(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := form.NewState(now, 0)

	require.Equal(t, "2025-03-01", s.QuoteDate)
	require.Equal(t, "2025-03-15", s.ExpiryDate, "expiry defaults to quote date + 14 days")
	require.Equal(t, "Net 30", s.Contract.PaymentTerms)
	require.Equal(t, "Monthly", s.Contract.BillingFrequency)
	require.Len(t, s.Products.Fixed, 4)
	require.Len(t, s.Integrations.Fixed, 2)
	require.Len(t, s.Fees.Fixed, 2)
	require.Len(t, s.UsageTiers, 4)
	require.NotEmpty(t, s.Terms)
	for _, item := range s.Products.Fixed {
		require.False(t, item.Enabled, "catalog items start disabled")
		require.False(t, item.Removable, "catalog items are never removable")
	}
}

func TestBillingSameAsCustomerIsOneShot(t *testing.T) {
	s := form.NewState(time.Now(), 0).WithCustomer(form.Customer{
		Name:    "Acme",
		Address: "1 Main St",
		Contact: "Jo Doe",
		Email:   "jo@acme.test",
	})

	s = s.ApplyBillingSameAsCustomer(true)
	require.True(t, s.Billing.SameAsCustomer)
	require.Equal(t, "Acme", s.Billing.Contact)
	require.Equal(t, "Jo Doe", s.Billing.BillTo)
	require.Equal(t, "1 Main St", s.Billing.Address)
	require.Equal(t, "jo@acme.test", s.Billing.Email)

	// Editing the customer afterwards must not re-sync the copy.
	s = s.WithCustomer(form.Customer{Name: "Acme2", Contact: "Jo Doe"})
	require.Equal(t, "Acme", s.Billing.Contact)
}

func TestToggleAndUpdateLineItem(t *testing.T) {
	s := form.NewState(time.Now(), 0)

	s = s.ToggleLineItem(form.Products, "buy", true)
	s = s.UpdateLineItem(form.Products, "buy", "price", "200")
	s = s.UpdateLineItem(form.Products, "buy", "discount", "10")

	active := s.Products.Active()
	require.Len(t, active, 1)
	require.Equal(t, "buy", active[0].ID)
	require.Equal(t, "200", active[0].Price)
	require.Equal(t, "10", active[0].Discount)
}

func TestReducersDoNotMutateReceiver(t *testing.T) {
	base := form.NewState(time.Now(), 0)
	_ = base.ToggleLineItem(form.Products, "buy", true)
	require.False(t, base.Products.Fixed[0].Enabled)

	_ = base.UpdateUsageTier("tier1", "amount", "900")
	require.Empty(t, base.UsageTiers[0].Amount)

	_ = base.SetTermEnabled("taxes", true)
	for _, term := range base.Terms {
		require.False(t, term.Enabled)
	}
}

func TestCustomLineItemLifecycle(t *testing.T) {
	s := form.NewState(time.Now(), 0)

	s = s.AddCustomLineItem(form.Integrations, "custom-1", form.UnitPerMonth)
	require.Len(t, s.Integrations.Custom, 1)
	require.Empty(t, s.Integrations.Active(), "unnamed custom item is not active")

	s = s.UpdateLineItem(form.Integrations, "custom-1", "name", "Toast POS")
	s = s.UpdateLineItem(form.Integrations, "custom-1", "price", "49")
	active := s.Integrations.Active()
	require.Len(t, active, 1)
	require.Equal(t, "Toast POS", active[0].Name)

	s = s.RemoveLineItem(form.Integrations, "custom-1")
	require.Empty(t, s.Integrations.Custom)
}

func TestFixedItemsCannotBeRemoved(t *testing.T) {
	s := form.NewState(time.Now(), 0)
	s = s.RemoveLineItem(form.Products, "buy")
	require.Len(t, s.Products.Fixed, 4, "fixed catalog items are only ever disabled")
}

func TestInvalidUnitRejected(t *testing.T) {
	s := form.NewState(time.Now(), 0)
	s = s.AddCustomLineItem(form.Fees, "custom-1", "/fortnight")
	require.Equal(t, form.UnitPerPropertyPerMonth, s.Fees.Custom[0].Unit)

	s = s.UpdateLineItem(form.Fees, "custom-1", "unit", form.UnitOneTime)
	require.Equal(t, form.UnitOneTime, s.Fees.Custom[0].Unit)
	s = s.UpdateLineItem(form.Fees, "custom-1", "unit", "bogus")
	require.Equal(t, form.UnitOneTime, s.Fees.Custom[0].Unit)
}

func TestUsageTierLifecycle(t *testing.T) {
	s := form.NewState(time.Now(), 0)

	s = s.AddUsageTier("tier-extra")
	require.Len(t, s.UsageTiers, 5)

	s = s.UpdateUsageTier("tier-extra", "startMonth", "25")
	s = s.UpdateUsageTier("tier-extra", "amount", "750")
	s = s.UpdateUsageTier("tier-extra", "note", "assumes 3 properties")
	active := form.ActiveUsageTiers(s.UsageTiers)
	require.Len(t, active, 1)
	require.Equal(t, "tier-extra", active[0].ID)
	require.Equal(t, "assumes 3 properties", active[0].Note)

	s = s.RemoveUsageTier("tier1")
	require.Len(t, s.UsageTiers, 4)
}

func TestTemplateSnapshotExcludesIdentity(t *testing.T) {
	s := form.NewState(time.Now(), 0).
		WithCustomer(form.Customer{Name: "Acme"}).
		WithBilling(form.Billing{BillTo: "Acme AP"}).
		WithPlan(form.Plan{Name: "F&B Bundle"}).
		ToggleLineItem(form.Products, "buy", true).
		UpdateLineItem(form.Products, "buy", "price", "200")
	s.Contract.StartDate = "2025-06-01"

	data := s.Snapshot()
	require.Equal(t, "F&B Bundle", data.Plan.Name)
	require.Empty(t, data.Contract.StartDate, "start date belongs to the quote, not the template")
	require.True(t, data.Products.Fixed[0].Enabled)

	// Applying onto a fresh state swaps collections wholesale and keeps identity.
	fresh := form.NewState(time.Now(), 0).
		WithCustomer(form.Customer{Name: "Other Co"}).
		AddCustomLineItem(form.Fees, "custom-9", form.UnitPerYear)
	fresh.Contract.StartDate = "2026-01-01"
	applied := fresh.ApplyTemplate(data)

	require.Equal(t, "Other Co", applied.Customer.Name)
	require.Equal(t, "2026-01-01", applied.Contract.StartDate)
	require.Equal(t, "F&B Bundle", applied.Plan.Name)
	require.True(t, applied.Products.Fixed[0].Enabled)
	require.Empty(t, applied.Fees.Custom, "collections are replaced, not merged")
}
