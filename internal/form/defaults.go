package form

import "time"

// DefaultExpiryDays is how far past the quote date the quote expires unless
// the expiry is overridden.
const DefaultExpiryDays = 14

// DefaultProducts seeds the fixed product catalog.
func DefaultProducts() Catalog {
	return Catalog{Fixed: []LineItem{
		{ID: "buy", Kind: ItemFixed, Name: "Folio Buy", Unit: UnitPerPropertyPerMonth},
		{ID: "bills", Kind: ItemFixed, Name: "Folio Bills", Unit: UnitPerPropertyPerMonth},
		{ID: "inventory", Kind: ItemFixed, Name: "Folio Inventory", Unit: UnitPerPropertyPerMonth},
		{ID: "pay", Kind: ItemFixed, Name: "Folio Pay", Unit: UnitPerPropertyPerMonth},
	}}
}

// DefaultIntegrations seeds the fixed integration catalog.
func DefaultIntegrations() Catalog {
	return Catalog{Fixed: []LineItem{
		{ID: "meez", Kind: ItemFixed, Name: "Meez Recipe Management", Unit: UnitPerPropertyPerMonth},
		{ID: "sage", Kind: ItemFixed, Name: "Sage Integration", Unit: UnitPerPropertyPerMonth},
	}}
}

// DefaultFees seeds the fixed additional-fee catalog.
func DefaultFees() Catalog {
	return Catalog{Fixed: []LineItem{
		{ID: "admin", Kind: ItemFixed, Name: "Manager Admin Fee", Unit: UnitPerYear},
		{ID: "setup", Kind: ItemFixed, Name: "Property Setup Fee", Unit: UnitPerProperty},
	}}
}

// DefaultUsageTiers seeds the four starter commitment tiers.
func DefaultUsageTiers() []UsageTier {
	return []UsageTier{
		{ID: "tier1", StartMonth: "1", EndMonth: "4"},
		{ID: "tier2", StartMonth: "5", EndMonth: "9"},
		{ID: "tier3", StartMonth: "10", EndMonth: "12"},
		{ID: "tier4", StartMonth: "13"},
	}
}

// DefaultTerms seeds the fixed list of optional legal clauses. Terms are
// toggled and parameterized but never added or removed.
func DefaultTerms() []Term {
	return []Term{
		{ID: "property-cap", Text: "Pricing assumes up to " + TokenProperties + " properties under management."},
		{ID: "setup-waiver", Text: "The Property Setup Fee is waived for agreements executed on or before " + TokenWaiverDate + "."},
		{ID: "fee-schedule", Text: "All fees are invoiced per the payment terms and billing frequency stated above."},
		{ID: "taxes", Text: "Prices exclude applicable sales and use taxes."},
	}
}

// DefaultContract seeds the standard commercial terms.
func DefaultContract() Contract {
	return Contract{
		InitialTerm:      "12 months",
		RenewalTerm:      "1 year",
		PaymentTerms:     "Net 30",
		BillingFrequency: "Monthly",
	}
}

// NewState builds a fresh order form dated now, with the quote expiry
// derived as quote date plus expiryDays. Pass expiryDays <= 0 for the
// default window.
func NewState(now time.Time, expiryDays int) State {
	if expiryDays <= 0 {
		expiryDays = DefaultExpiryDays
	}
	quote := now.Format("2006-01-02")
	expiry := now.AddDate(0, 0, expiryDays).Format("2006-01-02")
	return State{
		QuoteDate:    quote,
		ExpiryDate:   expiry,
		Contract:     DefaultContract(),
		Products:     DefaultProducts(),
		Integrations: DefaultIntegrations(),
		Fees:         DefaultFees(),
		UsageTiers:   DefaultUsageTiers(),
		Terms:        DefaultTerms(),
	}
}
